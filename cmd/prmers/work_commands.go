package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Artoria2e5/PrMers/internal/history"
	"github.com/Artoria2e5/PrMers/internal/worktodo"
)

func newWorkCommand(ctx *commandContext) *cobra.Command {
	workCmd := &cobra.Command{
		Use:   "work",
		Short: "Inspect and consume the worktodo queue",
	}

	workCmd.AddCommand(newWorkNextCommand(ctx))
	workCmd.AddCommand(newWorkCompleteCommand(ctx))
	workCmd.AddCommand(newWorkListCommand(ctx))
	workCmd.AddCommand(newWorkAddCommand(ctx))

	return workCmd
}

func newWorkNextCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the first valid work assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := ctx.newParser()
			if err != nil {
				return err
			}
			entry, diags, err := parser.Parse()
			if err != nil {
				if errors.Is(err, worktodo.ErrNoEntry) {
					reportDiagnostics(cmd, diags)
					return fmt.Errorf("no valid entry found in %s", parser.Path())
				}
				return err
			}
			reportDiagnostics(cmd, diags)
			if asJSON {
				return writeEntryJSON(cmd, entry)
			}
			fmt.Fprintln(cmd.OutOrStdout(), entry.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the entry as JSON")
	return cmd
}

func newWorkCompleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Archive the first queue line after its work is done",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := ctx.newParser()
			if err != nil {
				return err
			}
			return ctx.withQueueLock(func() error {
				// Best-effort metadata for the history store; the archival
				// itself pops the first non-empty line regardless.
				entry, _, parseErr := parser.Parse()
				if parseErr != nil && !errors.Is(parseErr, worktodo.ErrNoEntry) {
					return parseErr
				}

				archived, err := parser.RemoveFirstProcessed()
				if err != nil {
					return err
				}
				if !archived {
					return fmt.Errorf("no line to archive in %s", parser.Path())
				}

				if entry != nil {
					if err := ctx.withStore(func(store *history.Store) error {
						_, err := store.Record(cmd.Context(), history.FromEntry(entry))
						return err
					}); err != nil {
						return fmt.Errorf("record history: %w", err)
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Archived 1 line to %s\n", parser.ArchivePath())
				return nil
			})
		},
	}
}

func newWorkListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Scan the whole queue and report entries and problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := ctx.newParser()
			if err != nil {
				return err
			}
			entries, diags, err := parser.ParseAll()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color := shouldColorize(os.Stdout)

			if len(entries) == 0 {
				fmt.Fprintln(out, "No valid entries")
			} else {
				rows := make([][]string, 0, len(entries))
				for i, entry := range entries {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						colorize(color, text.FgGreen, string(entry.JobType)),
						formatCandidate(entry),
						formatOptions(entry),
						strconv.Itoa(len(entry.KnownFactors)),
						entry.AssignmentID,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Type", "Candidate", "Options", "Factors", "AID"},
					rows,
					[]text.Align{text.AlignRight, text.AlignLeft, text.AlignLeft, text.AlignLeft, text.AlignRight, text.AlignLeft},
				))
			}

			if len(diags) > 0 {
				rows := make([][]string, 0, len(diags))
				for _, diag := range diags {
					kind := colorize(color, text.FgRed, "skip")
					if diag.Warning {
						kind = colorize(color, text.FgYellow, "warning")
					}
					rows = append(rows, []string{
						strconv.Itoa(diag.Line),
						kind,
						string(diag.Reason),
						diag.Detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Line", "Kind", "Reason", "Detail"},
					rows,
					[]text.Align{text.AlignRight, text.AlignLeft, text.AlignLeft, text.AlignLeft},
				))
			}
			return nil
		},
	}
}

func newWorkAddCommand(ctx *commandContext) *cobra.Command {
	var (
		jobKey     string
		exponent   uint32
		k, b       uint32
		n          uint32
		c          int32
		b1, b2     uint64
		factored   string
		testsSaved string
		factors    []string
		assign     bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a work assignment to the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := ctx.newParser()
			if err != nil {
				return err
			}

			aid := ""
			if assign {
				aid = strings.ReplaceAll(uuid.New().String(), "-", "")
			}
			line, err := buildWorktodoLine(jobKey, aid, exponent, k, b, n, c, b1, b2, factored, testsSaved, factors)
			if err != nil {
				return err
			}

			entry, diags := parser.CheckLine(line)
			if entry == nil {
				if len(diags) > 0 {
					return fmt.Errorf("refusing to add invalid line: %s", diags[len(diags)-1].Detail)
				}
				return fmt.Errorf("refusing to add invalid line %q", line)
			}

			return ctx.withQueueLock(func() error {
				if err := appendLine(parser.Path(), line); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added: %s\n", entry.Summary())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&jobKey, "type", "t", "PRP", "Line type: Test, DoubleCheck, PRP, PRPDC, PFactor, or Pminus1")
	cmd.Flags().Uint32Var(&exponent, "exponent", 0, "Mersenne exponent shorthand (k=1, b=2, c=-1)")
	cmd.Flags().Uint32Var(&k, "k", 0, "Candidate k")
	cmd.Flags().Uint32Var(&b, "b", 0, "Candidate b")
	cmd.Flags().Uint32Var(&n, "n", 0, "Candidate exponent n")
	cmd.Flags().Int32Var(&c, "offset", 0, "Candidate c")
	cmd.Flags().Uint64Var(&b1, "b1", 0, "P-1 stage 1 bound")
	cmd.Flags().Uint64Var(&b2, "b2", 0, "P-1 stage 2 bound")
	cmd.Flags().StringVar(&factored, "factored", "74", "Trial-factoring depth already reached")
	cmd.Flags().StringVar(&testsSaved, "tests-saved", "1", "Estimated tests saved if a factor is found")
	cmd.Flags().StringSliceVar(&factors, "factor", nil, "Known factor (repeatable)")
	cmd.Flags().BoolVar(&assign, "assign", false, "Generate a local assignment id")
	return cmd
}

// buildWorktodoLine composes a queue line in the grammar expected for the
// given key.
func buildWorktodoLine(jobKey, aid string, exponent, k, b, n uint32, c int32, b1, b2 uint64, factored, testsSaved string, factors []string) (string, error) {
	if exponent != 0 {
		k, b, n, c = 1, 2, exponent, -1
	}
	if n == 0 {
		return "", errors.New("an exponent is required (--exponent or --n)")
	}

	var fields []string
	if aid != "" {
		fields = append(fields, aid)
	}

	switch jobKey {
	case "Test", "DoubleCheck":
		fields = append(fields, formatUint(n), factored, "0")
	case "PRP", "PRPDC":
		fields = append(fields,
			formatUint(k), formatUint(b), formatUint(n), strconv.FormatInt(int64(c), 10))
		if len(factors) > 0 {
			fields = append(fields, `"`+strings.Join(factors, ",")+`"`)
		}
	case "PFactor":
		if b1 == 0 || b2 == 0 {
			return "", errors.New("PFactor lines require --b1 and --b2")
		}
		fields = append(fields, formatUint(n), factored, testsSaved,
			strconv.FormatUint(b1, 10), strconv.FormatUint(b2, 10))
	case "Pminus1":
		if b1 == 0 || b2 == 0 {
			return "", errors.New("Pminus1 lines require --b1 and --b2")
		}
		fields = append(fields,
			formatUint(k), formatUint(b), formatUint(n), strconv.FormatInt(int64(c), 10),
			strconv.FormatUint(b1, 10), strconv.FormatUint(b2, 10), factored)
	default:
		return "", fmt.Errorf("unsupported line type %q", jobKey)
	}

	return jobKey + "=" + strings.Join(fields, ","), nil
}

func formatUint(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func appendLine(path, line string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open worktodo file: %w", err)
	}
	defer file.Close()
	if _, err := fmt.Fprintln(file, line); err != nil {
		return fmt.Errorf("append worktodo line: %w", err)
	}
	return file.Close()
}

func reportDiagnostics(cmd *cobra.Command, diags []worktodo.Diagnostic) {
	for _, diag := range diags {
		fmt.Fprintln(cmd.ErrOrStderr(), diag.String())
	}
}

func formatCandidate(e *worktodo.Entry) string {
	return fmt.Sprintf("%d*%d^%d%+d", e.K, e.B, e.Exponent, e.C)
}

func formatOptions(e *worktodo.Entry) string {
	switch opts := e.Options.(type) {
	case worktodo.FactoringOptions:
		return fmt.Sprintf("B1=%d B2=%d", opts.B1, opts.B2)
	case worktodo.PrimalityOptions:
		return fmt.Sprintf("residueType=%d", opts.ResidueType)
	default:
		return ""
	}
}

type entryView struct {
	JobType      string   `json:"job_type"`
	K            uint32   `json:"k"`
	B            uint32   `json:"b"`
	Exponent     uint32   `json:"exponent"`
	C            int32    `json:"c"`
	AssignmentID string   `json:"assignment_id,omitempty"`
	Mersenne     bool     `json:"mersenne"`
	Wagstaff     bool     `json:"wagstaff"`
	KnownFactors []string `json:"known_factors,omitempty"`
	ResidueType  *uint32  `json:"residue_type,omitempty"`
	B1           *uint64  `json:"b1,omitempty"`
	B2           *uint64  `json:"b2,omitempty"`
	RawLine      string   `json:"raw_line"`
}

func writeEntryJSON(cmd *cobra.Command, entry *worktodo.Entry) error {
	view := entryView{
		JobType:      string(entry.JobType),
		K:            entry.K,
		B:            entry.B,
		Exponent:     entry.Exponent,
		C:            entry.C,
		AssignmentID: entry.AssignmentID,
		Mersenne:     entry.IsMersenne(),
		Wagstaff:     entry.IsWagstaff(),
		KnownFactors: entry.KnownFactors,
		RawLine:      entry.RawLine,
	}
	if opts, ok := entry.Primality(); ok {
		view.ResidueType = &opts.ResidueType
	}
	if opts, ok := entry.Factoring(); ok {
		view.B1 = &opts.B1
		view.B2 = &opts.B2
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(view)
}
