package worktodo

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Artoria2e5/PrMers/internal/logging"
)

// ErrNoEntry is returned when the whole file was scanned without producing a
// valid entry.
var ErrNoEntry = errors.New("no valid worktodo entry found")

// Validator is the external numeric capability that checks whether each
// decimal factor string genuinely divides 2^exponent - 1. It returns an error
// naming the first factor that fails.
type Validator interface {
	ValidateFactors(exponent uint32, factors []string) error
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(exponent uint32, factors []string) error

func (f ValidatorFunc) ValidateFactors(exponent uint32, factors []string) error {
	return f(exponent, factors)
}

// Options configures a Parser.
type Options struct {
	// Path is the worktodo queue file.
	Path string
	// ArchivePath receives consumed lines; defaults to worktodo_save.txt
	// next to the queue file.
	ArchivePath string
	// PRPBases is the set of PRP bases the compute engine supports.
	// Defaults to base 3 only.
	PRPBases []uint32
	// Validator checks known factors on Mersenne PRP lines. When nil, any
	// line carrying known factors is rejected.
	Validator Validator
	Logger    *slog.Logger
}

// Parser reads work assignments from a worktodo queue file. Parsing never
// mutates the file; RemoveFirstProcessed is the sole mutator.
type Parser struct {
	path        string
	archivePath string
	bases       map[uint32]struct{}
	validator   Validator
	logger      *slog.Logger
}

// New constructs a Parser, applying defaults for unset options.
func New(opts Options) *Parser {
	archive := opts.ArchivePath
	if archive == "" {
		archive = filepath.Join(filepath.Dir(opts.Path), "worktodo_save.txt")
	}
	bases := opts.PRPBases
	if len(bases) == 0 {
		bases = []uint32{3}
	}
	baseSet := make(map[uint32]struct{}, len(bases))
	for _, base := range bases {
		baseSet[base] = struct{}{}
	}
	validator := opts.Validator
	if validator == nil {
		validator = ValidatorFunc(func(uint32, []string) error {
			return errors.New("no cofactor validator configured")
		})
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Parser{
		path:        opts.Path,
		archivePath: archive,
		bases:       baseSet,
		validator:   validator,
		logger:      logger,
	}
}

// Path returns the worktodo file the parser operates on.
func (p *Parser) Path() string {
	return p.path
}

// ArchivePath returns the file consumed lines are appended to.
func (p *Parser) ArchivePath() string {
	return p.archivePath
}

// Parse scans the queue file and returns the first fully valid entry. Lines
// rejected along the way are reported through the returned diagnostics and
// stay on disk untouched; they will be re-read on the next call. When the
// file holds no valid entry the error is ErrNoEntry.
func (p *Parser) Parse() (*Entry, []Diagnostic, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open worktodo file: %w", err)
	}
	defer file.Close()

	var diags []Diagnostic
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, lineDiags := p.parseLine(line, lineNo)
		diags = append(diags, lineDiags...)
		if entry != nil {
			p.logger.Info("loaded worktodo entry", "line", lineNo, "entry", entry.Summary())
			return entry, diags, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, diags, fmt.Errorf("read worktodo file: %w", err)
	}
	p.logger.Info("no valid entry found", "path", p.path)
	return nil, diags, ErrNoEntry
}

// ParseAll scans the whole file and returns every valid entry in order,
// together with the diagnostics for all rejected lines. The file is not
// mutated.
func (p *Parser) ParseAll() ([]*Entry, []Diagnostic, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open worktodo file: %w", err)
	}
	defer file.Close()

	var (
		entries []*Entry
		diags   []Diagnostic
	)
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, lineDiags := p.parseLine(line, lineNo)
		diags = append(diags, lineDiags...)
		if entry != nil {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return entries, diags, fmt.Errorf("read worktodo file: %w", err)
	}
	return entries, diags, nil
}

// CheckLine runs a single line through the full decode path without touching
// the file. Blank and comment lines yield neither an entry nor diagnostics.
func (p *Parser) CheckLine(line string) (*Entry, []Diagnostic) {
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}
	return p.parseLine(line, 0)
}

func (p *Parser) parseLine(line string, lineNo int) (*Entry, []Diagnostic) {
	key, valueSpec, ok := splitTopLevel(line)
	if !ok {
		diag := skip(ReasonMalformedLine, "missing key or value spec")
		diag.Line = lineNo
		return nil, []Diagnostic{*diag}
	}

	kind, jobType, ok := classify(key)
	if !ok {
		diag := skip(ReasonUnsupportedKey, "unsupported test type %q", key)
		diag.Line = lineNo
		p.logger.Warn("skipping worktodo line", "line", lineNo, "reason", diag.Reason, "detail", diag.Detail)
		return nil, []Diagnostic{*diag}
	}

	fields := trimSentinel(splitFields(valueSpec))
	aid, fields := extractAssignmentID(fields, kind == kindPFactor || kind == kindPMinus1)

	entry := &Entry{
		JobType:      jobType,
		AssignmentID: aid,
		RawLine:      line,
	}
	if jobType == JobPRP || jobType == JobLucasLehmer {
		entry.Options = PrimalityOptions{ResidueType: ResidueTypeStandard}
	}

	cur := newCursor(fields)
	var skipDiag, warnDiag *Diagnostic
	switch kind {
	case kindPFactor:
		skipDiag = p.decodePFactor(entry, cur)
	case kindPMinus1:
		skipDiag = p.decodePMinus1(entry, cur)
	case kindLucasLehmer:
		skipDiag = p.decodeLucasLehmer(entry, cur)
	case kindPRP:
		skipDiag, warnDiag = p.decodePRP(entry, cur)
	}

	var diags []Diagnostic
	if warnDiag != nil {
		warnDiag.Line = lineNo
		diags = append(diags, *warnDiag)
		p.logger.Warn("worktodo line warning", "line", lineNo, "reason", warnDiag.Reason, "detail", warnDiag.Detail)
	}
	if skipDiag != nil {
		skipDiag.Line = lineNo
		diags = append(diags, *skipDiag)
		p.logger.Warn("skipping worktodo line", "line", lineNo, "reason", skipDiag.Reason, "detail", skipDiag.Detail)
		return nil, diags
	}
	return entry, diags
}
