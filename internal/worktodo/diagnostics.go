package worktodo

import "fmt"

// SkipReason classifies why a worktodo line was not turned into an entry.
type SkipReason string

const (
	ReasonMalformedLine   SkipReason = "malformed_line"
	ReasonUnsupportedKey  SkipReason = "unsupported_key"
	ReasonMissingFields   SkipReason = "missing_fields"
	ReasonBadNumber       SkipReason = "bad_number"
	ReasonInvalidKBNC     SkipReason = "invalid_kbnc"
	ReasonInvalidBounds   SkipReason = "invalid_bounds"
	ReasonUnsupportedForm SkipReason = "unsupported_form"
	ReasonUnsupportedBase SkipReason = "unsupported_base"
	ReasonBadFactors      SkipReason = "bad_factors"
	ReasonResidueMismatch SkipReason = "residue_mismatch"
)

// Diagnostic records one skip or warning decision made during a scan, so the
// parser's behavior is observable without capturing process output. Warnings
// accompany accepted lines; skips are terminal for their line.
type Diagnostic struct {
	Line    int
	Reason  SkipReason
	Detail  string
	Warning bool
}

func (d Diagnostic) String() string {
	kind := "skip"
	if d.Warning {
		kind = "warning"
	}
	return fmt.Sprintf("line %d: %s %s: %s", d.Line, kind, d.Reason, d.Detail)
}

func skip(reason SkipReason, format string, args ...any) *Diagnostic {
	return &Diagnostic{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

func warning(reason SkipReason, format string, args ...any) *Diagnostic {
	return &Diagnostic{Reason: reason, Detail: fmt.Sprintf(format, args...), Warning: true}
}
