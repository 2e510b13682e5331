package worktodo

import (
	"fmt"
	"strings"
)

// JobType identifies the kind of computation a worktodo entry requests.
type JobType string

const (
	JobPRP         JobType = "PRP"
	JobLucasLehmer JobType = "LL"
	JobPMinus1     JobType = "P-1"
)

// Residue type codes attached to PRP results. The cofactor value is reserved
// for Mersenne candidates tested against their known factors.
const (
	ResidueTypeStandard         uint32 = 1
	ResidueTypeMersenneCofactor uint32 = 5
)

// ModeOptions carries the per-job-type option arm. Exactly one concrete type
// exists per job family, so reading the wrong arm is a type error rather than
// a silent misread.
type ModeOptions interface {
	modeOptions()
}

// FactoringOptions holds the P-1 stage bounds.
type FactoringOptions struct {
	B1 uint64
	B2 uint64
}

func (FactoringOptions) modeOptions() {}

// PrimalityOptions holds the PRP/LL residue classification.
type PrimalityOptions struct {
	ResidueType uint32
}

func (PrimalityOptions) modeOptions() {}

// Entry is one validated work assignment: a candidate N = k*b^n + c together
// with the requested test and its options.
type Entry struct {
	JobType      JobType
	K            uint32
	B            uint32
	Exponent     uint32
	C            int32
	AssignmentID string
	RawLine      string
	KnownFactors []string
	Options      ModeOptions
}

// Factoring returns the P-1 option arm when present.
func (e *Entry) Factoring() (FactoringOptions, bool) {
	opts, ok := e.Options.(FactoringOptions)
	return opts, ok
}

// Primality returns the PRP/LL option arm when present.
func (e *Entry) Primality() (PrimalityOptions, bool) {
	opts, ok := e.Options.(PrimalityOptions)
	return opts, ok
}

// IsMersenne reports whether the candidate is of the form 2^p - 1.
func (e *Entry) IsMersenne() bool {
	return e.K == 1 && e.B == 2 && e.C == -1
}

// IsWagstaff reports whether the candidate is of the form (2^p + 1) / 3,
// expressed as 2^p + 1 with the factor 3 recorded first.
func (e *Entry) IsWagstaff() bool {
	return e.K == 1 && e.B == 2 && e.C == 1 &&
		len(e.KnownFactors) > 0 && e.KnownFactors[0] == "3"
}

// Summary renders the one-line human-readable description of the entry used
// for logging.
func (e *Entry) Summary() string {
	var sb strings.Builder
	sb.WriteString("entry: ")
	switch e.JobType {
	case JobPRP:
		sb.WriteString("PRP ")
	case JobLucasLehmer:
		sb.WriteString("LL ")
	case JobPMinus1:
		sb.WriteString("P-1 ")
	default:
		sb.WriteString("Unsupported op ")
	}
	fmt.Fprintf(&sb, "on %d*%d^%d", e.K, e.B, e.Exponent)
	if e.C >= 0 {
		sb.WriteByte('+')
	}
	fmt.Fprintf(&sb, "%d", e.C)
	if e.IsMersenne() {
		sb.WriteString(" (Mersenne)")
	}
	if e.IsWagstaff() {
		sb.WriteString(" (Wagstaff)")
	}
	if n := len(e.KnownFactors); n > 0 {
		fmt.Fprintf(&sb, " with %d known factors", n)
	}
	switch opts := e.Options.(type) {
	case FactoringOptions:
		fmt.Fprintf(&sb, " B1=%d, B2=%d", opts.B1, opts.B2)
	case PrimalityOptions:
		fmt.Fprintf(&sb, " residueType=%d", opts.ResidueType)
	}
	if e.AssignmentID != "" {
		sb.WriteString(", AID=")
		sb.WriteString(e.AssignmentID)
	}
	return sb.String()
}
