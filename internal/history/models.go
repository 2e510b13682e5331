package history

import (
	"time"

	"github.com/Artoria2e5/PrMers/internal/worktodo"
)

// Record is one consumed work assignment.
type Record struct {
	ID           int64
	JobType      string
	K            uint32
	B            uint32
	Exponent     uint32
	C            int32
	AssignmentID string
	RawLine      string
	ConsumedAt   time.Time
}

// FromEntry builds a Record from a parsed worktodo entry.
func FromEntry(e *worktodo.Entry) Record {
	return Record{
		JobType:      string(e.JobType),
		K:            e.K,
		B:            e.B,
		Exponent:     e.Exponent,
		C:            e.C,
		AssignmentID: e.AssignmentID,
		RawLine:      e.RawLine,
	}
}
