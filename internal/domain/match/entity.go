package match

import (
	"time"

	"github.com/google/uuid"
)

// ProgramJob is a persisted program-to-job match. (ProgramID, JobID) is
// unique; a second insert for the same pair is a no-op.
type ProgramJob struct {
	ProgramID       uuid.UUID
	JobID           uuid.UUID
	MatchType       string
	MatchConfidence float64
	Notes           string
	CreatedAt       time.Time
}
