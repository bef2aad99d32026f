package repository

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound        = errors.New("job not found")
	ErrProgramNotFound    = errors.New("program not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
)

// uuidStrings prepares an id list for `= ANY($n::uuid[])`.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id.String())
	}
	return out
}
