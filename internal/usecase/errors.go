package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNoMapping          = errors.New("no crosswalk mapping for classification code")
	ErrNoJobs             = errors.New("no jobs for classification code")
	ErrDataUnavailable    = errors.New("data unavailable")
	ErrProgramNotFound    = errors.New("program not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrNoSkillResults     = errors.New("assessment has no skill results")
	ErrAlreadyAnalyzed    = errors.New("assessment already analyzed")
	ErrRebuildInProgress  = errors.New("program skills rebuild already in progress")
)

// unavailable wraps a storage failure so callers can tell it apart from
// the empty-result conditions.
func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, op, err)
}
