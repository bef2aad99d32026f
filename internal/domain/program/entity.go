package program

import (
	"time"

	"github.com/google/uuid"
)

type Program struct {
	ID          uuid.UUID
	Name        string
	CIPCode     *string
	SkillsCount int
	CreatedAt   time.Time
}

type MatchType string

const (
	MatchTypeCrosswalk MatchType = "crosswalk"
	MatchTypeFuzzy     MatchType = "fuzzy"
)
