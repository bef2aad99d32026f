package job

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID                     uuid.UUID
	Title                  string
	SOCCode                string
	RequiredProficiencyPct *float64
	RoleReadyPct           *float64
	CloseGapsPct           *float64
	CreatedAt              time.Time
}

type CrosswalkEntry struct {
	CIPCode       string
	SOCCode       string
	MatchStrength string
}
