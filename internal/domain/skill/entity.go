package skill

import (
	"time"

	"github.com/google/uuid"
)

type Source string

const (
	SourceONET      Source = "onet"
	SourceAI        Source = "ai"
	SourceLightcast Source = "lightcast"
	SourceManual    Source = "manual"
)

type Skill struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Source      Source
	ExternalID  *string
	Description *string
	CreatedAt   time.Time
}

// OccupationLink ties a job to a skill. Weight is 0..1 once normalized;
// ImportanceLevel is the ordinal label used for readiness scoring.
type OccupationLink struct {
	JobID           uuid.UUID
	SkillID         uuid.UUID
	Weight          *float64
	ImportanceLevel *string
	OriginData      []byte
}

type ProgramLink struct {
	ProgramID uuid.UUID
	SkillID   uuid.UUID
	Weight    float64
}
