package assessment

import (
	"time"

	"github.com/google/uuid"
)

type Assessment struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	JobID        uuid.UUID
	ReadinessPct *float64
	StatusTag    *string
	AnalyzedAt   *time.Time
	CreatedAt    time.Time
}

func (a Assessment) Analyzed() bool {
	return a.AnalyzedAt != nil
}

type SkillResult struct {
	AssessmentID      uuid.UUID
	SkillID           uuid.UUID
	QuestionsAnswered int
	QuestionsCorrect  int
	ScorePct          float64
}
