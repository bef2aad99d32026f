package usecase

import "github.com/google/uuid"

// EventPublisher receives engine outcomes for realtime subscribers.
type EventPublisher interface {
	AssessmentAnalyzed(assessmentID uuid.UUID, readinessPct float64, statusTag string)
	ProgramSkillsRebuilt(programID uuid.UUID, skillsCount int)
}

type noopPublisher struct{}

func (noopPublisher) AssessmentAnalyzed(uuid.UUID, float64, string) {}
func (noopPublisher) ProgramSkillsRebuilt(uuid.UUID, int)           {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
