package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventAssessmentAnalyzed   = "assessment_analyzed"
	EventProgramSkillsRebuilt = "program_skills_rebuilt"
)

type Event struct {
	Type         string   `json:"type"`
	ID           string   `json:"id"`
	ReadinessPct *float64 `json:"readiness_pct,omitempty"`
	StatusTag    string   `json:"status_tag,omitempty"`
	SkillsCount  *int     `json:"skills_count,omitempty"`
	Timestamp    string   `json:"timestamp"`
}

// Notifier turns engine outcomes into hub broadcasts. A nil Notifier or hub
// drops events silently.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) AssessmentAnalyzed(assessmentID uuid.UUID, readinessPct float64, statusTag string) {
	n.publish(Event{
		Type:         EventAssessmentAnalyzed,
		ID:           assessmentID.String(),
		ReadinessPct: &readinessPct,
		StatusTag:    statusTag,
	})
}

func (n *Notifier) ProgramSkillsRebuilt(programID uuid.UUID, skillsCount int) {
	n.publish(Event{
		Type:        EventProgramSkillsRebuilt,
		ID:          programID.String(),
		SkillsCount: &skillsCount,
	})
}

func (n *Notifier) publish(evt Event) {
	if n == nil || n.hub == nil {
		return
	}
	evt.Timestamp = n.now().UTC().Format(time.RFC3339)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
