package dto

import "github.com/google/uuid"

type SkillTallyItem struct {
	SkillID           uuid.UUID `json:"skill_id"`
	QuestionsAnswered int       `json:"questions_answered"`
	QuestionsCorrect  int       `json:"questions_correct"`
	ScorePct          float64   `json:"score_pct"`
}

type RecordResponsesResponse struct {
	AssessmentID uuid.UUID        `json:"assessment_id"`
	Skills       []SkillTallyItem `json:"skills"`
	Inserted     int              `json:"inserted"`
	Skipped      int              `json:"skipped"`
}

type SkillScoreItem struct {
	SkillID    uuid.UUID `json:"skill_id"`
	SkillName  string    `json:"skill_name"`
	ScorePct   float64   `json:"score_pct"`
	Required   float64   `json:"required"`
	Gap        float64   `json:"gap"`
	IsGap      bool      `json:"is_gap"`
	Band       string    `json:"band"`
	Weight     float64   `json:"weight"`
	Importance string    `json:"importance"`
}

type AnalysisResponse struct {
	AssessmentID        uuid.UUID        `json:"assessment_id"`
	JobID               uuid.UUID        `json:"job_id"`
	ReadinessPct        float64          `json:"readiness_pct"`
	StatusTag           string           `json:"status_tag"`
	RequiredProficiency float64          `json:"required_proficiency"`
	AlreadyAnalyzed     bool             `json:"already_analyzed"`
	Visible             bool             `json:"visible"`
	Skills              []SkillScoreItem `json:"skills"`
	Gaps                []SkillScoreItem `json:"gaps"`
	StrengthAreas       []string         `json:"strength_areas"`
	CriticalGaps        []string         `json:"critical_gaps"`
}

type CoveredGapItem struct {
	SkillID   uuid.UUID `json:"skill_id"`
	SkillName string    `json:"skill_name"`
	Gap       float64   `json:"gap"`
}

type ProgramRecommendationItem struct {
	ProgramID     uuid.UUID        `json:"program_id"`
	Name          string           `json:"name"`
	CIPCode       string           `json:"cip_code"`
	MatchScore    float64          `json:"match_score"`
	CoveragePct   float64          `json:"coverage_pct"`
	Similarity    float64          `json:"similarity"`
	SkillsCovered []CoveredGapItem `json:"skills_covered"`
	NotCovered    []uuid.UUID      `json:"not_covered"`
}

type ProgramRecommendationsResponse struct {
	AssessmentID uuid.UUID                   `json:"assessment_id"`
	Gaps         []SkillScoreItem            `json:"gaps"`
	Programs     []ProgramRecommendationItem `json:"programs"`
	Reason       string                      `json:"reason,omitempty"`
}
