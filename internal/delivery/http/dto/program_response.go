package dto

import "github.com/google/uuid"

type FuzzyMatchItem struct {
	JobID         uuid.UUID `json:"job_id"`
	Title         string    `json:"title"`
	SOCCode       string    `json:"soc_code"`
	Similarity    float64   `json:"similarity"`
	SharedCount   int       `json:"shared_count"`
	SharedSkills  []string  `json:"shared_skills"`
	ProgramSkills int       `json:"program_skills"`
	JobSkills     int       `json:"job_skills"`
	Note          string    `json:"note"`
}

type FuzzyMatchesResponse struct {
	ProgramID uuid.UUID        `json:"program_id"`
	Matches   []FuzzyMatchItem `json:"matches"`
}

type SaveFuzzyMatchesResponse struct {
	ProgramID uuid.UUID        `json:"program_id"`
	Matches   []FuzzyMatchItem `json:"matches"`
	Inserted  int              `json:"inserted"`
	Skipped   int              `json:"skipped"`
}

type ProgramSkillsRebuildResponse struct {
	ProgramID   uuid.UUID         `json:"program_id"`
	CIPCode     string            `json:"cip_code"`
	SkillsCount int               `json:"skills_count"`
	Skills      []RankedSkillItem `json:"skills"`
	Skipped     bool              `json:"skipped"`
	Reason      string            `json:"reason,omitempty"`
}
