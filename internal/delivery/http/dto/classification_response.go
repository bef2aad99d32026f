package dto

import "github.com/google/uuid"

type CrosswalkItem struct {
	CIPCode       string `json:"cip_code"`
	SOCCode       string `json:"soc_code"`
	MatchStrength string `json:"match_strength"`
}

type RankedSkillItem struct {
	SkillID        uuid.UUID `json:"skill_id"`
	SkillName      string    `json:"skill_name"`
	Category       string    `json:"category,omitempty"`
	Frequency      int       `json:"frequency"`
	Weight         float64   `json:"weight"`
	Importance     float64   `json:"importance"`
	CompositeScore float64   `json:"composite_score"`
}

type ClassificationSkillsResponse struct {
	Code        string            `json:"code"`
	Kind        string            `json:"kind"`
	SOCCodes    []string          `json:"soc_codes"`
	Crosswalk   []CrosswalkItem   `json:"crosswalk"`
	TotalJobs   int               `json:"total_jobs"`
	InvalidRows int               `json:"invalid_rows"`
	Skills      []RankedSkillItem `json:"skills"`
}
