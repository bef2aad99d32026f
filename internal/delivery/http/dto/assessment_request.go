package dto

import "github.com/google/uuid"

type QuestionResponseItem struct {
	QuestionID uuid.UUID `json:"question_id"`
	SkillID    uuid.UUID `json:"skill_id"`
	IsCorrect  bool      `json:"is_correct"`
	Difficulty string    `json:"difficulty"`
	Importance *float64  `json:"importance,omitempty"`
}

type RecordResponsesRequest struct {
	Responses []QuestionResponseItem `json:"responses"`
}
