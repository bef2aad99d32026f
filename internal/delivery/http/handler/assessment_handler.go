package handler

import (
	"errors"

	"skillsync/internal/delivery/http/dto"
	"skillsync/internal/delivery/http/middleware"
	"skillsync/internal/domain/matching"
	"skillsync/internal/pkg/jwt"
	"skillsync/internal/pkg/response"
	"skillsync/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const maxResponsesPerRequest = 500

type AssessmentHandler struct {
	scoring         usecase.AssessmentScoringUsecase
	recommendations usecase.ProgramRecommendationUsecase
}

func NewAssessmentHandler(scoring usecase.AssessmentScoringUsecase, recommendations usecase.ProgramRecommendationUsecase) *AssessmentHandler {
	return &AssessmentHandler{scoring: scoring, recommendations: recommendations}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/assessments")
	grp.Post("/:assessment_id/responses", h.RecordResponses)
	grp.Post("/:assessment_id/analyze", h.Analyze)
	grp.Get("/:assessment_id/programs", h.RecommendPrograms)
}

func (h *AssessmentHandler) RecordResponses(c fiber.Ctx) error {
	assessmentID, err := h.authorize(c)
	if err != nil {
		return err
	}

	var req dto.RecordResponsesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if len(req.Responses) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "No responses", nil, nil)
	}
	if len(req.Responses) > maxResponsesPerRequest {
		return middleware.NewAppError(fiber.StatusBadRequest, "Too many responses", nil, nil)
	}

	responses := make([]matching.QuestionResponse, 0, len(req.Responses))
	for _, r := range req.Responses {
		responses = append(responses, matching.QuestionResponse{
			QuestionID: r.QuestionID,
			SkillID:    r.SkillID,
			IsCorrect:  r.IsCorrect,
			Difficulty: r.Difficulty,
			Importance: r.Importance,
		})
	}

	res, err := h.scoring.RecordResponses(c.Context(), assessmentID, responses)
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}

	skills := make([]dto.SkillTallyItem, 0, len(res.Tallies))
	for _, t := range res.Tallies {
		skills = append(skills, dto.SkillTallyItem{
			SkillID:           t.SkillID,
			QuestionsAnswered: t.QuestionsAnswered,
			QuestionsCorrect:  t.QuestionsCorrect,
			ScorePct:          t.ScorePct,
		})
	}

	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.RecordResponsesResponse{
		AssessmentID: assessmentID,
		Skills:       skills,
		Inserted:     res.Inserted,
		Skipped:      res.Skipped,
	})
}

func (h *AssessmentHandler) Analyze(c fiber.Ctx) error {
	assessmentID, err := h.authorize(c)
	if err != nil {
		return err
	}

	res, err := h.scoring.Analyze(c.Context(), assessmentID)
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}

	r := res.Readiness
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.AnalysisResponse{
		AssessmentID:        res.AssessmentID,
		JobID:               res.JobID,
		ReadinessPct:        r.OverallPct,
		StatusTag:           string(r.StatusTag),
		RequiredProficiency: r.RequiredProficiency,
		AlreadyAnalyzed:     res.AlreadyAnalyzed,
		Visible:             res.Visible,
		Skills:              toSkillScoreItems(r.Skills),
		Gaps:                toSkillScoreItems(r.Gaps),
		StrengthAreas:       nonNilStrings(r.StrengthAreas),
		CriticalGaps:        nonNilStrings(r.CriticalGaps),
	})
}

func (h *AssessmentHandler) RecommendPrograms(c fiber.Ctx) error {
	assessmentID, err := h.authorize(c)
	if err != nil {
		return err
	}

	opts := matching.GapProgramOptions{
		MinMatch:   parseQueryFloat(c, "min_match", 0),
		MaxResults: parseQueryInt(c, "limit", 0),
	}

	rec, err := h.recommendations.ForAssessment(c.Context(), assessmentID, opts)
	if err != nil {
		return mapAssessmentUsecaseError(err)
	}

	programs := make([]dto.ProgramRecommendationItem, 0, len(rec.Programs))
	for _, p := range rec.Programs {
		covered := make([]dto.CoveredGapItem, 0, len(p.SkillsCovered))
		for _, g := range p.SkillsCovered {
			covered = append(covered, dto.CoveredGapItem{SkillID: g.SkillID, SkillName: g.SkillName, Gap: g.Gap})
		}
		notCovered := p.NotCovered
		if notCovered == nil {
			notCovered = []uuid.UUID{}
		}
		programs = append(programs, dto.ProgramRecommendationItem{
			ProgramID:     p.ProgramID,
			Name:          p.Name,
			CIPCode:       p.CIPCode,
			MatchScore:    p.MatchScore,
			CoveragePct:   p.CoveragePct,
			Similarity:    p.Similarity,
			SkillsCovered: covered,
			NotCovered:    notCovered,
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ProgramRecommendationsResponse{
		AssessmentID: assessmentID,
		Gaps:         toSkillScoreItems(rec.Gaps),
		Programs:     programs,
		Reason:       rec.Reason,
	})
}

// authorize resolves the path assessment and checks the caller may use it.
func (h *AssessmentHandler) authorize(c fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	role, _ := c.Locals(middleware.CtxRoleKey).(string)

	assessmentID, err := parseUUIDParam(c, "assessment_id")
	if err != nil {
		return uuid.Nil, err
	}

	if err := h.scoring.Authorize(c.Context(), assessmentID, userID, role == jwt.RoleAdmin); err != nil {
		return uuid.Nil, mapAssessmentUsecaseError(err)
	}
	return assessmentID, nil
}

func toSkillScoreItems(scores []matching.SkillScore) []dto.SkillScoreItem {
	out := make([]dto.SkillScoreItem, 0, len(scores))
	for _, s := range scores {
		out = append(out, dto.SkillScoreItem{
			SkillID:    s.SkillID,
			SkillName:  s.SkillName,
			ScorePct:   s.ScorePct,
			Required:   s.Required,
			Gap:        s.Gap,
			IsGap:      s.IsGap,
			Band:       string(s.Band),
			Weight:     s.Weight,
			Importance: string(s.Importance),
		})
	}
	return out
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mapAssessmentUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Assessment not found", nil, err)
	case errors.Is(err, usecase.ErrNoSkillResults):
		return middleware.NewAppError(fiber.StatusNotFound, "Assessment has no skill results", nil, err)
	case errors.Is(err, usecase.ErrAlreadyAnalyzed):
		return middleware.NewAppError(fiber.StatusConflict, "Assessment already analyzed", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid assessment responses", nil, err)
	default:
		return mapCommonUsecaseError(err)
	}
}
