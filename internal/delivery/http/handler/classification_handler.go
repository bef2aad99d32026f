package handler

import (
	"errors"

	"skillsync/internal/delivery/http/dto"
	"skillsync/internal/delivery/http/middleware"
	"skillsync/internal/domain/matching"
	"skillsync/internal/pkg/response"
	"skillsync/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const maxClassificationSkills = 200

type ClassificationHandler struct {
	uc usecase.SkillAggregationUsecase
}

func NewClassificationHandler(uc usecase.SkillAggregationUsecase) *ClassificationHandler {
	return &ClassificationHandler{uc: uc}
}

func (h *ClassificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/classifications")
	grp.Get("/:code/skills", h.GetSkills)
}

func (h *ClassificationHandler) GetSkills(c fiber.Ctx) error {
	limit := parseQueryInt(c, "limit", 50)
	if limit < 1 {
		limit = 50
	}
	if limit > maxClassificationSkills {
		limit = maxClassificationSkills
	}

	res, err := h.uc.AggregateForClassification(c.Context(), c.Params("code"))
	if err != nil {
		return mapAggregationUsecaseError(err)
	}

	skills := res.Skills
	if len(skills) > limit {
		skills = skills[:limit]
	}

	crosswalk := make([]dto.CrosswalkItem, 0, len(res.Crosswalk))
	for _, e := range res.Crosswalk {
		crosswalk = append(crosswalk, dto.CrosswalkItem{
			CIPCode:       e.CIPCode,
			SOCCode:       e.SOCCode,
			MatchStrength: e.MatchStrength,
		})
	}

	out := dto.ClassificationSkillsResponse{
		Code:        res.Code,
		Kind:        string(res.Kind),
		SOCCodes:    res.SOCCodes,
		Crosswalk:   crosswalk,
		TotalJobs:   res.TotalJobs,
		InvalidRows: res.InvalidRows,
		Skills:      toRankedSkillItems(skills),
	}
	if out.SOCCodes == nil {
		out.SOCCodes = []string{}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func toRankedSkillItems(skills []matching.RankedSkill) []dto.RankedSkillItem {
	out := make([]dto.RankedSkillItem, 0, len(skills))
	for _, s := range skills {
		out = append(out, dto.RankedSkillItem{
			SkillID:        s.SkillID,
			SkillName:      s.SkillName,
			Category:       s.Category,
			Frequency:      s.Frequency,
			Weight:         s.Weight,
			Importance:     s.Importance,
			CompositeScore: s.CompositeScore,
		})
	}
	return out
}

func mapAggregationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid classification code", nil, err)
	case errors.Is(err, usecase.ErrNoMapping):
		return middleware.NewAppError(fiber.StatusNotFound, "No occupations mapped to classification code", nil, err)
	case errors.Is(err, usecase.ErrNoJobs):
		return middleware.NewAppError(fiber.StatusNotFound, "No jobs found for classification code", nil, err)
	default:
		return mapCommonUsecaseError(err)
	}
}

// mapCommonUsecaseError covers the errors every engine use case can return.
func mapCommonUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrDataUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
