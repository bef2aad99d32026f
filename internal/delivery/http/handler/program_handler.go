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

type ProgramHandler struct {
	fuzzy  usecase.FuzzyMatchingUsecase
	skills usecase.ProgramSkillsUsecase
}

func NewProgramHandler(fuzzy usecase.FuzzyMatchingUsecase, skills usecase.ProgramSkillsUsecase) *ProgramHandler {
	return &ProgramHandler{fuzzy: fuzzy, skills: skills}
}

func (h *ProgramHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/programs")
	grp.Get("/:program_id/fuzzy-matches", h.GetFuzzyMatches)
}

// RegisterAdminRoutes expects r to be guarded by the admin middleware.
func (h *ProgramHandler) RegisterAdminRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/programs")
	grp.Post("/:program_id/fuzzy-matches", h.SaveFuzzyMatches)
	grp.Post("/:program_id/skills/rebuild", h.RebuildSkills)
}

func (h *ProgramHandler) GetFuzzyMatches(c fiber.Ctx) error {
	programID, err := parseUUIDParam(c, "program_id")
	if err != nil {
		return err
	}

	matches, err := h.fuzzy.FindMatches(c.Context(), programID, similarityOptions(c))
	if err != nil {
		return mapProgramUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FuzzyMatchesResponse{
		ProgramID: programID,
		Matches:   toFuzzyMatchItems(matches),
	})
}

func (h *ProgramHandler) SaveFuzzyMatches(c fiber.Ctx) error {
	programID, err := parseUUIDParam(c, "program_id")
	if err != nil {
		return err
	}

	matches, saved, err := h.fuzzy.FindAndSave(c.Context(), programID, similarityOptions(c))
	if err != nil {
		return mapProgramUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SaveFuzzyMatchesResponse{
		ProgramID: programID,
		Matches:   toFuzzyMatchItems(matches),
		Inserted:  saved.Inserted,
		Skipped:   saved.Skipped,
	})
}

func (h *ProgramHandler) RebuildSkills(c fiber.Ctx) error {
	programID, err := parseUUIDParam(c, "program_id")
	if err != nil {
		return err
	}

	top := parseQueryInt(c, "top", 0)
	if top < 0 {
		top = 0
	}

	res, err := h.skills.Rebuild(c.Context(), programID, top)
	if err != nil {
		return mapProgramUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ProgramSkillsRebuildResponse{
		ProgramID:   res.ProgramID,
		CIPCode:     res.CIPCode,
		SkillsCount: res.SkillsCount,
		Skills:      toRankedSkillItems(res.Skills),
		Skipped:     res.Skipped,
		Reason:      res.Reason,
	})
}

// similarityOptions leaves zero values for the use case defaults.
func similarityOptions(c fiber.Ctx) matching.SimilarityOptions {
	return matching.SimilarityOptions{
		MinSimilarity: parseQueryFloat(c, "min_similarity", 0),
		MaxResults:    parseQueryInt(c, "limit", 0),
	}
}

func toFuzzyMatchItems(matches []matching.SimilarityMatch) []dto.FuzzyMatchItem {
	out := make([]dto.FuzzyMatchItem, 0, len(matches))
	for _, m := range matches {
		shared := m.SharedSkills
		if shared == nil {
			shared = []string{}
		}
		out = append(out, dto.FuzzyMatchItem{
			JobID:         m.CandidateID,
			Title:         m.Label,
			SOCCode:       m.Code,
			Similarity:    m.Similarity,
			SharedCount:   m.SharedCount,
			SharedSkills:  shared,
			ProgramSkills: m.SourceCount,
			JobSkills:     m.CandidateCount,
			Note:          usecase.FuzzyMatchNote(m),
		})
	}
	return out
}

func mapProgramUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrProgramNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Program not found", nil, err)
	case errors.Is(err, usecase.ErrRebuildInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Program skills rebuild already in progress", nil, err)
	case errors.Is(err, usecase.ErrNoMapping):
		return middleware.NewAppError(fiber.StatusNotFound, "No occupations mapped to program", nil, err)
	case errors.Is(err, usecase.ErrNoJobs):
		return middleware.NewAppError(fiber.StatusNotFound, "No jobs found for program", nil, err)
	default:
		return mapCommonUsecaseError(err)
	}
}
