package usecase

import (
	"context"
	"errors"
	"fmt"

	"skillsync/internal/domain/match"
	"skillsync/internal/domain/matching"
	"skillsync/internal/domain/program"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SaveResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

type FuzzyMatchingUsecase interface {
	FindMatches(ctx context.Context, programID uuid.UUID, opts matching.SimilarityOptions) ([]matching.SimilarityMatch, error)
	SaveMatches(ctx context.Context, programID uuid.UUID, matches []matching.SimilarityMatch) (SaveResult, error)
	FindAndSave(ctx context.Context, programID uuid.UUID, opts matching.SimilarityOptions) ([]matching.SimilarityMatch, SaveResult, error)
}

type FuzzyMatching struct {
	programs    repository.ProgramRepository
	jobs        repository.JobRepository
	jobSkills   repository.JobSkillRepository
	programJobs repository.ProgramJobRepository
	defaults    matching.SimilarityOptions
	pageSize    int
	logger      *zap.Logger
}

func NewFuzzyMatchingUsecase(
	programs repository.ProgramRepository,
	jobs repository.JobRepository,
	jobSkills repository.JobSkillRepository,
	programJobs repository.ProgramJobRepository,
	defaults matching.SimilarityOptions,
	pageSize int,
	logger *zap.Logger,
) *FuzzyMatching {
	if pageSize <= 0 {
		pageSize = defaultJobPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FuzzyMatching{
		programs:    programs,
		jobs:        jobs,
		jobSkills:   jobSkills,
		programJobs: programJobs,
		defaults:    defaults,
		pageSize:    pageSize,
		logger:      logger.Named("fuzzy_matching"),
	}
}

func (u *FuzzyMatching) FindMatches(ctx context.Context, programID uuid.UUID, opts matching.SimilarityOptions) ([]matching.SimilarityMatch, error) {
	if programID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if opts.MinSimilarity == 0 {
		opts.MinSimilarity = u.defaults.MinSimilarity
	}
	if opts.MaxResults == 0 {
		opts.MaxResults = u.defaults.MaxResults
	}

	if _, err := u.programs.GetByID(ctx, programID); err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, unavailable("load program", err)
	}

	rows, err := u.programs.FindSkills(ctx, programID)
	if err != nil {
		return nil, unavailable("load program skills", err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.SkillID)
	}
	source := matching.NewSkillSet(ids...)
	if len(source) == 0 {
		u.logger.Warn("program has no skills, nothing to match", zap.String("program_id", programID.String()))
		return []matching.SimilarityMatch{}, nil
	}

	candidates, err := u.loadCandidates(ctx, source)
	if err != nil {
		return nil, err
	}
	return matching.RankBySimilarity(source, candidates, opts), nil
}

// loadCandidates pages through every job with skills and keeps those that
// share at least one skill with source; the rest score 0.
func (u *FuzzyMatching) loadCandidates(ctx context.Context, source matching.SkillSet) ([]matching.Candidate, error) {
	out := make([]matching.Candidate, 0)

	after := uuid.Nil
	for {
		page, err := u.jobs.ListWithSkills(ctx, after, u.pageSize)
		if err != nil {
			return nil, unavailable("list jobs", err)
		}
		if len(page) == 0 {
			break
		}

		ids := make([]uuid.UUID, 0, len(page))
		for _, j := range page {
			ids = append(ids, j.ID)
		}
		rows, err := u.jobSkills.FindByJobIDs(ctx, ids)
		if err != nil {
			return nil, unavailable("load job skills", err)
		}

		byJob := make(map[uuid.UUID]*matching.Candidate, len(page))
		for _, j := range page {
			byJob[j.ID] = &matching.Candidate{
				ID:         j.ID,
				Label:      j.Title,
				Code:       j.SOCCode,
				Skills:     matching.SkillSet{},
				SkillNames: map[uuid.UUID]string{},
			}
		}
		for _, r := range rows {
			c, ok := byJob[r.JobID]
			if !ok {
				continue
			}
			c.Skills[r.SkillID] = struct{}{}
			c.SkillNames[r.SkillID] = r.SkillName
		}
		for _, j := range page {
			c := byJob[j.ID]
			if overlaps(source, c.Skills) {
				out = append(out, *c)
			}
		}

		after = page[len(page)-1].ID
		if len(page) < u.pageSize {
			break
		}
	}
	return out, nil
}

// SaveMatches records new program/job pairs as fuzzy matches. Pairs that
// already exist, from a crosswalk or an earlier run, are left as they are.
func (u *FuzzyMatching) SaveMatches(ctx context.Context, programID uuid.UUID, matches []matching.SimilarityMatch) (SaveResult, error) {
	if programID == uuid.Nil {
		return SaveResult{}, ErrInvalidInput
	}
	if len(matches) == 0 {
		return SaveResult{}, nil
	}

	existingIDs, err := u.programJobs.ExistingJobIDs(ctx, programID)
	if err != nil {
		return SaveResult{}, unavailable("load existing matches", err)
	}
	existing := make(map[uuid.UUID]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	var res SaveResult
	rows := make([]match.ProgramJob, 0, len(matches))
	for _, m := range matches {
		if _, ok := existing[m.CandidateID]; ok {
			res.Skipped++
			continue
		}
		rows = append(rows, match.ProgramJob{
			ProgramID:       programID,
			JobID:           m.CandidateID,
			MatchType:       string(program.MatchTypeFuzzy),
			MatchConfidence: m.Similarity,
			Notes:           FuzzyMatchNote(m),
		})
	}

	inserted, err := u.programJobs.InsertIfAbsent(ctx, rows)
	if err != nil {
		return SaveResult{}, unavailable("insert matches", err)
	}
	res.Inserted = inserted
	// rows lost to a concurrent writer
	res.Skipped += len(rows) - inserted
	return res, nil
}

func (u *FuzzyMatching) FindAndSave(ctx context.Context, programID uuid.UUID, opts matching.SimilarityOptions) ([]matching.SimilarityMatch, SaveResult, error) {
	matches, err := u.FindMatches(ctx, programID, opts)
	if err != nil {
		return nil, SaveResult{}, err
	}
	res, err := u.SaveMatches(ctx, programID, matches)
	if err != nil {
		return matches, SaveResult{}, err
	}
	u.logger.Info("fuzzy matches saved",
		zap.String("program_id", programID.String()),
		zap.Int("found", len(matches)),
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped),
	)
	return matches, res, nil
}

func FuzzyMatchNote(m matching.SimilarityMatch) string {
	return fmt.Sprintf("Fuzzy match: %d shared skills (%.0f%% similarity)", m.SharedCount, m.Similarity*100)
}

func overlaps(a, b matching.SkillSet) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for id := range a {
		if b.Has(id) {
			return true
		}
	}
	return false
}
