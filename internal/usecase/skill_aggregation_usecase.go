package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillsync/internal/domain/job"
	"skillsync/internal/domain/matching"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultJobPageSize = 500

type AggregationOptions struct {
	JobPageSize          int
	ExcludeGenericSkills bool
	CacheTTL             time.Duration
}

type AggregationResult struct {
	Code        string                 `json:"code"`
	Kind        matching.CodeKind      `json:"kind"`
	SOCCodes    []string               `json:"soc_codes"`
	Crosswalk   []job.CrosswalkEntry   `json:"crosswalk"`
	TotalJobs   int                    `json:"total_jobs"`
	Skills      []matching.RankedSkill `json:"skills"`
	InvalidRows int                    `json:"invalid_rows"`
}

type SkillAggregationUsecase interface {
	AggregateForClassification(ctx context.Context, code string) (AggregationResult, error)
	Refresh(ctx context.Context, code string) (AggregationResult, error)
}

type SkillAggregation struct {
	crosswalk repository.CrosswalkRepository
	jobs      repository.JobRepository
	jobSkills repository.JobSkillRepository
	cache     Cache
	opts      AggregationOptions
	logger    *zap.Logger
}

func NewSkillAggregationUsecase(
	crosswalk repository.CrosswalkRepository,
	jobs repository.JobRepository,
	jobSkills repository.JobSkillRepository,
	cache Cache,
	opts AggregationOptions,
	logger *zap.Logger,
) *SkillAggregation {
	if opts.JobPageSize <= 0 {
		opts.JobPageSize = defaultJobPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillAggregation{
		crosswalk: crosswalk,
		jobs:      jobs,
		jobSkills: jobSkills,
		cache:     cacheOrNoop(cache),
		opts:      opts,
		logger:    logger.Named("aggregation"),
	}
}

// AggregateForClassification resolves an education or occupation code to
// its jobs and returns their skills ranked by composite score.
func (u *SkillAggregation) AggregateForClassification(ctx context.Context, raw string) (AggregationResult, error) {
	return u.aggregate(ctx, raw, true)
}

// Refresh skips the cached entry, recomputes from storage and overwrites it.
func (u *SkillAggregation) Refresh(ctx context.Context, raw string) (AggregationResult, error) {
	return u.aggregate(ctx, raw, false)
}

func (u *SkillAggregation) aggregate(ctx context.Context, raw string, readCache bool) (AggregationResult, error) {
	code, err := matching.ParseClassificationCode(raw)
	if err != nil {
		return AggregationResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key := aggregationCacheKey(code.Value)
	if readCache {
		var cached AggregationResult
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	res := AggregationResult{Code: code.Value, Kind: code.Kind}

	switch code.Kind {
	case matching.CodeKindEducation:
		entries, err := u.crosswalk.FindByCIP(ctx, code.Value)
		if err != nil {
			return AggregationResult{}, unavailable("load crosswalk", err)
		}
		if len(entries) == 0 {
			return AggregationResult{}, fmt.Errorf("%w: %s", ErrNoMapping, code.Value)
		}
		res.Crosswalk = entries
		res.SOCCodes = socCodesOf(entries)
	default:
		res.SOCCodes = []string{code.Value}
	}

	links, totalJobs, invalid, err := u.collectLinks(ctx, res.SOCCodes)
	if err != nil {
		return AggregationResult{}, err
	}
	if totalJobs == 0 {
		return AggregationResult{}, fmt.Errorf("%w: %s", ErrNoJobs, code.Value)
	}
	if invalid > 0 {
		u.logger.Warn("skipped malformed origin payloads",
			zap.String("code", code.Value),
			zap.Int("invalid_rows", invalid),
		)
	}
	if u.opts.ExcludeGenericSkills {
		links = matching.FilterGenericSkills(links)
	}

	res.TotalJobs = totalJobs
	res.InvalidRows = invalid
	res.Skills = matching.AggregateSkills(links, totalJobs)

	if err := u.cache.SetJSON(ctx, key, res, u.opts.CacheTTL); err != nil {
		u.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

// collectLinks walks the matching jobs page by page and converts their skill
// rows into engine links. Rows with a malformed origin payload keep their
// weight but lose their importance.
func (u *SkillAggregation) collectLinks(ctx context.Context, socCodes []string) ([]matching.SkillLink, int, int, error) {
	links := make([]matching.SkillLink, 0)
	totalJobs := 0
	invalid := 0

	after := uuid.Nil
	for {
		page, err := u.jobs.ListBySOCCodes(ctx, socCodes, after, u.opts.JobPageSize)
		if err != nil {
			return nil, 0, 0, unavailable("list jobs", err)
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
			return nil, 0, 0, unavailable("load job skills", err)
		}

		for _, row := range rows {
			link, err := toSkillLink(row)
			if err != nil {
				invalid++
				u.logger.Debug("invalid origin payload",
					zap.String("job_id", row.JobID.String()),
					zap.String("skill_id", row.SkillID.String()),
					zap.Error(err),
				)
			}
			links = append(links, link)
		}

		totalJobs += len(page)
		after = page[len(page)-1].ID
		if len(page) < u.opts.JobPageSize {
			break
		}
	}
	return links, totalJobs, invalid, nil
}

func toSkillLink(row repository.JobSkillRow) (matching.SkillLink, error) {
	link := matching.SkillLink{
		JobID:     row.JobID,
		SkillID:   row.SkillID,
		SkillName: row.SkillName,
		Category:  row.Category,
	}
	if row.Weight != nil {
		w := matching.NormalizeWeight(row.Weight, matching.ScaleUnit)
		link.Weight = &w
	}

	payload, err := matching.ParseOriginPayload(row.OriginData)
	if err != nil {
		return link, err
	}
	link.Importance = payload.Importance
	return link, nil
}

func socCodesOf(entries []job.CrosswalkEntry) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		c := matching.BaseSOC(e.SOCCode)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func isEmptyAggregation(err error) bool {
	return errors.Is(err, ErrNoMapping) || errors.Is(err, ErrNoJobs)
}
