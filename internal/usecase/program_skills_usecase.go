package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"skillsync/internal/domain/matching"
	"skillsync/internal/domain/skill"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultProgramTopSkills = 8
	rebuildLockTTL          = 2 * time.Minute
)

type RebuildResult struct {
	ProgramID   uuid.UUID              `json:"program_id"`
	CIPCode     string                 `json:"cip_code"`
	SkillsCount int                    `json:"skills_count"`
	Skills      []matching.RankedSkill `json:"skills"`
	Skipped     bool                   `json:"skipped"`
	Reason      string                 `json:"reason,omitempty"`
}

type ProgramSkillsUsecase interface {
	Rebuild(ctx context.Context, programID uuid.UUID, topN int) (RebuildResult, error)
}

type ProgramSkills struct {
	programs    repository.ProgramRepository
	aggregation SkillAggregationUsecase
	cache       Cache
	events      EventPublisher
	defaultTopN int
	logger      *zap.Logger
}

func NewProgramSkillsUsecase(
	programs repository.ProgramRepository,
	aggregation SkillAggregationUsecase,
	cache Cache,
	events EventPublisher,
	defaultTopN int,
	logger *zap.Logger,
) *ProgramSkills {
	if defaultTopN <= 0 {
		defaultTopN = defaultProgramTopSkills
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramSkills{
		programs:    programs,
		aggregation: aggregation,
		cache:       cacheOrNoop(cache),
		events:      publisherOrNoop(events),
		defaultTopN: defaultTopN,
		logger:      logger.Named("program_skills"),
	}
}

// Rebuild replaces the program's skill links with the top skills of the
// occupations its CIP code maps to. The aggregation is always recomputed so
// the replace never writes a cached skill set. Programs that cannot be mapped
// are reported as skipped rather than failed.
func (u *ProgramSkills) Rebuild(ctx context.Context, programID uuid.UUID, topN int) (RebuildResult, error) {
	if programID == uuid.Nil {
		return RebuildResult{}, ErrInvalidInput
	}
	if topN <= 0 {
		topN = u.defaultTopN
	}

	p, err := u.programs.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			return RebuildResult{}, ErrProgramNotFound
		}
		return RebuildResult{}, unavailable("load program", err)
	}

	res := RebuildResult{ProgramID: p.ID}
	if p.CIPCode == nil || strings.TrimSpace(*p.CIPCode) == "" {
		return u.skip(res, "program has no CIP code"), nil
	}
	res.CIPCode = strings.TrimSpace(*p.CIPCode)

	lockKey := rebuildLockKey(programID)
	acquired, err := u.cache.SetIfNotExists(ctx, lockKey, "1", rebuildLockTTL)
	if err != nil {
		u.logger.Warn("rebuild lock unavailable, continuing unlocked",
			zap.String("program_id", programID.String()),
			zap.Error(err),
		)
	} else if !acquired {
		return RebuildResult{}, ErrRebuildInProgress
	} else {
		defer func() { _ = u.cache.Delete(context.Background(), lockKey) }()
	}

	agg, err := u.aggregation.Refresh(ctx, res.CIPCode)
	if err != nil {
		switch {
		case isEmptyAggregation(err):
			return u.skip(res, err.Error()), nil
		case errors.Is(err, ErrInvalidInput):
			return u.skip(res, "invalid CIP code "+res.CIPCode), nil
		default:
			return RebuildResult{}, err
		}
	}

	top := matching.TopSkills(agg.Skills, topN)
	links := make([]skill.ProgramLink, 0, len(top))
	for _, s := range top {
		links = append(links, skill.ProgramLink{
			ProgramID: programID,
			SkillID:   s.SkillID,
			Weight:    math.Round(s.CompositeScore*10000) / 10000,
		})
	}

	n, err := u.programs.ReplaceSkills(ctx, programID, links)
	if err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			return RebuildResult{}, ErrProgramNotFound
		}
		return RebuildResult{}, unavailable("replace program skills", err)
	}

	res.SkillsCount = n
	res.Skills = top
	u.events.ProgramSkillsRebuilt(programID, n)
	u.logger.Info("program skills rebuilt",
		zap.String("program_id", programID.String()),
		zap.String("cip_code", res.CIPCode),
		zap.Int("skills_count", n),
		zap.Int("jobs", agg.TotalJobs),
	)
	return res, nil
}

func (u *ProgramSkills) skip(res RebuildResult, reason string) RebuildResult {
	res.Skipped = true
	res.Reason = reason
	u.logger.Warn("program skills rebuild skipped",
		zap.String("program_id", res.ProgramID.String()),
		zap.String("cip_code", res.CIPCode),
		zap.String("reason", reason),
	)
	return res
}

// String is used by the batch summary log.
func (r RebuildResult) String() string {
	if r.Skipped {
		return fmt.Sprintf("program=%s skipped (%s)", r.ProgramID, r.Reason)
	}
	return fmt.Sprintf("program=%s skills=%d", r.ProgramID, r.SkillsCount)
}
