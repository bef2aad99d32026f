package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"skillsync/internal/domain/matching"
	"skillsync/internal/domain/program"
	"skillsync/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

type programLister interface {
	ListWithCIP(ctx context.Context) ([]program.Program, error)
}

type cachePurger interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type RunParams struct {
	// ProgramIDs limits the run; empty means every program with a CIP code.
	ProgramIDs []uuid.UUID
	TopN       int
	Workers    int

	Fuzzy        bool
	FuzzyOptions matching.SimilarityOptions
}

type Summary struct {
	Processed       int
	Rebuilt         int
	Skipped         int
	Failed          int
	MatchesInserted int
	Duration        time.Duration
}

// ProgramOutcome is the per-program record a run reports.
type ProgramOutcome struct {
	ProgramID       uuid.UUID
	Rebuild         usecase.RebuildResult
	MatchesInserted int
	Err             error
}

// BatchRunner rebuilds program skills, and optionally fuzzy job matches,
// for many programs with bounded concurrency. A failing program is logged
// and counted; it never cancels the others. Cached aggregations are purged
// once the run ends.
type BatchRunner struct {
	programs programLister
	skills   usecase.ProgramSkillsUsecase
	fuzzy    usecase.FuzzyMatchingUsecase
	cache    cachePurger
	log      *zap.Logger
}

func NewBatchRunner(programs programLister, skills usecase.ProgramSkillsUsecase, fuzzy usecase.FuzzyMatchingUsecase, cache cachePurger, logger *zap.Logger) *BatchRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchRunner{programs: programs, skills: skills, fuzzy: fuzzy, cache: cache, log: logger.Named("batch")}
}

func (r *BatchRunner) Run(ctx context.Context, params RunParams) (Summary, []ProgramOutcome, error) {
	start := time.Now()

	ids := params.ProgramIDs
	if len(ids) == 0 {
		all, err := r.programs.ListWithCIP(ctx)
		if err != nil {
			return Summary{}, nil, err
		}
		ids = make([]uuid.UUID, 0, len(all))
		for _, p := range all {
			ids = append(ids, p.ID)
		}
	}

	workers := params.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	r.log.Info("batch started", zap.Int("programs", len(ids)), zap.Int("workers", workers), zap.Bool("fuzzy", params.Fuzzy))

	var (
		rebuilt, skipped, failed, inserted atomic.Int64
		mu                                 sync.Mutex
		outcomes                           = make([]ProgramOutcome, 0, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			out := r.runOne(gctx, id, params)

			switch {
			case out.Err != nil:
				failed.Add(1)
			case out.Rebuild.Skipped:
				skipped.Add(1)
			default:
				rebuilt.Add(1)
			}
			inserted.Add(int64(out.MatchesInserted))

			mu.Lock()
			outcomes = append(outcomes, out)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	r.purgeAggregations()

	s := Summary{
		Processed:       len(outcomes),
		Rebuilt:         int(rebuilt.Load()),
		Skipped:         int(skipped.Load()),
		Failed:          int(failed.Load()),
		MatchesInserted: int(inserted.Load()),
		Duration:        time.Since(start),
	}
	r.log.Info("batch finished",
		zap.Int("processed", s.Processed),
		zap.Int("rebuilt", s.Rebuilt),
		zap.Int("skipped", s.Skipped),
		zap.Int("failed", s.Failed),
		zap.Int("matches_inserted", s.MatchesInserted),
		zap.Duration("duration", s.Duration),
	)
	return s, outcomes, err
}

func (r *BatchRunner) purgeAggregations() {
	if r.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.cache.DeleteByPattern(ctx, usecase.AggregationCachePattern); err != nil {
		r.log.Warn("purge cached aggregations failed", zap.Error(err))
	}
}

func (r *BatchRunner) runOne(ctx context.Context, id uuid.UUID, params RunParams) ProgramOutcome {
	out := ProgramOutcome{ProgramID: id}
	log := r.log.With(zap.String("program_id", id.String()))

	res, err := r.skills.Rebuild(ctx, id, params.TopN)
	if err != nil {
		out.Err = err
		log.Error("rebuild failed", zap.Error(err))
		return out
	}
	out.Rebuild = res
	log.Info("rebuild done", zap.Stringer("result", res))

	if !params.Fuzzy || res.Skipped || r.fuzzy == nil {
		return out
	}

	_, saved, err := r.fuzzy.FindAndSave(ctx, id, params.FuzzyOptions)
	if err != nil {
		// rebuild already committed; report the program as failed anyway
		if !errors.Is(err, context.Canceled) {
			log.Error("fuzzy matching failed", zap.Error(err))
		}
		out.Err = err
		return out
	}
	out.MatchesInserted = saved.Inserted
	return out
}
