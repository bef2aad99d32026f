package app

import (
	"context"
	"fmt"
	"time"

	"skillsync/internal/config"
	"skillsync/internal/database"
	"skillsync/internal/database/migration"
	dbpostgres "skillsync/internal/database/postgres"
	"skillsync/internal/database/seeder"
	"skillsync/internal/domain/matching"
	"skillsync/internal/infrastructure/cache"
	"skillsync/internal/pipeline"
	"skillsync/internal/repository"
	"skillsync/internal/usecase"
	"skillsync/internal/ws"

	"go.uber.org/zap"
)

// Container owns the long-lived dependencies shared by the server and the
// rebuild command.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	Programs repository.ProgramRepository

	Aggregation     usecase.SkillAggregationUsecase
	ProgramSkills   usecase.ProgramSkillsUsecase
	FuzzyMatching   usecase.FuzzyMatchingUsecase
	Scoring         usecase.AssessmentScoringUsecase
	Recommendations usecase.ProgramRecommendationUsecase
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connCtx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(connCtx, cfg.Redis, logger),
		Hub:    ws.NewHub(logger),
	}
	c.wire()
	return c, nil
}

func (c *Container) wire() {
	sc := c.Config.Scoring
	events := ws.NewNotifier(c.Hub)

	crosswalk := repository.NewPostgresCrosswalkRepository(c.DB)
	jobs := repository.NewPostgresJobRepository(c.DB)
	jobSkills := repository.NewPostgresJobSkillRepository(c.DB)
	programs := repository.NewPostgresProgramRepository(c.DB)
	programJobs := repository.NewPostgresProgramJobRepository(c.DB)
	assessments := repository.NewPostgresAssessmentRepository(c.DB)
	skills := repository.NewPostgresSkillRepository(c.DB)
	c.Programs = programs

	c.Aggregation = usecase.NewSkillAggregationUsecase(crosswalk, jobs, jobSkills, c.Cache, usecase.AggregationOptions{
		JobPageSize:          sc.JobPageSize,
		ExcludeGenericSkills: sc.ExcludeGenericSkills,
		CacheTTL:             c.Config.Redis.TTL,
	}, c.Logger)

	c.ProgramSkills = usecase.NewProgramSkillsUsecase(programs, c.Aggregation, c.Cache, events, sc.ProgramTopSkills, c.Logger)

	c.FuzzyMatching = usecase.NewFuzzyMatchingUsecase(programs, jobs, jobSkills, programJobs, matching.SimilarityOptions{
		MinSimilarity: sc.FuzzyMinSimilarity,
		MaxResults:    sc.FuzzyMaxMatches,
	}, sc.JobPageSize, c.Logger)

	c.Scoring = usecase.NewAssessmentScoringUsecase(assessments, jobs, skills, events, usecase.ScoringDefaults{
		RequiredProficiency:    sc.DefaultRequiredProficiency,
		RoleReadyPct:           sc.RoleReadyPct,
		CloseGapsPct:           sc.CloseGapsPct,
		VisibilityThresholdPct: sc.VisibilityThresholdPct,
	}, c.Logger)

	c.Recommendations = usecase.NewProgramRecommendationUsecase(c.Scoring, programs, matching.GapProgramOptions{
		MinMatch:   sc.GapMinMatch,
		MaxResults: sc.GapMaxResults,
	}, c.Logger)
}

// Migrate applies pending schema migrations from dir.
func (c *Container) Migrate(ctx context.Context, dir string) error {
	r := migration.Runner{Dir: dir, Logger: c.Logger}
	if _, err := r.Run(ctx, c.DB.SQLDB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Seed writes the demo catalog and drops aggregations cached before it.
// Safe to repeat.
func (c *Container) Seed(ctx context.Context) error {
	r := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger.Named("seeder")}
	if err := r.Run(ctx, c.DB); err != nil {
		return err
	}
	if err := c.Cache.DeleteByPattern(ctx, usecase.AggregationCachePattern); err != nil {
		c.Logger.Warn("purge cached aggregations failed", zap.Error(err))
	}
	return nil
}

func (c *Container) BatchRunner() *pipeline.BatchRunner {
	return pipeline.NewBatchRunner(c.Programs, c.ProgramSkills, c.FuzzyMatching, c.Cache, c.Logger)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn("close cache", zap.Error(err))
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
