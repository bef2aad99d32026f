package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"skillsync/internal/app"
	"skillsync/internal/config"
	"skillsync/internal/domain/matching"
	"skillsync/internal/pipeline"
	"skillsync/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	programs := flag.String("programs", "", "comma-separated program UUIDs (empty = every program with a CIP code)")
	top := flag.Int("top", 0, "skills kept per program (0 = PROGRAM_TOP_SKILLS)")
	workers := flag.Int("workers", 4, "programs processed concurrently")
	fuzzy := flag.Bool("fuzzy", false, "also compute and save fuzzy job matches")
	minSimilarity := flag.Float64("min-similarity", 0, "minimum Jaccard similarity for fuzzy matches (0 = FUZZY_MIN_SIMILARITY)")
	maxMatches := flag.Int("max-matches", 0, "fuzzy matches kept per program (0 = FUZZY_MAX_MATCHES)")
	seed := flag.Bool("seed", false, "write the demo catalog before rebuilding")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ids, err := parseProgramIDs(*programs)
	if err != nil {
		lg.Fatal("invalid -programs", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, cfg, lg, *seed, pipeline.RunParams{
		ProgramIDs: ids,
		TopN:       *top,
		Workers:    *workers,
		Fuzzy:      *fuzzy,
		FuzzyOptions: matching.SimilarityOptions{
			MinSimilarity: *minSimilarity,
			MaxResults:    *maxMatches,
		},
	}); err != nil {
		lg.Error("rebuild failed", zap.Error(err))
		_ = lg.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, lg *zap.Logger, seed bool, params pipeline.RunParams) error {
	c, err := app.NewContainer(ctx, cfg, lg)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(ctx, 2*time.Minute)
	defer migCancel()
	if err := c.Migrate(migCtx, "migrations"); err != nil {
		return err
	}
	if seed {
		if err := c.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	summary, outcomes, err := c.BatchRunner().Run(ctx, params)
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		if o.Err != nil {
			lg.Warn("program failed", zap.String("program_id", o.ProgramID.String()), zap.Error(o.Err))
			continue
		}
		lg.Info("program done", zap.String("outcome", o.Rebuild.String()), zap.Int("matches_inserted", o.MatchesInserted))
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d programs failed", summary.Failed, summary.Processed)
	}
	return nil
}

func parseProgramIDs(s string) ([]uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("program id %q: %w", part, err)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
