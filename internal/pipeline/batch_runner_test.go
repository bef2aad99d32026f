package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"skillsync/internal/domain/matching"
	"skillsync/internal/domain/program"
	"skillsync/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrograms struct {
	items []program.Program
	err   error
}

func (s stubPrograms) ListWithCIP(context.Context) ([]program.Program, error) {
	return s.items, s.err
}

type stubRebuild struct {
	mu      sync.Mutex
	skip    map[uuid.UUID]bool
	fail    map[uuid.UUID]bool
	calls   []uuid.UUID
	maxTopN int
}

func (s *stubRebuild) Rebuild(_ context.Context, id uuid.UUID, topN int) (usecase.RebuildResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, id)
	if topN > s.maxTopN {
		s.maxTopN = topN
	}
	s.mu.Unlock()

	if s.fail[id] {
		return usecase.RebuildResult{}, errors.New("db down")
	}
	if s.skip[id] {
		return usecase.RebuildResult{ProgramID: id, Skipped: true, Reason: "no crosswalk"}, nil
	}
	return usecase.RebuildResult{ProgramID: id, SkillsCount: topN}, nil
}

type stubFuzzy struct {
	mu    sync.Mutex
	calls int
}

func (s *stubFuzzy) FindMatches(context.Context, uuid.UUID, matching.SimilarityOptions) ([]matching.SimilarityMatch, error) {
	return nil, nil
}

func (s *stubFuzzy) SaveMatches(context.Context, uuid.UUID, []matching.SimilarityMatch) (usecase.SaveResult, error) {
	return usecase.SaveResult{}, nil
}

func (s *stubFuzzy) FindAndSave(context.Context, uuid.UUID, matching.SimilarityOptions) ([]matching.SimilarityMatch, usecase.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil, usecase.SaveResult{Inserted: 2}, nil
}

type recordingPurger struct {
	patterns []string
}

func (p *recordingPurger) DeleteByPattern(_ context.Context, pattern string) error {
	p.patterns = append(p.patterns, pattern)
	return nil
}

func TestBatchRunner_ContinuesPastFailures(t *testing.T) {
	ok1, ok2, skipped, broken := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	programs := stubPrograms{items: []program.Program{{ID: ok1}, {ID: ok2}, {ID: skipped}, {ID: broken}}}
	rebuild := &stubRebuild{skip: map[uuid.UUID]bool{skipped: true}, fail: map[uuid.UUID]bool{broken: true}}
	fuzzy := &stubFuzzy{}
	purger := &recordingPurger{}

	r := NewBatchRunner(programs, rebuild, fuzzy, purger, nil)
	sum, outcomes, err := r.Run(context.Background(), RunParams{TopN: 8, Workers: 2, Fuzzy: true})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Processed)
	assert.Equal(t, 2, sum.Rebuilt)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 4, sum.MatchesInserted)
	assert.Len(t, outcomes, 4)
	assert.Equal(t, 2, fuzzy.calls, "fuzzy runs only for rebuilt programs")
	assert.Equal(t, 8, rebuild.maxTopN)
	assert.Equal(t, []string{usecase.AggregationCachePattern}, purger.patterns, "cached aggregations are purged once per run")
}

func TestBatchRunner_ExplicitProgramIDs(t *testing.T) {
	id := uuid.New()
	programs := stubPrograms{err: errors.New("must not list")}
	rebuild := &stubRebuild{}

	sum, _, err := NewBatchRunner(programs, rebuild, nil, nil, nil).Run(context.Background(), RunParams{ProgramIDs: []uuid.UUID{id}, Fuzzy: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Rebuilt)
	assert.Equal(t, []uuid.UUID{id}, rebuild.calls)
}

func TestBatchRunner_ListFailure(t *testing.T) {
	_, _, err := NewBatchRunner(stubPrograms{err: errors.New("boom")}, &stubRebuild{}, nil, nil, nil).Run(context.Background(), RunParams{})
	assert.Error(t, err)
}

func TestBatchRunner_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	programs := stubPrograms{items: []program.Program{{ID: uuid.New()}, {ID: uuid.New()}}}
	sum, _, err := NewBatchRunner(programs, &stubRebuild{}, nil, nil, nil).Run(ctx, RunParams{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Rebuilt)
}
