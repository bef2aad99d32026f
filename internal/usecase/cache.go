package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (noopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, string) error                      { return nil }
func (noopCache) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}

func cacheOrNoop(c Cache) Cache {
	if c == nil {
		return noopCache{}
	}
	return c
}

// AggregationCachePattern matches every cached classification aggregation.
const AggregationCachePattern = "skills:agg:*"

func aggregationCacheKey(code string) string {
	return "skills:agg:" + strings.ToLower(strings.TrimSpace(code))
}

func rebuildLockKey(programID uuid.UUID) string {
	return "programs:rebuild:lock:" + programID.String()
}
