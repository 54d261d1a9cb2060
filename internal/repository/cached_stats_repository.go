package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	pkgredis "github.com/Amen1235f/ecommerce-cms/pkg/redis"
	"go.uber.org/zap"
)

const (
	// Cache key prefix for dashboard snapshots
	statsKeyPrefix = "stats:dashboard:"

	// Default TTL for dashboard snapshots
	statsCacheTTL = time.Minute
)

// Cache is the subset of the Redis client the cached repositories use
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedStatsRepository wraps StatsRepository with Redis caching
type CachedStatsRepository struct {
	repo  StatsRepository
	cache Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedStatsRepository creates a new CachedStatsRepository
func NewCachedStatsRepository(repo StatsRepository, cache Cache, ttl time.Duration, log *logger.Logger) *CachedStatsRepository {
	if ttl <= 0 {
		ttl = statsCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedStatsRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func statsKey(lowStockThreshold, recentLimit int) string {
	return fmt.Sprintf("%s%d:%d", statsKeyPrefix, lowStockThreshold, recentLimit)
}

// Dashboard returns cached stats, falling back to the wrapped repository on miss.
// Cache failures degrade to a direct read.
func (r *CachedStatsRepository) Dashboard(ctx context.Context, lowStockThreshold, recentLimit int) (*domain.DashboardStats, error) {
	key := statsKey(lowStockThreshold, recentLimit)

	cached, err := r.cache.Get(ctx, key)
	switch {
	case err == nil:
		var stats domain.DashboardStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	case !errors.Is(err, pkgredis.Nil):
		r.log.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
	}

	stats, err := r.repo.Dashboard(ctx, lowStockThreshold, recentLimit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.log.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot for the given parameters
func (r *CachedStatsRepository) Invalidate(ctx context.Context, lowStockThreshold, recentLimit int) error {
	return r.cache.Del(ctx, statsKey(lowStockThreshold, recentLimit))
}
