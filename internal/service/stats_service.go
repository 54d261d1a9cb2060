package service

import (
	"context"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
	"github.com/Amen1235f/ecommerce-cms/pkg/telemetry"
)

// Stats defaults
const (
	DefaultLowStockThreshold = 5
	DefaultRecentUsers       = 5
)

// StatsServiceConfig holds configuration for StatsService
type StatsServiceConfig struct {
	LowStockThreshold int
	RecentUsers       int
}

type statsService struct {
	statsRepo repository.StatsRepository
	config    *StatsServiceConfig
}

// NewStatsService creates a new StatsService
func NewStatsService(statsRepo repository.StatsRepository, config *StatsServiceConfig) StatsService {
	if config == nil {
		config = &StatsServiceConfig{}
	}
	if config.LowStockThreshold < 0 {
		config.LowStockThreshold = DefaultLowStockThreshold
	}
	if config.RecentUsers <= 0 {
		config.RecentUsers = DefaultRecentUsers
	}
	return &statsService{statsRepo: statsRepo, config: config}
}

// Dashboard returns the admin dashboard aggregates
func (s *statsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.stats.dashboard")
	defer span.End()

	stats, err := s.statsRepo.Dashboard(ctx, s.config.LowStockThreshold, s.config.RecentUsers)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return stats, nil
}
