package service

import (
	"context"
	"testing"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Dashboard(t *testing.T) {
	repo := &mockStatsRepository{stats: &domain.DashboardStats{TotalUsers: 3}}
	svc := NewStatsService(repo, &StatsServiceConfig{LowStockThreshold: 2})

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, 2, repo.threshold)
	assert.Equal(t, DefaultRecentUsers, repo.recent)

	repo.err = errStore
	_, err = svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, errStore)
}

func TestStatsService_Defaults(t *testing.T) {
	repo := &mockStatsRepository{stats: &domain.DashboardStats{}}
	svc := NewStatsService(repo, &StatsServiceConfig{LowStockThreshold: -1})

	_, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultLowStockThreshold, repo.threshold)
}
