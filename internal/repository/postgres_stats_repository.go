package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStatsRepository computes dashboard aggregates with SQL
type PostgresStatsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresStatsRepository creates a new PostgresStatsRepository
func NewPostgresStatsRepository(pool *pgxpool.Pool) *PostgresStatsRepository {
	return &PostgresStatsRepository{pool: pool}
}

// Dashboard gathers all dashboard numbers
func (r *PostgresStatsRepository) Dashboard(ctx context.Context, lowStockThreshold, recentLimit int) (*domain.DashboardStats, error) {
	stats := newDashboardStats(lowStockThreshold)

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM users GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by status: %w", err)
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan user status count: %w", err)
		}
		stats.UsersByStatus[domain.UserStatus(status)] = count
		stats.TotalUsers += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(*) FILTER (WHERE stock <= $1)
		FROM products
	`
	if err := r.pool.QueryRow(ctx, query, lowStockThreshold).Scan(
		&stats.TotalProducts,
		&stats.PublishedProducts,
		&stats.LowStockProducts,
	); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&stats.TotalCategories); err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	query = `
		SELECT c.id, c.name, COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY product_count DESC, c.name ASC
	`
	rows, err = r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count products per category: %w", err)
	}
	for rows.Next() {
		var cc domain.CategoryCount
		if err := rows.Scan(&cc.CategoryID, &cc.CategoryName, &cc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		stats.ProductsPerCategory = append(stats.ProductsPerCategory, cc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT id, name, email, role, status, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err = r.pool.Query(ctx, query, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u domain.RecentUser
		var role, status string
		var createdAt time.Time
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent user: %w", err)
		}
		u.Role = domain.Role(role)
		u.Status = domain.UserStatus(status)
		u.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		stats.RecentUsers = append(stats.RecentUsers, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func newDashboardStats(lowStockThreshold int) *domain.DashboardStats {
	return &domain.DashboardStats{
		UsersByStatus: map[domain.UserStatus]int64{
			domain.UserStatusActive:    0,
			domain.UserStatusSuspended: 0,
			domain.UserStatusPending:   0,
		},
		LowStockThreshold:   lowStockThreshold,
		ProductsPerCategory: []domain.CategoryCount{},
		RecentUsers:         []domain.RecentUser{},
	}
}
