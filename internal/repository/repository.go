package repository

import (
	"context"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data access.
// FindByID and FindByEmail return (nil, nil) when no row matches.
type UserRepository interface {
	// Create stores a new user; a duplicate email yields domain.ErrEmailTaken
	Create(ctx context.Context, user *domain.User) error
	// FindByID retrieves a user by ID
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail retrieves a user by normalized email
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update writes name, email, password hash, role and status
	Update(ctx context.Context, user *domain.User) error
	// List returns a page of users and the total matching count
	List(ctx context.Context, filter *UserFilter) ([]*domain.User, int64, error)
	// Count returns the number of stored users
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	// FindByName matches case-insensitively
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, category *domain.Category) error
	// Delete yields domain.ErrCategoryInUse while products reference the category
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *CategoryFilter) ([]*domain.Category, int64, error)
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *ProductFilter) ([]*domain.Product, int64, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// CountByCategory returns how many products reference the category
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
}

// StatsRepository computes the admin dashboard aggregates
type StatsRepository interface {
	Dashboard(ctx context.Context, lowStockThreshold, recentLimit int) (*domain.DashboardStats, error)
}

// UserFilter narrows a user listing
type UserFilter struct {
	Role   domain.Role
	Status domain.UserStatus
	Search string
	Limit  int
	Offset int
}

// CategoryFilter narrows a category listing
type CategoryFilter struct {
	Search string
	Limit  int
	Offset int
}

// Product sort orders
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ValidSort reports whether s is a known product sort order
func ValidSort(s string) bool {
	switch s {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortName:
		return true
	}
	return false
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	CategoryID string
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Status     domain.ProductStatus
	Sort       string
	Limit      int
	Offset     int
}
