package service

import (
	"context"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register creates a standard account and returns a token for it
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login checks the rate limiter, then credentials, then account status
	Login(ctx context.Context, req *dto.LoginRequest, sourceAddr string) (*dto.AuthResponse, error)
	// Me returns the stored user behind an identity
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

// UserService defines the interface for user management
type UserService interface {
	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	// UpdateUser changes name and/or password
	UpdateUser(ctx context.Context, actor *auth.Identity, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	// ListUsers lists users with filters and pagination
	ListUsers(ctx context.Context, filter *dto.UserListFilter) ([]*dto.UserResponse, int64, error)
	// UpdateRole sets a user's role; admins cannot demote themselves
	UpdateRole(ctx context.Context, actor *auth.Identity, id string, req *dto.UpdateRoleRequest) (*dto.UserResponse, error)
	// UpdateStatus sets a user's status; admins cannot deactivate themselves
	UpdateStatus(ctx context.Context, actor *auth.Identity, id string, req *dto.UpdateStatusRequest) (*dto.UserResponse, error)
	// BootstrapAdmin creates an admin account or promotes an existing one
	BootstrapAdmin(ctx context.Context, name, email, password string) (*dto.UserResponse, bool, error)
}

// CategoryService defines the interface for category business logic
type CategoryService interface {
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context, filter *dto.CategoryListFilter) ([]*dto.CategoryResponse, int64, error)
}

// ProductService defines the interface for product business logic.
// A nil viewer or a non-admin viewer only sees published products.
type ProductService interface {
	CreateProduct(ctx context.Context, actor *auth.Identity, req *dto.CreateProductRequest, files [][]byte) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, viewer *auth.Identity, id string) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, viewer *auth.Identity, filter *dto.ProductListFilter) ([]*dto.ProductResponse, int64, error)
	UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	AddImages(ctx context.Context, id string, files [][]byte) (*dto.ProductResponse, error)
	RemoveImage(ctx context.Context, id, key string) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
}

// StatsService defines the interface for the admin dashboard
type StatsService interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}

// TokenIssuer signs identity tokens
type TokenIssuer interface {
	Issue(userID string, role domain.Role) (string, time.Time, error)
}

// ImageUploader stores processed product images
type ImageUploader interface {
	Save(ctx context.Context, data []byte) (domain.Image, error)
	Remove(ctx context.Context, key string) error
}
