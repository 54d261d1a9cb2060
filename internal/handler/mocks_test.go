package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool              `json:"success"`
	Msg     string            `json:"msg"`
	Data    json.RawMessage   `json:"data"`
	Meta    json.RawMessage   `json:"meta"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// as attaches a fixed identity, standing in for RequireAuth
func as(id *auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != nil {
			auth.SetIdentity(c, id)
		}
		c.Next()
	}
}

var (
	adminIdentity    = &auth.Identity{ID: "a1", Role: domain.RoleAdmin, Status: domain.UserStatusActive}
	standardIdentity = &auth.Identity{ID: "u1", Role: domain.RoleStandard, Status: domain.UserStatusActive}
)

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	loginErr   error
	lastAddr   string
	registered *dto.RegisterRequest
}

func (m *mockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	m.registered = req
	return &dto.AuthResponse{Token: "tok", User: &dto.UserResponse{ID: "u1", Email: req.Email}}, nil
}

func (m *mockAuthService) Login(ctx context.Context, req *dto.LoginRequest, sourceAddr string) (*dto.AuthResponse, error) {
	m.lastAddr = sourceAddr
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &dto.AuthResponse{Token: "tok", User: &dto.UserResponse{ID: "u1", Email: req.Email}}, nil
}

func (m *mockAuthService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if userID != "u1" {
		return nil, domain.ErrUserNotFound
	}
	return &dto.UserResponse{ID: "u1", Email: "u1@example.com"}, nil
}

// mockUserService is a mock implementation of UserService
type mockUserService struct {
	err        error
	lastActor  *auth.Identity
	lastFilter *dto.UserListFilter
}

func (m *mockUserService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.UserResponse{ID: id}, nil
}

func (m *mockUserService) UpdateUser(ctx context.Context, actor *auth.Identity, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	m.lastActor = actor
	if m.err != nil {
		return nil, m.err
	}
	return &dto.UserResponse{ID: id, Name: *req.Name}, nil
}

func (m *mockUserService) ListUsers(ctx context.Context, filter *dto.UserListFilter) ([]*dto.UserResponse, int64, error) {
	filter.SetDefaults()
	m.lastFilter = filter
	return []*dto.UserResponse{{ID: "u1"}, {ID: "u2"}}, 42, nil
}

func (m *mockUserService) UpdateRole(ctx context.Context, actor *auth.Identity, id string, req *dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	m.lastActor = actor
	if m.err != nil {
		return nil, m.err
	}
	return &dto.UserResponse{ID: id, Role: req.Role}, nil
}

func (m *mockUserService) UpdateStatus(ctx context.Context, actor *auth.Identity, id string, req *dto.UpdateStatusRequest) (*dto.UserResponse, error) {
	m.lastActor = actor
	if m.err != nil {
		return nil, m.err
	}
	return &dto.UserResponse{ID: id, Status: req.Status}, nil
}

func (m *mockUserService) BootstrapAdmin(ctx context.Context, name, email, password string) (*dto.UserResponse, bool, error) {
	return &dto.UserResponse{Email: email, Role: "admin"}, true, nil
}

// mockCategoryService is a mock implementation of CategoryService
type mockCategoryService struct {
	err error
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CategoryResponse{ID: "c1", Name: req.Name, Slug: domain.Slugify(req.Name)}, nil
}

func (m *mockCategoryService) GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CategoryResponse{ID: id}, nil
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.CategoryResponse{ID: id}, nil
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, id string) error {
	return m.err
}

func (m *mockCategoryService) ListCategories(ctx context.Context, filter *dto.CategoryListFilter) ([]*dto.CategoryResponse, int64, error) {
	filter.SetDefaults()
	return []*dto.CategoryResponse{{ID: "c1"}}, 1, nil
}

// mockProductService is a mock implementation of ProductService
type mockProductService struct {
	err         error
	lastActor   *auth.Identity
	lastCreate  *dto.CreateProductRequest
	lastFiles   [][]byte
	lastViewer  *auth.Identity
	lastKey     string
	lastFilter  *dto.ProductListFilter
	createCalls int
}

func (m *mockProductService) CreateProduct(ctx context.Context, actor *auth.Identity, req *dto.CreateProductRequest, files [][]byte) (*dto.ProductResponse, error) {
	m.createCalls++
	m.lastActor = actor
	m.lastCreate = req
	m.lastFiles = files
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ProductResponse{ID: "p1", Name: req.Name, Price: req.Price.StringFixed(2), Images: []domain.Image{}}, nil
}

func (m *mockProductService) GetProduct(ctx context.Context, viewer *auth.Identity, id string) (*dto.ProductResponse, error) {
	m.lastViewer = viewer
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ProductResponse{ID: id}, nil
}

func (m *mockProductService) ListProducts(ctx context.Context, viewer *auth.Identity, filter *dto.ProductListFilter) ([]*dto.ProductResponse, int64, error) {
	m.lastViewer = viewer
	filter.SetDefaults()
	m.lastFilter = filter
	return []*dto.ProductResponse{}, 0, nil
}

func (m *mockProductService) UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ProductResponse{ID: id}, nil
}

func (m *mockProductService) AddImages(ctx context.Context, id string, files [][]byte) (*dto.ProductResponse, error) {
	m.lastFiles = files
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ProductResponse{ID: id}, nil
}

func (m *mockProductService) RemoveImage(ctx context.Context, id, key string) (*dto.ProductResponse, error) {
	m.lastKey = key
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ProductResponse{ID: id}, nil
}

func (m *mockProductService) DeleteProduct(ctx context.Context, id string) error {
	return m.err
}

// mockStatsService returns canned stats
type mockStatsService struct {
	err error
}

func (m *mockStatsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.DashboardStats{TotalUsers: 7, UsersByStatus: map[domain.UserStatus]int64{}}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }
