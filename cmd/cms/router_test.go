package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/di"
	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/handler"
	"github.com/Amen1235f/ecommerce-cms/internal/ratelimit"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
	"github.com/Amen1235f/ecommerce-cms/internal/service"
	"github.com/Amen1235f/ecommerce-cms/pkg/config"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userTable map[string]*domain.User

func (u userTable) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return u[id], nil
}

// noUsers knows no email; every login fails with invalid credentials
type noUsers struct {
	repository.UserRepository
}

func (noUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}

// gateContainer wires real gates; handlers have no services, so only
// requests rejected before reaching a handler are exercised.
func gateContainer(t *testing.T) (*di.Container, *auth.TokenIssuer) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: "router-test", Issuer: "cms", Audience: "cms"})
	require.NoError(t, err)

	users := userTable{
		"u1": {ID: "u1", Role: domain.RoleStandard, Status: domain.UserStatusActive},
		"u2": {ID: "u2", Role: domain.RoleStandard, Status: domain.UserStatusSuspended},
	}
	log := logger.Nop()
	return &di.Container{
		Tokens:          tokens,
		Verifier:        auth.NewVerifier(tokens, users, log),
		HealthHandler:   handler.NewHealthHandler("cms", nil),
		AuthHandler:     handler.NewAuthHandler(nil, log),
		UserHandler:     handler.NewUserHandler(nil, log),
		CategoryHandler: handler.NewCategoryHandler(nil, log),
		ProductHandler:  handler.NewProductHandler(nil, handler.UploadLimits{}, log),
		StatsHandler:    handler.NewStatsHandler(nil, log),
	}, tokens
}

func TestRouter_Gates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, tokens := gateContainer(t)
	router, err := newRouter(c, &config.Config{Storage: config.StorageConfig{Driver: config.StorageDriverS3}}, logger.Nop())
	require.NoError(t, err)

	standard, _, err := tokens.Issue("u1", domain.RoleStandard)
	require.NoError(t, err)
	suspended, _, err := tokens.Issue("u2", domain.RoleStandard)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"me needs a token", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"suspended token rejected", http.MethodGet, "/api/v1/auth/me", suspended, http.StatusUnauthorized},
		{"other user's profile", http.MethodGet, "/api/v1/users/u9", standard, http.StatusForbidden},
		{"admin list needs admin", http.MethodGet, "/api/v1/admin/users", standard, http.StatusForbidden},
		{"stats needs admin", http.MethodGet, "/api/v1/admin/stats", standard, http.StatusForbidden},
		{"stats anonymous", http.MethodGet, "/api/v1/admin/stats", "", http.StatusUnauthorized},
		{"category create needs admin", http.MethodPost, "/api/v1/categories", standard, http.StatusForbidden},
		{"product create anonymous", http.MethodPost, "/api/v1/products", "", http.StatusUnauthorized},
		{"product delete needs admin", http.MethodDelete, "/api/v1/products/p1", standard, http.StatusForbidden},
		{"image delete needs admin", http.MethodDelete, "/api/v1/products/p1/images/products/a.jpg", standard, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestRouter_LoginLimiterKeysOnPeer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	login := func(t *testing.T, trusted []string) []int {
		t.Helper()
		c, tokens := gateContainer(t)
		limiter := ratelimit.NewMemoryLimiter(ratelimit.DefaultConfig(), ratelimit.WithoutSweeper())
		svc := service.NewAuthService(noUsers{}, tokens, limiter, &service.AuthServiceConfig{BcryptCost: bcrypt.MinCost}, nil)
		c.AuthHandler = handler.NewAuthHandler(svc, logger.Nop())

		cfg := &config.Config{
			Server:  config.ServerConfig{TrustedProxies: trusted},
			Storage: config.StorageConfig{Driver: config.StorageDriverS3},
		}
		router, err := newRouter(c, cfg, logger.Nop())
		require.NoError(t, err)

		codes := make([]int, 0, 6)
		for i := 0; i < 6; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
				strings.NewReader(`{"email":"victim@example.com","password":"guess1234"}`))
			req.Header.Set("Content-Type", "application/json")
			req.RemoteAddr = "203.0.113.7:1234"
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}
		return codes
	}

	t.Run("untrusted peer cannot rotate forwarded address", func(t *testing.T) {
		codes := login(t, nil)
		for i, code := range codes[:5] {
			assert.Equal(t, http.StatusUnauthorized, code, "attempt %d", i+1)
		}
		assert.Equal(t, http.StatusTooManyRequests, codes[5])
	})

	t.Run("trusted proxy forwards distinct clients", func(t *testing.T) {
		for i, code := range login(t, []string{"203.0.113.0/24"}) {
			assert.Equal(t, http.StatusUnauthorized, code, "attempt %d", i+1)
		}
	})
}

func TestNewRouter_RejectsBadTrustedProxy(t *testing.T) {
	c, _ := gateContainer(t)
	_, err := newRouter(c, &config.Config{Server: config.ServerConfig{TrustedProxies: []string{"not-an-ip"}}}, logger.Nop())
	assert.Error(t, err)
}
