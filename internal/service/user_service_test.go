package service

import (
	"context"
	"testing"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, repo *mockUserRepository, id, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		ID:           id,
		Name:         "User " + id,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.UserStatusActive,
	}
	repo.add(u)
	return u
}

func strPtr(s string) *string { return &s }

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepository()
	svc := NewUserService(repo, bcrypt.MinCost)

	owner := seedUser(t, repo, "u1", "owner@example.com", "secret123", domain.RoleStandard)
	admin := seedUser(t, repo, "a1", "admin@example.com", "admin1234", domain.RoleAdmin)
	ownerID := auth.IdentityFromUser(owner)
	adminID := auth.IdentityFromUser(admin)

	t.Run("rename", func(t *testing.T) {
		resp, err := svc.UpdateUser(ctx, ownerID, "u1", &dto.UpdateUserRequest{Name: strPtr("  New Name ")})
		require.NoError(t, err)
		assert.Equal(t, "New Name", resp.Name)
	})

	t.Run("password change needs current password", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, ownerID, "u1", &dto.UpdateUserRequest{Password: strPtr("newpass123"), CurrentPassword: "bad"})
		assert.ErrorIs(t, err, domain.ErrWrongPassword)

		_, err = svc.UpdateUser(ctx, ownerID, "u1", &dto.UpdateUserRequest{Password: strPtr("newpass123"), CurrentPassword: "secret123"})
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["u1"].PasswordHash), []byte("newpass123")))
	})

	t.Run("admin resets another user's password", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, adminID, "u1", &dto.UpdateUserRequest{Password: strPtr("reset1234")})
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["u1"].PasswordHash), []byte("reset1234")))
	})

	t.Run("admin changing own password still needs current", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, adminID, "a1", &dto.UpdateUserRequest{Password: strPtr("another123")})
		assert.ErrorIs(t, err, domain.ErrWrongPassword)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, adminID, "missing", &dto.UpdateUserRequest{Name: strPtr("x y")})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepository()
	svc := NewUserService(repo, bcrypt.MinCost)

	seedUser(t, repo, "u1", "u1@example.com", "secret123", domain.RoleStandard)
	admin := seedUser(t, repo, "a1", "a1@example.com", "secret123", domain.RoleAdmin)
	actor := auth.IdentityFromUser(admin)

	resp, err := svc.UpdateRole(ctx, actor, "u1", &dto.UpdateRoleRequest{Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)

	_, err = svc.UpdateRole(ctx, actor, "u1", &dto.UpdateRoleRequest{Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.UpdateRole(ctx, actor, "a1", &dto.UpdateRoleRequest{Role: "standard"})
	assert.ErrorIs(t, err, domain.ErrSelfDemotion)

	before := repo.updates
	_, err = svc.UpdateRole(ctx, actor, "u1", &dto.UpdateRoleRequest{Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, before, repo.updates, "unchanged role should not write")
}

func TestUserService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepository()
	svc := NewUserService(repo, bcrypt.MinCost)

	seedUser(t, repo, "u1", "u1@example.com", "secret123", domain.RoleStandard)
	admin := seedUser(t, repo, "a1", "a1@example.com", "secret123", domain.RoleAdmin)
	actor := auth.IdentityFromUser(admin)

	resp, err := svc.UpdateStatus(ctx, actor, "u1", &dto.UpdateStatusRequest{Status: "suspended"})
	require.NoError(t, err)
	assert.Equal(t, "suspended", resp.Status)
	assert.Equal(t, domain.UserStatusSuspended, repo.users["u1"].Status)

	_, err = svc.UpdateStatus(ctx, actor, "u1", &dto.UpdateStatusRequest{Status: "deleted"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, actor, "a1", &dto.UpdateStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, domain.ErrSelfSuspension)
}

func TestUserService_ListUsers(t *testing.T) {
	repo := newMockUserRepository()
	svc := NewUserService(repo, bcrypt.MinCost)
	seedUser(t, repo, "u1", "u1@example.com", "secret123", domain.RoleStandard)
	seedUser(t, repo, "a1", "a1@example.com", "secret123", domain.RoleAdmin)

	filter := &dto.UserListFilter{Role: "admin"}
	users, total, err := svc.ListUsers(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, "a1", users[0].ID)
	assert.Equal(t, dto.DefaultLimit, filter.Limit)
}

func TestUserService_BootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	repo := newMockUserRepository()
	svc := NewUserService(repo, bcrypt.MinCost)

	resp, created, err := svc.BootstrapAdmin(ctx, "Root", " Root@Example.com ", "secret123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "root@example.com", resp.Email)
	assert.Equal(t, "admin", resp.Role)

	repo.emailIndex["root@example.com"].Status = domain.UserStatusSuspended
	repo.emailIndex["root@example.com"].Role = domain.RoleStandard

	resp, created, err = svc.BootstrapAdmin(ctx, "Root", "root@example.com", "ignored123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, "active", resp.Status)
}
