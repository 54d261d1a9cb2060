package service

import (
	"context"
	"strings"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
	"github.com/Amen1235f/ecommerce-cms/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// userService implements UserService
type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{userRepo: userRepo, bcryptCost: bcryptCost}
}

func (s *userService) find(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// UpdateUser changes name and/or password.
// Changing a password needs the current one unless an admin edits someone else.
func (s *userService) UpdateUser(ctx context.Context, actor *auth.Identity, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.user.update")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}

	if req.Password != nil {
		needsCurrent := actor == nil || !actor.IsAdmin() || actor.ID == user.ID
		if needsCurrent {
			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
				return nil, domain.ErrWrongPassword
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// ListUsers lists users with filters and pagination
func (s *userService) ListUsers(ctx context.Context, filter *dto.UserListFilter) ([]*dto.UserResponse, int64, error) {
	filter.SetDefaults()

	users, total, err := s.userRepo.List(ctx, &repository.UserFilter{
		Role:   domain.Role(filter.Role),
		Status: domain.UserStatus(filter.Status),
		Search: strings.TrimSpace(filter.Search),
		Limit:  filter.Limit,
		Offset: filter.Offset(),
	})
	if err != nil {
		return nil, 0, err
	}
	return dto.NewUserResponses(users), total, nil
}

// UpdateRole sets a user's role
func (s *userService) UpdateRole(ctx context.Context, actor *auth.Identity, id string, req *dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	role := domain.Role(req.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if actor != nil && actor.ID == id && role != domain.RoleAdmin {
		return nil, domain.ErrSelfDemotion
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return dto.NewUserResponse(user), nil
	}

	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// UpdateStatus sets a user's status. A non-active user is rejected by the
// verifier on the next request, so suspension takes effect immediately.
func (s *userService) UpdateStatus(ctx context.Context, actor *auth.Identity, id string, req *dto.UpdateStatusRequest) (*dto.UserResponse, error) {
	status := domain.UserStatus(req.Status)
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if actor != nil && actor.ID == id && status != domain.UserStatusActive {
		return nil, domain.ErrSelfSuspension
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return dto.NewUserResponse(user), nil
	}

	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// BootstrapAdmin creates an active admin, or promotes and reactivates an existing account.
// The bool result reports whether a new account was created.
func (s *userService) BootstrapAdmin(ctx context.Context, name, email, password string) (*dto.UserResponse, bool, error) {
	email = domain.NormalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	if existing != nil {
		existing.Role = domain.RoleAdmin
		existing.Status = domain.UserStatusActive
		existing.UpdatedAt = now
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return dto.NewUserResponse(existing), false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, false, err
	}
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return dto.NewUserResponse(user), true, nil
}
