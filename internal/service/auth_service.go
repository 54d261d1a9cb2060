package service

import (
	"context"
	"strings"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/Amen1235f/ecommerce-cms/internal/ratelimit"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	BcryptCost int
}

// authService implements AuthService
type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	limiter  ratelimit.Limiter
	config   *AuthServiceConfig
	log      *logger.Logger

	// compared against when the email is unknown so both paths cost one bcrypt check
	dummyHash []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	limiter ratelimit.Limiter,
	config *AuthServiceConfig,
	log *logger.Logger,
) AuthService {
	if config == nil {
		config = &AuthServiceConfig{}
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		log = logger.Nop()
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), config.BcryptCost)
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		limiter:   limiter,
		config:    config,
		log:       log,
		dummyHash: dummy,
	}
}

// Register registers a new user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	email := domain.NormalizeEmail(req.Email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "email taken")
		return nil, domain.ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleStandard,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// the unique index settles concurrent registrations for the same email
	if err := s.userRepo.Create(ctx, user); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp, err := s.issue(user)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// Login authenticates a user
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, sourceAddr string) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	email := domain.NormalizeEmail(req.Email)
	key := ratelimit.Key(email, sourceAddr)

	decision, err := s.limiter.Check(ctx, key)
	if err != nil {
		s.log.WithContext(ctx).Error("login rate limiter unavailable", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, auth.Unavailable(err)
	}
	if !decision.Allowed {
		span.SetStatus(codes.Error, "rate limited")
		return nil, auth.TooManyAttempts(decision.RetryAfter)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, auth.Unavailable(err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive() {
		span.SetStatus(codes.Error, "account not active")
		return nil, auth.Reject(auth.Unauthenticated, auth.ReasonAccountInactive)
	}

	if err := s.limiter.Clear(ctx, key); err != nil {
		s.log.WithContext(ctx).Warn("failed to clear login attempts", zap.Error(err))
	}

	resp, err := s.issue(user)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")
	return resp, nil
}

// Me returns the current user
func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) issue(user *domain.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return dto.NewAuthResponse(token, expiresAt, dto.NewUserResponse(user)), nil
}
