package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// UserFinder resolves the account behind a token; (nil, nil) means not found
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// TokenParser validates a raw token string
type TokenParser interface {
	Parse(token string) (*Claims, error)
}

// Verifier turns an Authorization header into an Identity
type Verifier struct {
	tokens TokenParser
	users  UserFinder
	log    *logger.Logger
}

// NewVerifier creates a Verifier
func NewVerifier(tokens TokenParser, users UserFinder, log *logger.Logger) *Verifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Verifier{tokens: tokens, users: users, log: log}
}

// Verify runs the checks in a fixed order and stops at the first failure.
// Header shape is validated before any store access.
func (v *Verifier) Verify(ctx context.Context, header string) (*Identity, error) {
	if header == "" {
		return nil, Reject(Unauthenticated, ReasonNoToken)
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, Reject(Unauthenticated, ReasonInvalidFormat)
	}
	raw := strings.TrimPrefix(header, bearerPrefix)
	if raw == "" {
		return nil, Reject(Unauthenticated, ReasonTokenEmpty)
	}

	claims, err := v.tokens.Parse(raw)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, Reject(Unauthenticated, ReasonTokenExpired)
		}
		return nil, Reject(Unauthenticated, ReasonInvalidToken)
	}
	if claims.ID == "" {
		return nil, Reject(Unauthenticated, ReasonInvalidPayload)
	}

	user, err := v.users.FindByID(ctx, claims.ID)
	if err != nil {
		v.log.WithContext(ctx).Error("credential lookup failed during token verification",
			zap.String("user_id", claims.ID),
			zap.Error(err),
		)
		return nil, Unavailable(err)
	}
	if user == nil {
		return nil, Reject(Unauthenticated, ReasonUserNotFound)
	}
	if !user.IsActive() {
		return nil, Reject(Unauthenticated, ReasonAccountInactive)
	}

	return IdentityFromUser(user), nil
}
