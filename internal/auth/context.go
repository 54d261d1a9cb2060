package auth

import (
	"context"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/gin-gonic/gin"
)

// Identity is the verified caller attached to a request
type Identity struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Role   domain.Role       `json:"role"`
	Status domain.UserStatus `json:"status"`
}

// IsAdmin reports whether the caller holds the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == domain.RoleAdmin
}

// IdentityFromUser copies the fields exposed to handlers
func IdentityFromUser(u *domain.User) *Identity {
	return &Identity{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
	}
}

type identityKey struct{}

const ginIdentityKey = "auth.identity"

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by WithIdentity
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// SetIdentity attaches id to both the gin context and the request context
func SetIdentity(c *gin.Context, id *Identity) {
	c.Set(ginIdentityKey, id)
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
}

// CurrentIdentity returns the caller verified earlier in the chain, if any
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	if v, ok := c.Get(ginIdentityKey); ok {
		if id, ok := v.(*Identity); ok && id != nil {
			return id, true
		}
	}
	return IdentityFromContext(c.Request.Context())
}
