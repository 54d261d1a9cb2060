package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/Amen1235f/ecommerce-cms/pkg/response"
	"github.com/gin-gonic/gin"
)

// RequireAuth rejects the request unless Verify succeeds
func RequireAuth(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := v.Verify(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		SetIdentity(c, id)
		c.Next()
	}
}

// OptionalAuth attaches an identity when Verify succeeds and otherwise continues anonymously
func OptionalAuth(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := v.Verify(c.Request.Context(), c.GetHeader("Authorization")); err == nil {
			SetIdentity(c, id)
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			Abort(c, Reject(Unauthenticated, ReasonAuthRequired))
			return
		}
		if !id.IsAdmin() {
			Abort(c, Reject(Forbidden, ReasonAdminRequired))
			return
		}
		c.Next()
	}
}

// RequireOwnerOrAdmin passes admins and callers whose id equals the named path parameter
func RequireOwnerOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			Abort(c, Reject(Unauthenticated, ReasonAuthRequired))
			return
		}
		if id.IsAdmin() {
			c.Next()
			return
		}
		if owner := c.Param(param); owner == "" || owner != id.ID {
			Abort(c, Reject(Forbidden, ReasonNotOwner))
			return
		}
		c.Next()
	}
}

// Abort writes the envelope for rej and stops the chain
func Abort(c *gin.Context, rej *Rejection) {
	switch rej.Kind {
	case ServiceUnavailable:
		response.Abort(c, rej.Kind.HTTPStatus(), ReasonUnavailable, nil)
	case RateLimited:
		if rej.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int((rej.RetryAfter+time.Second-1)/time.Second)))
		}
		response.Abort(c, rej.Kind.HTTPStatus(), rej.Reason, map[string]string{"email": rej.Reason})
	default:
		response.Abort(c, rej.Kind.HTTPStatus(), rej.Reason, map[string]string{"authorization": rej.Reason})
	}
}

// AbortWithError aborts with err's rejection, treating anything else as unavailable
func AbortWithError(c *gin.Context, err error) {
	if rej, ok := AsRejection(err); ok {
		Abort(c, rej)
		return
	}
	Abort(c, Unavailable(err))
}

// IsKind reports whether err is a rejection of kind k
func IsKind(err error, k Kind) bool {
	var rej *Rejection
	return errors.As(err, &rej) && rej.Kind == k
}
