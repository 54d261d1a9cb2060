package auth

import (
	"errors"
	"net/http"
	"time"
)

// Kind classifies why a request was refused
type Kind int

const (
	Unauthenticated Kind = iota + 1
	Forbidden
	RateLimited
	ServiceUnavailable
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case RateLimited:
		return "rate_limited"
	case ServiceUnavailable:
		return "service_unavailable"
	default:
		return "unknown"
	}
}

// HTTPStatus maps the kind to its response code
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusServiceUnavailable
	}
}

// Rejection reasons returned to clients
const (
	ReasonNoToken         = "no token provided"
	ReasonInvalidFormat   = "invalid token format"
	ReasonTokenEmpty      = "token empty"
	ReasonTokenExpired    = "token expired"
	ReasonInvalidToken    = "invalid token"
	ReasonInvalidPayload  = "invalid payload"
	ReasonUserNotFound    = "user not found"
	ReasonAccountInactive = "account not active"
	ReasonAuthRequired    = "authentication required"
	ReasonAdminRequired   = "admin access required"
	ReasonNotOwner        = "not allowed to access this resource"
	ReasonTooManyAttempts = "too many login attempts, please try again later"
	ReasonUnavailable     = "service temporarily unavailable"
)

// Rejection is the error every gate returns
type Rejection struct {
	Kind   Kind
	Reason string

	// Err is the underlying fault for ServiceUnavailable; never sent to clients
	Err error

	// RetryAfter is set on RateLimited rejections
	RetryAfter time.Duration
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return r.Kind.String() + ": " + r.Reason + ": " + r.Err.Error()
	}
	return r.Kind.String() + ": " + r.Reason
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Reject builds a rejection of the given kind
func Reject(kind Kind, reason string) *Rejection {
	return &Rejection{Kind: kind, Reason: reason}
}

// Unavailable wraps an infrastructure fault
func Unavailable(err error) *Rejection {
	return &Rejection{Kind: ServiceUnavailable, Reason: ReasonUnavailable, Err: err}
}

// TooManyAttempts builds a RateLimited rejection
func TooManyAttempts(retryAfter time.Duration) *Rejection {
	return &Rejection{Kind: RateLimited, Reason: ReasonTooManyAttempts, RetryAfter: retryAfter}
}

// AsRejection extracts a *Rejection from err
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
