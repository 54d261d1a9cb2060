package dto

import (
	"strings"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
)

// UserResponse represents the public view of a user
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NewUserResponse converts a domain user
func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

// NewUserResponses converts a slice of domain users
func NewUserResponses(users []*domain.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// UpdateUserRequest represents a profile update; nil fields are left unchanged
type UpdateUserRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=100"`
	Password        *string `json:"password"`
	CurrentPassword string  `json:"currentPassword"`
}

// Validate validates the UpdateUserRequest
func (r *UpdateUserRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if r.Name == nil && r.Password == nil {
		errs.Add("name", "nothing to update")
	}
	if r.Name != nil && len(strings.TrimSpace(*r.Name)) < 2 {
		errs.Add("name", "name must be at least 2 characters")
	}
	if r.Password != nil {
		validatePassword(errs, "password", *r.Password)
	}
	return errs.OrNil()
}

// UpdateRoleRequest represents an admin role change
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Validate validates the UpdateRoleRequest
func (r *UpdateRoleRequest) Validate() FieldErrors {
	if !domain.Role(r.Role).Valid() {
		return FieldErrors{"role": "role must be admin or standard"}
	}
	return nil
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Validate validates the UpdateStatusRequest
func (r *UpdateStatusRequest) Validate() FieldErrors {
	if !domain.UserStatus(r.Status).Valid() {
		return FieldErrors{"status": "status must be active, suspended or pending"}
	}
	return nil
}

// UserListFilter represents filters for listing users
type UserListFilter struct {
	Pagination
	Role   string `form:"role"`
	Status string `form:"status"`
	Search string `form:"search"`
}

// Validate validates the UserListFilter
func (f *UserListFilter) Validate() FieldErrors {
	errs := FieldErrors{}
	if f.Role != "" && !domain.Role(f.Role).Valid() {
		errs.Add("role", "role must be admin or standard")
	}
	if f.Status != "" && !domain.UserStatus(f.Status).Valid() {
		errs.Add("status", "status must be active, suspended or pending")
	}
	return errs.OrNil()
}
