package domain

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSelfDemotion       = errors.New("admins cannot change their own role")
	ErrSelfSuspension     = errors.New("admins cannot change their own status")

	// Category errors
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category name already exists")
	ErrCategoryInUse    = errors.New("category still has products")

	// Product errors
	ErrProductNotFound = errors.New("product not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrTooManyImages   = errors.New("too many images")

	// Validation errors
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidPrice  = errors.New("price cannot be negative")
	ErrInvalidStock  = errors.New("stock cannot be negative")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidStatus = errors.New("invalid status")
)
