package dto

import (
	"strings"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
)

// CreateCategoryRequest represents the request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// Validate validates the CreateCategoryRequest
func (r *CreateCategoryRequest) Validate() FieldErrors {
	if strings.TrimSpace(r.Name) == "" {
		return FieldErrors{"name": "name is required"}
	}
	if domain.Slugify(r.Name) == "" {
		return FieldErrors{"name": "name must contain a letter or digit"}
	}
	return nil
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// Validate validates the UpdateCategoryRequest
func (r *UpdateCategoryRequest) Validate() FieldErrors {
	if r.Name == nil && r.Description == nil {
		return FieldErrors{"name": "nothing to update"}
	}
	if r.Name != nil && domain.Slugify(*r.Name) == "" {
		return FieldErrors{"name": "name must contain a letter or digit"}
	}
	return nil
}

// CategoryResponse represents a category
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// NewCategoryResponse converts a domain category
func NewCategoryResponse(c *domain.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}

// NewCategoryResponses converts a slice of domain categories
func NewCategoryResponses(categories []*domain.Category) []*CategoryResponse {
	out := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}

// CategoryListFilter represents filters for listing categories
type CategoryListFilter struct {
	Pagination
	Search string `form:"search"`
}
