package service

import (
	"context"
	"strings"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
	"github.com/Amen1235f/ecommerce-cms/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// categoryService implements CategoryService
type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a category with a unique name and slug
func (s *categoryService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.create")
	defer span.End()

	name := strings.TrimSpace(req.Name)
	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrCategoryExists
	}

	slug, err := ensureUniqueSlug(ctx, name, s.categoryRepo.SlugExists)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("category_id", category.ID))
	return dto.NewCategoryResponse(category), nil
}

func (s *categoryService) find(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *categoryService) GetCategory(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCategoryResponse(category), nil
}

// UpdateCategory renames or re-describes a category; a rename regenerates the slug
func (s *categoryService) UpdateCategory(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.category.update")
	defer span.End()
	span.SetAttributes(attribute.String("category_id", id))

	category, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(name, category.Name) {
			other, err := s.categoryRepo.FindByName(ctx, name)
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
			if other != nil && other.ID != category.ID {
				return nil, domain.ErrCategoryExists
			}
		}
		if domain.Slugify(name) != category.Slug {
			slug, err := ensureUniqueSlug(ctx, name, s.categoryRepo.SlugExists)
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
			category.Slug = slug
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = strings.TrimSpace(*req.Description)
	}

	category.UpdatedAt = time.Now().UTC()
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return dto.NewCategoryResponse(category), nil
}

// DeleteCategory deletes a category no product references
func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.category.delete")
	defer span.End()
	span.SetAttributes(attribute.String("category_id", id))

	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListCategories lists categories with pagination
func (s *categoryService) ListCategories(ctx context.Context, filter *dto.CategoryListFilter) ([]*dto.CategoryResponse, int64, error) {
	filter.SetDefaults()

	categories, total, err := s.categoryRepo.List(ctx, &repository.CategoryFilter{
		Search: strings.TrimSpace(filter.Search),
		Limit:  filter.Limit,
		Offset: filter.Offset(),
	})
	if err != nil {
		return nil, 0, err
	}
	return dto.NewCategoryResponses(categories), total, nil
}
