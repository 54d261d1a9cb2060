package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultMaxImages caps the images stored per product
const DefaultMaxImages = 5

// ProductServiceConfig holds configuration for ProductService
type ProductServiceConfig struct {
	MaxImages int
}

// productService implements ProductService
type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	images       ImageUploader
	config       *ProductServiceConfig
	log          *logger.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	images ImageUploader,
	config *ProductServiceConfig,
	log *logger.Logger,
) ProductService {
	if config == nil {
		config = &ProductServiceConfig{}
	}
	if config.MaxImages <= 0 {
		config.MaxImages = DefaultMaxImages
	}
	if log == nil {
		log = logger.Nop()
	}
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		config:       config,
		log:          log,
	}
}

// CreateProduct stores uploaded images first and removes them again if the product cannot be saved
func (s *productService) CreateProduct(ctx context.Context, actor *auth.Identity, req *dto.CreateProductRequest, files [][]byte) (*dto.ProductResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.create")
	defer span.End()

	if len(files) > s.config.MaxImages {
		return nil, domain.ErrTooManyImages
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	slug, err := ensureUniqueSlug(ctx, req.Name, s.productRepo.SlugExists)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	status := domain.ProductStatus(req.Status)
	if status == "" {
		status = domain.ProductStatusDraft
	}

	images, err := s.saveImages(ctx, files)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		CategoryID:  categoryID,
		Images:      images,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if actor != nil {
		product.CreatedBy = actor.ID
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		s.removeImages(ctx, images)
		return nil, err
	}

	span.SetAttributes(attribute.String("product_id", product.ID), attribute.Int("images", len(images)))
	return dto.NewProductResponse(product), nil
}

func (s *productService) find(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// GetProduct retrieves a product; drafts are hidden from non-admins
func (s *productService) GetProduct(ctx context.Context, viewer *auth.Identity, id string) (*dto.ProductResponse, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsPublished() && !isAdmin(viewer) {
		return nil, domain.ErrProductNotFound
	}
	return dto.NewProductResponse(product), nil
}

// ListProducts lists products; non-admins only ever see published ones
func (s *productService) ListProducts(ctx context.Context, viewer *auth.Identity, filter *dto.ProductListFilter) ([]*dto.ProductResponse, int64, error) {
	filter.SetDefaults()
	if !isAdmin(viewer) {
		filter.Status = string(domain.ProductStatusPublished)
	}

	products, total, err := s.productRepo.List(ctx, filter.ToRepository())
	if err != nil {
		return nil, 0, err
	}
	return dto.NewProductResponses(products), total, nil
}

// UpdateProduct applies a partial update
func (s *productService) UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.update")
	defer span.End()
	span.SetAttributes(attribute.String("product_id", id))

	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if domain.Slugify(name) != domain.Slugify(product.Name) {
			slug, err := ensureUniqueSlug(ctx, name, s.productRepo.SlugExists)
			if err != nil {
				telemetry.RecordError(span, err)
				return nil, err
			}
			product.Slug = slug
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		product.Price = req.Price.Round(2)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, domain.ErrInvalidStock
		}
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		if product.CategoryID, err = s.resolveCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		status := domain.ProductStatus(*req.Status)
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		product.Status = status
	}

	product.UpdatedAt = time.Now().UTC()
	if err := s.productRepo.Update(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// AddImages appends uploaded images to a product
func (s *productService) AddImages(ctx context.Context, id string, files [][]byte) (*dto.ProductResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.add_images")
	defer span.End()
	span.SetAttributes(attribute.String("product_id", id), attribute.Int("images", len(files)))

	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(product.Images)+len(files) > s.config.MaxImages {
		return nil, domain.ErrTooManyImages
	}

	images, err := s.saveImages(ctx, files)
	if err != nil {
		return nil, err
	}

	product.Images = append(product.Images, images...)
	product.UpdatedAt = time.Now().UTC()
	if err := s.productRepo.Update(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		s.removeImages(ctx, images)
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// RemoveImage detaches one image and deletes it from storage
func (s *productService) RemoveImage(ctx context.Context, id, key string) (*dto.ProductResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.remove_image")
	defer span.End()
	span.SetAttributes(attribute.String("product_id", id), attribute.String("image_key", key))

	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := product.ImageIndex(key)
	if idx < 0 {
		return nil, domain.ErrImageNotFound
	}
	removed := product.Images[idx]
	product.Images = append(product.Images[:idx:idx], product.Images[idx+1:]...)
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.removeImages(ctx, []domain.Image{removed})
	return dto.NewProductResponse(product), nil
}

// DeleteProduct deletes a product and its images
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.product.delete")
	defer span.End()
	span.SetAttributes(attribute.String("product_id", id))

	product, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.removeImages(ctx, product.Images)
	return nil
}

// resolveCategory maps an optional category id onto a stored category; "" clears it
func (s *productService) resolveCategory(ctx context.Context, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.FindByID(ctx, strings.TrimSpace(*id))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return &category.ID, nil
}

// saveImages stores every file or none of them
func (s *productService) saveImages(ctx context.Context, files [][]byte) ([]domain.Image, error) {
	images := make([]domain.Image, 0, len(files))
	for i, data := range files {
		img, err := s.images.Save(ctx, data)
		if err != nil {
			s.removeImages(ctx, images)
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}
		images = append(images, img)
	}
	return images, nil
}

// removeImages deletes stored images, logging failures
func (s *productService) removeImages(ctx context.Context, images []domain.Image) {
	for _, img := range images {
		if err := s.images.Remove(ctx, img.Key); err != nil {
			s.log.WithContext(ctx).Warn("failed to remove product image",
				zap.String("key", img.Key),
				zap.Error(err),
			)
		}
	}
}

func isAdmin(id *auth.Identity) bool {
	return id != nil && id.IsAdmin()
}
