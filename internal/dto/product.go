package dto

import (
	"strings"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents the request to create a product.
// Multipart requests carry the same fields as form values.
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description" binding:"max=5000"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Stock       int              `json:"stock"`
	CategoryID  *string          `json:"categoryId"`
	Status      string           `json:"status"`
}

// Validate validates the CreateProductRequest
func (r *CreateProductRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Name) == "" {
		errs.Add("name", "name is required")
	} else if domain.Slugify(r.Name) == "" {
		errs.Add("name", "name must contain a letter or digit")
	}
	if r.Price == nil {
		errs.Add("price", "price is required")
	} else if r.Price.IsNegative() {
		errs.Add("price", domain.ErrInvalidPrice.Error())
	}
	if r.Stock < 0 {
		errs.Add("stock", domain.ErrInvalidStock.Error())
	}
	if r.Status != "" && !domain.ProductStatus(r.Status).Valid() {
		errs.Add("status", "status must be draft or published")
	}
	return errs.OrNil()
}

// UpdateProductRequest represents a partial product update.
// An empty categoryId detaches the product from its category.
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  *string          `json:"categoryId"`
	Status      *string          `json:"status"`
}

// Validate validates the UpdateProductRequest
func (r *UpdateProductRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if r.Name != nil && domain.Slugify(*r.Name) == "" {
		errs.Add("name", "name must contain a letter or digit")
	}
	if r.Price != nil && r.Price.IsNegative() {
		errs.Add("price", domain.ErrInvalidPrice.Error())
	}
	if r.Stock != nil && *r.Stock < 0 {
		errs.Add("stock", domain.ErrInvalidStock.Error())
	}
	if r.Status != nil && !domain.ProductStatus(*r.Status).Valid() {
		errs.Add("status", "status must be draft or published")
	}
	return errs.OrNil()
}

// ProductResponse represents a product
type ProductResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Price       string         `json:"price"`
	Stock       int            `json:"stock"`
	CategoryID  *string        `json:"categoryId"`
	Images      []domain.Image `json:"images"`
	Status      string         `json:"status"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

// NewProductResponse converts a domain product
func NewProductResponse(p *domain.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	images := p.Images
	if images == nil {
		images = []domain.Image{}
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Images:      images,
		Status:      string(p.Status),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

// NewProductResponses converts a slice of domain products
func NewProductResponses(products []*domain.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}

// ProductListFilter represents filters for listing products
type ProductListFilter struct {
	Pagination
	Category string `form:"category"`
	Search   string `form:"search"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	Status   string `form:"status"`
	Sort     string `form:"sort"`

	minPrice *decimal.Decimal
	maxPrice *decimal.Decimal
}

// SetDefaults sets default values for pagination and sort
func (f *ProductListFilter) SetDefaults() {
	f.Pagination.SetDefaults()
	if f.Sort == "" {
		f.Sort = repository.SortNewest
	}
}

// Validate parses the price bounds and checks enumerations
func (f *ProductListFilter) Validate() FieldErrors {
	errs := FieldErrors{}
	f.minPrice = parsePrice(errs, "minPrice", f.MinPrice)
	f.maxPrice = parsePrice(errs, "maxPrice", f.MaxPrice)
	if f.minPrice != nil && f.maxPrice != nil && f.maxPrice.LessThan(*f.minPrice) {
		errs.Add("maxPrice", "maxPrice must not be below minPrice")
	}
	if f.Status != "" && !domain.ProductStatus(f.Status).Valid() {
		errs.Add("status", "status must be draft or published")
	}
	if f.Sort != "" && !repository.ValidSort(f.Sort) {
		errs.Add("sort", "sort must be one of newest, oldest, price_asc, price_desc, name")
	}
	return errs.OrNil()
}

// ToRepository converts the filter; Validate must have been called
func (f *ProductListFilter) ToRepository() *repository.ProductFilter {
	return &repository.ProductFilter{
		CategoryID: f.Category,
		Search:     strings.TrimSpace(f.Search),
		MinPrice:   f.minPrice,
		MaxPrice:   f.maxPrice,
		Status:     domain.ProductStatus(f.Status),
		Sort:       f.Sort,
		Limit:      f.Limit,
		Offset:     f.Offset(),
	}
}

func parsePrice(errs FieldErrors, field, raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs.Add(field, field+" must be a number")
		return nil
	}
	if d.IsNegative() {
		errs.Add(field, field+" cannot be negative")
		return nil
	}
	return &d
}
