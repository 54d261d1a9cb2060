package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// productSort maps a sort key onto a MongoDB sort document
var productSort = map[string]bson.D{
	SortNewest:    {{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}},
	SortOldest:    {{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	SortPriceAsc:  {{Key: "price", Value: 1}, {Key: "_id", Value: 1}},
	SortPriceDesc: {{Key: "price", Value: -1}, {Key: "_id", Value: 1}},
	SortName:      {{Key: "name", Value: 1}, {Key: "_id", Value: 1}},
}

type imageDocument struct {
	Key         string `bson:"key"`
	URL         string `bson:"url"`
	ContentType string `bson:"content_type"`
	Size        int64  `bson:"size"`
	Width       int    `bson:"width"`
	Height      int    `bson:"height"`
}

type productDocument struct {
	ID          string          `bson:"_id"`
	Name        string          `bson:"name"`
	Slug        string          `bson:"slug"`
	Description string          `bson:"description"`
	Price       bson.Decimal128 `bson:"price"`
	Stock       int             `bson:"stock"`
	CategoryID  *string         `bson:"category_id"`
	Images      []imageDocument `bson:"images"`
	Status      string          `bson:"status"`
	CreatedBy   string          `bson:"created_by"`
	CreatedAt   time.Time       `bson:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at"`
}

func toDecimal128(d decimal.Decimal) (bson.Decimal128, error) {
	v, err := bson.ParseDecimal128(d.String())
	if err != nil {
		return bson.Decimal128{}, fmt.Errorf("invalid price %s: %w", d.String(), err)
	}
	return v, nil
}

func newProductDocument(p *domain.Product) (*productDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return nil, err
	}

	images := make([]imageDocument, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageDocument{
			Key:         img.Key,
			URL:         img.URL,
			ContentType: img.ContentType,
			Size:        img.Size,
			Width:       img.Width,
			Height:      img.Height,
		})
	}

	return &productDocument{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Images:      images,
		Status:      string(p.Status),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}, nil
}

func (d *productDocument) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, fmt.Errorf("invalid price %s: %w", d.Price.String(), err)
	}

	images := make([]domain.Image, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, domain.Image{
			Key:         img.Key,
			URL:         img.URL,
			ContentType: img.ContentType,
			Size:        img.Size,
			Width:       img.Width,
			Height:      img.Height,
		})
	}

	return &domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Price:       price,
		Stock:       d.Stock,
		CategoryID:  d.CategoryID,
		Images:      images,
		Status:      domain.ProductStatus(d.Status),
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// MongoProductRepository implements ProductRepository using MongoDB
type MongoProductRepository struct {
	coll       *mongo.Collection
	categories *mongo.Collection
}

// NewMongoProductRepository creates a new MongoProductRepository
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		coll:       db.Collection(productsCollection),
		categories: db.Collection(categoriesCollection),
	}
}

// categoryExists stands in for the foreign key the relational schema enforces
func (r *MongoProductRepository) categoryExists(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	count, err := r.categories.CountDocuments(ctx, bson.D{{Key: "_id", Value: *id}})
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if count == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Create creates a new product
func (r *MongoProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.categoryExists(ctx, product.CategoryID); err != nil {
		return err
	}
	doc, err := newProductDocument(product)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a product by ID
func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain()
}

// Update updates a product
func (r *MongoProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := r.categoryExists(ctx, product.CategoryID); err != nil {
		return err
	}
	doc, err := newProductDocument(product)
	if err != nil {
		return err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "slug", Value: doc.Slug},
		{Key: "description", Value: doc.Description},
		{Key: "price", Value: doc.Price},
		{Key: "stock", Value: doc.Stock},
		{Key: "category_id", Value: doc.CategoryID},
		{Key: "images", Value: doc.Images},
		{Key: "status", Value: doc.Status},
		{Key: "updated_at", Value: doc.UpdatedAt},
	}}}

	result, err := r.coll.UpdateByID(ctx, product.ID, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Delete removes a product
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List retrieves products with filter
func (r *MongoProductRepository) List(ctx context.Context, filter *ProductFilter) ([]*domain.Product, int64, error) {
	if filter == nil {
		filter = &ProductFilter{}
	}

	query := bson.D{}
	if filter.CategoryID != "" {
		query = append(query, bson.E{Key: "category_id", Value: filter.CategoryID})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: string(filter.Status)})
	}
	if filter.Search != "" {
		re := containsRegex(filter.Search)
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: re}},
			bson.D{{Key: "description", Value: re}},
		}})
	}

	priceRange := bson.D{}
	if filter.MinPrice != nil {
		lo, err := toDecimal128(*filter.MinPrice)
		if err != nil {
			return nil, 0, err
		}
		priceRange = append(priceRange, bson.E{Key: "$gte", Value: lo})
	}
	if filter.MaxPrice != nil {
		hi, err := toDecimal128(*filter.MaxPrice)
		if err != nil {
			return nil, 0, err
		}
		priceRange = append(priceRange, bson.E{Key: "$lte", Value: hi})
	}
	if len(priceRange) > 0 {
		query = append(query, bson.E{Key: "price", Value: priceRange})
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	sort, ok := productSort[filter.Sort]
	if !ok {
		sort = productSort[SortNewest]
	}
	cursor, err := r.coll.Find(ctx, query, pageOptions(sort, filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for i := range docs {
		product, err := docs[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	return products, total, nil
}

// SlugExists checks if a slug is already taken
func (r *MongoProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{{Key: "slug", Value: slug}})
	return count > 0, err
}

// CountByCategory returns the number of products in a category
func (r *MongoProductRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{{Key: "category_id", Value: categoryID}})
}
