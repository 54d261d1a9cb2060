package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type categoryDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	NameLower   string    `bson:"name_lower"`
	Slug        string    `bson:"slug"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newCategoryDocument(c *domain.Category) *categoryDocument {
	return &categoryDocument{
		ID:          c.ID,
		Name:        c.Name,
		NameLower:   strings.ToLower(c.Name),
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.UTC(),
		UpdatedAt:   c.UpdatedAt.UTC(),
	}
}

func (d *categoryDocument) toDomain() *domain.Category {
	return &domain.Category{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoCategoryRepository implements CategoryRepository using MongoDB
type MongoCategoryRepository struct {
	coll     *mongo.Collection
	products *mongo.Collection
}

// NewMongoCategoryRepository creates a new MongoCategoryRepository
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{
		coll:     db.Collection(categoriesCollection),
		products: db.Collection(productsCollection),
	}
}

// Create creates a new category
func (r *MongoCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if _, err := r.coll.InsertOne(ctx, newCategoryDocument(category)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCategoryExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// FindByID retrieves a category by ID
func (r *MongoCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// FindByName retrieves a category by name, ignoring case
func (r *MongoCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOne(ctx, bson.D{{Key: "name_lower", Value: strings.ToLower(name)}})
}

func (r *MongoCategoryRepository) findOne(ctx context.Context, filter bson.D) (*domain.Category, error) {
	var doc categoryDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// SlugExists checks if a slug is already taken
func (r *MongoCategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.D{{Key: "slug", Value: slug}})
	return count > 0, err
}

// Update updates a category
func (r *MongoCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	doc := newCategoryDocument(category)
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "name_lower", Value: doc.NameLower},
		{Key: "slug", Value: doc.Slug},
		{Key: "description", Value: doc.Description},
		{Key: "updated_at", Value: doc.UpdatedAt},
	}}}

	result, err := r.coll.UpdateByID(ctx, category.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCategoryExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category that no product references
func (r *MongoCategoryRepository) Delete(ctx context.Context, id string) error {
	inUse, err := r.products.CountDocuments(ctx, bson.D{{Key: "category_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if inUse > 0 {
		return domain.ErrCategoryInUse
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// List retrieves categories ordered by name
func (r *MongoCategoryRepository) List(ctx context.Context, filter *CategoryFilter) ([]*domain.Category, int64, error) {
	if filter == nil {
		filter = &CategoryFilter{}
	}

	query := bson.D{}
	if filter.Search != "" {
		re := containsRegex(filter.Search)
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: re}},
			bson.D{{Key: "description", Value: re}},
		}})
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	sort := bson.D{{Key: "name_lower", Value: 1}}
	cursor, err := r.coll.Find(ctx, query, pageOptions(sort, filter.Limit, filter.Offset))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]*domain.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, docs[i].toDomain())
	}
	return categories, total, nil
}
