package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, slug, description, price::text, stock, category_id, images, status, created_by, created_at, updated_at`

// productOrderBy maps a sort key onto an ORDER BY clause
var productOrderBy = map[string]string{
	SortNewest:    "created_at DESC, id",
	SortOldest:    "created_at ASC, id",
	SortPriceAsc:  "price ASC, id",
	SortPriceDesc: "price DESC, id",
	SortName:      "name ASC, id",
}

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProductRepository creates a new PostgresProductRepository
func NewPostgresProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

// Create creates a new product
func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	images, err := marshalImages(product.Images)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, slug, description, price, stock, category_id, images, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price.String(),
		product.Stock,
		product.CategoryID,
		images,
		string(product.Status),
		product.CreatedBy,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a product by ID
func (r *PostgresProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	product, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

// Update updates a product
func (r *PostgresProductRepository) Update(ctx context.Context, product *domain.Product) error {
	images, err := marshalImages(product.Images)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5::numeric, stock = $6,
			category_id = $7, images = $8, status = $9, updated_at = $10
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price.String(),
		product.Stock,
		product.CategoryID,
		images,
		string(product.Status),
		product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Delete removes a product
func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrProductNotFound
	}
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List retrieves products with filter
func (r *PostgresProductRepository) List(ctx context.Context, filter *ProductFilter) ([]*domain.Product, int64, error) {
	if filter == nil {
		filter = &ProductFilter{}
	}

	var conditions []string
	var args []any
	argIndex := 1

	if filter.CategoryID != "" {
		if !validID(filter.CategoryID) {
			return []*domain.Product{}, 0, nil
		}
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argIndex))
		args = append(args, filter.CategoryID)
		argIndex++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(filter.Status))
		argIndex++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex))
		args = append(args, likePattern(filter.Search))
		argIndex++
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d::numeric", argIndex))
		args = append(args, filter.MinPrice.String())
		argIndex++
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d::numeric", argIndex))
		args = append(args, filter.MaxPrice.String())
		argIndex++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM products "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	orderBy, ok := productOrderBy[filter.Sort]
	if !ok {
		orderBy = productOrderBy[SortNewest]
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, where, orderBy, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0, filter.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// SlugExists checks if a slug is already taken
func (r *PostgresProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// CountByCategory returns the number of products in a category
func (r *PostgresProductRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	if !validID(categoryID) {
		return 0, nil
	}
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}

func marshalImages(images []domain.Image) ([]byte, error) {
	if images == nil {
		images = []domain.Image{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}
	return b, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	product := &domain.Product{}
	var price, status string
	var images []byte
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&price,
		&product.Stock,
		&product.CategoryID,
		&images,
		&status,
		&product.CreatedBy,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if product.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", price, err)
	}
	product.Status = domain.ProductStatus(status)

	product.Images = []domain.Image{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &product.Images); err != nil {
			return nil, fmt.Errorf("invalid images: %w", err)
		}
	}
	return product, nil
}
