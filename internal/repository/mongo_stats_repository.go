package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStatsRepository computes dashboard aggregates with aggregation pipelines
type MongoStatsRepository struct {
	users      *mongo.Collection
	categories *mongo.Collection
	products   *mongo.Collection
}

// NewMongoStatsRepository creates a new MongoStatsRepository
func NewMongoStatsRepository(db *mongo.Database) *MongoStatsRepository {
	return &MongoStatsRepository{
		users:      db.Collection(usersCollection),
		categories: db.Collection(categoriesCollection),
		products:   db.Collection(productsCollection),
	}
}

// Dashboard gathers all dashboard numbers
func (r *MongoStatsRepository) Dashboard(ctx context.Context, lowStockThreshold, recentLimit int) (*domain.DashboardStats, error) {
	stats := newDashboardStats(lowStockThreshold)

	// users by status
	cursor, err := r.users.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count users by status: %w", err)
	}
	var statusCounts []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &statusCounts); err != nil {
		return nil, fmt.Errorf("failed to decode user status counts: %w", err)
	}
	for _, sc := range statusCounts {
		stats.UsersByStatus[domain.UserStatus(sc.Status)] = sc.Count
		stats.TotalUsers += sc.Count
	}

	// product totals
	cursor, err = r.products.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "published", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$status", string(domain.ProductStatusPublished)}}}, 1, 0,
			}}}}}},
			{Key: "low_stock", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$lte", Value: bson.A{"$stock", lowStockThreshold}}}, 1, 0,
			}}}}}},
		}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	var productTotals []struct {
		Total     int64 `bson:"total"`
		Published int64 `bson:"published"`
		LowStock  int64 `bson:"low_stock"`
	}
	if err := cursor.All(ctx, &productTotals); err != nil {
		return nil, fmt.Errorf("failed to decode product counts: %w", err)
	}
	if len(productTotals) > 0 {
		stats.TotalProducts = productTotals[0].Total
		stats.PublishedProducts = productTotals[0].Published
		stats.LowStockProducts = productTotals[0].LowStock
	}

	if stats.TotalCategories, err = r.categories.CountDocuments(ctx, bson.D{}); err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	// products per category
	cursor, err = r.categories.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: productsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "category_id"},
			{Key: "as", Value: "products"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "count", Value: bson.D{{Key: "$size", Value: "$products"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "name", Value: 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count products per category: %w", err)
	}
	var perCategory []struct {
		ID    string `bson:"_id"`
		Name  string `bson:"name"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &perCategory); err != nil {
		return nil, fmt.Errorf("failed to decode category counts: %w", err)
	}
	for _, pc := range perCategory {
		stats.ProductsPerCategory = append(stats.ProductsPerCategory, domain.CategoryCount{
			CategoryID:   pc.ID,
			CategoryName: pc.Name,
			Count:        pc.Count,
		})
	}

	// recent users
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(recentLimit))
	cursor, err = r.users.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	var recent []userDocument
	if err := cursor.All(ctx, &recent); err != nil {
		return nil, fmt.Errorf("failed to decode recent users: %w", err)
	}
	for _, u := range recent {
		stats.RecentUsers = append(stats.RecentUsers, domain.RecentUser{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      domain.Role(u.Role),
			Status:    domain.UserStatus(u.Status),
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return stats, nil
}
