package repository

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoDB collection names
const (
	usersCollection      = "users"
	categoriesCollection = "categories"
	productsCollection   = "products"
)

// EnsureMongoIndexes creates the unique and lookup indexes the repositories rely on
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_email")},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		categoriesCollection: {
			{Keys: bson.D{{Key: "name_lower", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_name_lower")},
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_slug")},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName("uniq_slug")},
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// containsRegex matches search anywhere in a field, ignoring case
func containsRegex(search string) bson.Regex {
	return bson.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
}

// pageOptions builds find options for a sorted page
func pageOptions(sort bson.D, limit, offset int) *options.FindOptionsBuilder {
	opts := options.Find().SetSort(sort).SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}
