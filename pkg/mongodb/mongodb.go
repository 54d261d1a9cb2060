package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/Amen1235f/ecommerce-cms/pkg/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Config holds MongoDB connection configuration
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64

	MaxRetries    int
	RetryInterval time.Duration
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig() *Config {
	return &Config{
		URI:            "mongodb://localhost:27017",
		Database:       "ecommerce_cms",
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    50,
		MaxRetries:     3,
		RetryInterval:  2 * time.Second,
	}
}

// ConfigFrom maps application config onto client settings
func ConfigFrom(mc config.MongoDBConfig) *Config {
	cfg := DefaultConfig()
	cfg.URI = mc.URI
	cfg.Database = mc.Database
	if mc.ConnectTimeout > 0 {
		cfg.ConnectTimeout = mc.ConnectTimeout
	}
	return cfg
}

// DB wraps a connected client and its database handle
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client and pings the primary, retrying on failure
func Connect(ctx context.Context, cfg *Config) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				_ = client.Disconnect(context.Background())
				return nil, ctx.Err()
			case <-time.After(cfg.RetryInterval):
			}
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		lastErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if lastErr == nil {
			return &DB{client: client, db: client.Database(cfg.Database)}, nil
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("failed to connect to mongodb after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

// Database returns the application database
func (d *DB) Database() *mongo.Database {
	return d.db
}

// Collection returns a collection handle by name
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Ping checks the primary is reachable
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
