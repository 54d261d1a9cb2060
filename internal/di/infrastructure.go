package di

import (
	"context"
	"fmt"

	"github.com/Amen1235f/ecommerce-cms/internal/migrations"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
	"github.com/Amen1235f/ecommerce-cms/pkg/config"
	"github.com/Amen1235f/ecommerce-cms/pkg/database"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/mongodb"
	"github.com/Amen1235f/ecommerce-cms/pkg/redis"
	"go.uber.org/zap"
)

// Infrastructure holds the open connections; exactly one of Postgres and Mongo is set
type Infrastructure struct {
	Postgres *database.PostgresDB
	Mongo    *mongodb.DB
	Redis    *redis.Client
}

// OpenInfrastructure connects to the store selected by STORE_DRIVER and, when enabled, Redis
func OpenInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{}

	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		db, err := mongodb.Connect(ctx, mongodb.ConfigFrom(cfg.MongoDB))
		if err != nil {
			return nil, fmt.Errorf("mongodb: %w", err)
		}
		infra.Mongo = db
		log.Info("MongoDB connected", zap.String("database", cfg.MongoDB.Database))
	default:
		pgCfg := database.PostgresConfigFrom(cfg.Database, cfg.OTel.Enabled)
		db, err := database.NewPostgres(ctx, pgCfg)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		infra.Postgres = db
		log.Info("Database connected",
			zap.Int32("min_conns", pgCfg.MinConns),
			zap.Int32("max_conns", pgCfg.MaxConns),
		)
	}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, redis.ConfigFrom(cfg.Redis))
		if err != nil {
			infra.Close(ctx)
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.Redis = client
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	return infra, nil
}

// Migrate applies the Postgres schema, or creates the Mongo indexes
func (i *Infrastructure) Migrate(ctx context.Context) error {
	if i.Mongo != nil {
		return repository.EnsureMongoIndexes(ctx, i.Mongo.Database())
	}
	return database.Migrate(ctx, i.Postgres.DSN(), migrations.Migrations)
}

// Close releases every open connection
func (i *Infrastructure) Close(ctx context.Context) {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.Mongo != nil {
		_ = i.Mongo.Close(ctx)
	}
	if i.Postgres != nil {
		i.Postgres.Close()
	}
}
