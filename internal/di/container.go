package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/handler"
	"github.com/Amen1235f/ecommerce-cms/internal/ratelimit"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
	"github.com/Amen1235f/ecommerce-cms/internal/service"
	"github.com/Amen1235f/ecommerce-cms/internal/storage"
	"github.com/Amen1235f/ecommerce-cms/pkg/config"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
)

// Container holds all dependencies for the CMS API
type Container struct {
	// Infrastructure
	Infra   *Infrastructure
	Limiter ratelimit.Limiter
	Images  storage.ImageStore

	// Repositories
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	StatsRepo    repository.StatsRepository

	// Auth
	Tokens   *auth.TokenIssuer
	Verifier *auth.Verifier

	// Services
	AuthService     service.AuthService
	UserService     service.UserService
	CategoryService service.CategoryService
	ProductService  service.ProductService
	StatsService    service.StatsService

	// Handlers
	HealthHandler   *handler.HealthHandler
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	CategoryHandler *handler.CategoryHandler
	ProductHandler  *handler.ProductHandler
	StatsHandler    *handler.StatsHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config *config.Config
	Infra  *Infrastructure
	Logger *logger.Logger

	// Overrides; nil means build from Config
	Limiter ratelimit.Limiter
	Images  storage.ImageStore
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *ContainerConfig) (*Container, error) {
	appCfg := cfg.Config
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	c := &Container{
		Infra:   cfg.Infra,
		Limiter: cfg.Limiter,
		Images:  cfg.Images,
	}

	// Initialize repositories
	switch {
	case c.Infra.Mongo != nil:
		db := c.Infra.Mongo.Database()
		c.UserRepo = repository.NewMongoUserRepository(db)
		c.CategoryRepo = repository.NewMongoCategoryRepository(db)
		c.ProductRepo = repository.NewMongoProductRepository(db)
		c.StatsRepo = repository.NewMongoStatsRepository(db)
	case c.Infra.Postgres != nil:
		pool := c.Infra.Postgres.Pool()
		c.UserRepo = repository.NewPostgresUserRepository(pool)
		c.CategoryRepo = repository.NewPostgresCategoryRepository(pool)
		c.ProductRepo = repository.NewPostgresProductRepository(pool)
		c.StatsRepo = repository.NewPostgresStatsRepository(pool)
	default:
		return nil, errors.New("di: no store connection")
	}

	limiterCfg := ratelimit.Config{
		MaxAttempts: appCfg.RateLimit.MaxAttempts,
		Window:      appCfg.RateLimit.Window,
	}
	if c.Infra.Redis != nil {
		c.StatsRepo = repository.NewCachedStatsRepository(c.StatsRepo, c.Infra.Redis, appCfg.Stats.CacheTTL, log)
		if c.Limiter == nil {
			c.Limiter = ratelimit.NewRedisLimiter(c.Infra.Redis, limiterCfg)
		}
	}
	if c.Limiter == nil {
		c.Limiter = ratelimit.NewMemoryLimiter(limiterCfg)
	}

	// Initialize auth
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:   appCfg.JWT.Secret,
		Issuer:   appCfg.JWT.Issuer,
		Audience: appCfg.JWT.Audience,
	})
	if err != nil {
		return nil, err
	}
	c.Tokens = tokens
	c.Verifier = auth.NewVerifier(tokens, c.UserRepo, log)

	// Initialize image storage
	if c.Images == nil {
		images, err := storage.New(ctx, appCfg)
		if err != nil {
			return nil, fmt.Errorf("image storage: %w", err)
		}
		c.Images = images
	}
	processor := storage.NewProcessor(appCfg.Upload.MaxBytes, appCfg.Upload.ImageMaxWidth, appCfg.Upload.ImageMaxPixels, appCfg.Upload.ImageJPEGQuality)
	uploader := storage.NewUploader(c.Images, processor)

	// Initialize services
	c.AuthService = service.NewAuthService(c.UserRepo, tokens, c.Limiter, nil, log)
	c.UserService = service.NewUserService(c.UserRepo, 0)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(
		c.ProductRepo,
		c.CategoryRepo,
		uploader,
		&service.ProductServiceConfig{MaxImages: appCfg.Upload.MaxFiles},
		log,
	)
	c.StatsService = service.NewStatsService(c.StatsRepo, &service.StatsServiceConfig{
		LowStockThreshold: appCfg.Stats.LowStockThreshold,
	})

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(appCfg.App.Name, c.pingers())
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, log)
	c.UserHandler = handler.NewUserHandler(c.UserService, log)
	c.CategoryHandler = handler.NewCategoryHandler(c.CategoryService, log)
	c.ProductHandler = handler.NewProductHandler(c.ProductService, handler.UploadLimits{
		MaxFiles: appCfg.Upload.MaxFiles,
		MaxBytes: processor.MaxBytes(),
	}, log)
	c.StatsHandler = handler.NewStatsHandler(c.StatsService, log)

	return c, nil
}

func (c *Container) pingers() map[string]handler.Pinger {
	deps := make(map[string]handler.Pinger)
	if c.Infra.Postgres != nil {
		deps["database"] = c.Infra.Postgres
	}
	if c.Infra.Mongo != nil {
		deps["mongodb"] = c.Infra.Mongo
	}
	if c.Infra.Redis != nil {
		deps["redis"] = c.Infra.Redis
	}
	return deps
}

// Close stops background work and releases connections
func (c *Container) Close(ctx context.Context) {
	if ml, ok := c.Limiter.(*ratelimit.MemoryLimiter); ok {
		_ = ml.Close()
	}
	c.Infra.Close(ctx)
}
