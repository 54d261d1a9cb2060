package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/di"
	"github.com/Amen1235f/ecommerce-cms/pkg/config"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/middleware"
	"github.com/Amen1235f/ecommerce-cms/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	appLog := logger.Get()
	appLog.Info("Starting CMS API...", zap.String("version", cfg.App.Version))

	// Initialize telemetry
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn("Telemetry disabled", zap.Error(err))
	}

	infra, err := di.OpenInfrastructure(ctx, cfg, appLog)
	if err != nil {
		return err
	}
	if migrate {
		if err := infra.Migrate(ctx); err != nil {
			infra.Close(context.Background())
			return fmt.Errorf("migrate: %w", err)
		}
		appLog.Info("Migrations applied", zap.String("store", cfg.Store.Driver))
	}

	container, err := di.NewContainer(ctx, &di.ContainerConfig{Config: cfg, Infra: infra, Logger: appLog})
	if err != nil {
		infra.Close(context.Background())
		return err
	}
	defer container.Close(context.Background())

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := newRouter(container, cfg, appLog)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("CMS API listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	}
	appLog.Info("Shutting down server...")

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		appLog.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
	return nil
}

func newRouter(c *di.Container, cfg *config.Config, log *logger.Logger) (*gin.Engine, error) {
	router := gin.New()
	// ClientIP keys the login limiter, so forwarded headers count only from known proxies
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid SERVER_TRUSTED_PROXIES: %w", err)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(telemetry.TracingMiddleware(telemetry.WithSkipPaths("/health", "/ready")))
	router.Use(middleware.Logger(log, "/health", "/ready"))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Health check endpoints
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	if cfg.Storage.Driver == config.StorageDriverLocal {
		router.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalDir)
	}

	requireAuth := auth.RequireAuth(c.Verifier)
	requireAdmin := auth.RequireAdmin()

	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", c.AuthHandler.Register)
			authRoutes.POST("/login", c.AuthHandler.Login)
			authRoutes.GET("/me", requireAuth, c.AuthHandler.Me)
		}

		users := v1.Group("/users", requireAuth, auth.RequireOwnerOrAdmin("id"))
		{
			users.GET("/:id", c.UserHandler.Get)
			users.PATCH("/:id", c.UserHandler.Update)
		}

		admin := v1.Group("/admin", requireAuth, requireAdmin)
		{
			admin.GET("/users", c.UserHandler.List)
			admin.PATCH("/users/:id/role", c.UserHandler.UpdateRole)
			admin.PATCH("/users/:id/status", c.UserHandler.UpdateStatus)
			admin.GET("/stats", c.StatsHandler.Dashboard)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", c.CategoryHandler.List)
			categories.GET("/:id", c.CategoryHandler.Get)
			categories.POST("", requireAuth, requireAdmin, c.CategoryHandler.Create)
			categories.PUT("/:id", requireAuth, requireAdmin, c.CategoryHandler.Update)
			categories.DELETE("/:id", requireAuth, requireAdmin, c.CategoryHandler.Delete)
		}

		products := v1.Group("/products")
		{
			optionalAuth := auth.OptionalAuth(c.Verifier)
			products.GET("", optionalAuth, c.ProductHandler.List)
			products.GET("/:id", optionalAuth, c.ProductHandler.Get)
			products.POST("", requireAuth, requireAdmin, c.ProductHandler.Create)
			products.PUT("/:id", requireAuth, requireAdmin, c.ProductHandler.Update)
			products.POST("/:id/images", requireAuth, requireAdmin, c.ProductHandler.AddImages)
			products.DELETE("/:id/images/*key", requireAuth, requireAdmin, c.ProductHandler.RemoveImage)
			products.DELETE("/:id", requireAuth, requireAdmin, c.ProductHandler.Delete)
		}
	}

	return router, nil
}
