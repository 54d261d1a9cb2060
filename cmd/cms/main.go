package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Amen1235f/ecommerce-cms/internal/di"
	"github.com/Amen1235f/ecommerce-cms/pkg/config"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "cms"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "E-commerce CMS API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a .env file")

	cmd.AddCommand(serveCmd(&configPath), migrateCmd(&configPath), createAdminCmd(&configPath))
	return cmd
}

func serveCmd(configPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return serve(cmd.Context(), cfg, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply migrations before serving")
	return cmd
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations (Postgres) or create indexes (MongoDB)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			appLog := logger.Get()
			infra, err := di.OpenInfrastructure(ctx, cfg, appLog)
			if err != nil {
				return err
			}
			defer infra.Close(context.Background())

			if err := infra.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			appLog.Info("Migrations applied", zap.String("store", cfg.Store.Driver))
			return nil
		},
	}
}

func createAdminCmd(configPath *string) *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the first admin account, or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			appLog := logger.Get()
			infra, err := di.OpenInfrastructure(ctx, cfg, appLog)
			if err != nil {
				return err
			}

			container, err := di.NewContainer(ctx, &di.ContainerConfig{Config: cfg, Infra: infra, Logger: appLog})
			if err != nil {
				infra.Close(context.Background())
				return err
			}
			defer container.Close(context.Background())

			user, created, err := container.UserService.BootstrapAdmin(ctx, name, email, password)
			if err != nil {
				return err
			}
			if created {
				appLog.Info("Admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
			} else {
				appLog.Info("Existing user promoted to admin", zap.String("user_id", user.ID), zap.String("email", user.Email))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&name, "name", "Administrator", "Admin display name")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// setup loads and validates configuration and initializes the global logger
func setup(configPath string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadWithPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
