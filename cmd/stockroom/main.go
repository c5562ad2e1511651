package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/daap14/stockroom/internal/api/handler"
	"github.com/daap14/stockroom/internal/config"
	"github.com/daap14/stockroom/internal/database"
	"github.com/daap14/stockroom/internal/product"
	"github.com/daap14/stockroom/internal/user"
)

func main() {
	root := &cobra.Command{
		Use:           "stockroom",
		Short:         "Product and user API secured by Keycloak",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the JSON logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	setupLogger(cfg.LogLevel)
	return cfg, nil
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(logHandler))
}

// storage bundles the stores of the configured driver.
type storage struct {
	pinger   handler.DBPinger
	products product.Store
	users    user.Store
	close    func()
}

// openStorage connects to the configured driver. Postgres is migrated up first;
// SQLite applies its schema on open.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case "sqlite":
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &storage{
			pinger:   db,
			products: product.NewSQLiteRepository(db.DB()),
			users:    user.NewSQLiteRepository(db.DB()),
			close:    db.Close,
		}, nil
	default:
		if err := database.Migrate(cfg.DatabaseURL, "up"); err != nil {
			return nil, err
		}
		db, err := database.New(ctx, database.PoolConfig{
			URL:            cfg.DatabaseURL,
			MaxConns:       cfg.DBMaxConns,
			ConnectTimeout: cfg.DBConnTimeout,
		})
		if err != nil {
			return nil, err
		}
		return &storage{
			pinger:   db,
			products: product.NewPostgresRepository(db.Pool()),
			users:    user.NewPostgresRepository(db.Pool()),
			close:    db.Close,
		}, nil
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the Postgres schema migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != "postgres" {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=postgres, got %q", cfg.StorageDriver)
			}
			if err := database.Migrate(cfg.DatabaseURL, args[0]); err != nil {
				return err
			}
			slog.Info("migrations applied", "direction", args[0])
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample product catalogue into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStorage(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.close()

			_, err = product.NewService(st.products).Seed(cmd.Context())
			return err
		},
	}
}
