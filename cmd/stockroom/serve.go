package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	specpkg "github.com/daap14/stockroom/api"
	"github.com/daap14/stockroom/internal/api"
	"github.com/daap14/stockroom/internal/api/handler"
	"github.com/daap14/stockroom/internal/auth"
	"github.com/daap14/stockroom/internal/config"
	"github.com/daap14/stockroom/internal/introspect"
	"github.com/daap14/stockroom/internal/metrics"
	"github.com/daap14/stockroom/internal/product"
	"github.com/daap14/stockroom/internal/user"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	st, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.StorageDriver, err)
	}
	defer st.close()

	productService := product.NewService(st.products)
	if cfg.SeedOnStart {
		if _, err := productService.Seed(ctx); err != nil {
			return err
		}
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	m, err := metrics.New(nil)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	openAPI, err := handler.NewOpenAPIHandler(specpkg.OpenAPISpec)
	if err != nil {
		return fmt.Errorf("loading OpenAPI document: %w", err)
	}

	introspector := introspect.NewClient(introspect.Config{
		URL:          cfg.Keycloak.IntrospectionURL(),
		ClientID:     cfg.Keycloak.ClientID,
		ClientSecret: cfg.Keycloak.ClientSecret,
		Timeout:      cfg.IntrospectionTimeout,
		Rate:         cfg.IntrospectionRate,
		Burst:        cfg.IntrospectionBurst,
	}, m)

	router := api.NewRouter(api.RouterDeps{
		Verifier:       verifier,
		ClientID:       cfg.Keycloak.ClientID,
		ProductService: productService,
		UserService:    user.NewService(st.users, m),
		Introspector:   introspector,
		DBPinger:       st.pinger,
		StorageDriver:  cfg.StorageDriver,
		Version:        cfg.Version,
		AllowedOrigins: strings.Split(cfg.CORSAllowedOrigin, ","),
		OpenAPI:        openAPI,
		Metrics:        m,
		MetricsHandler: m.Handler(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting stockroom server",
			"port", cfg.Port,
			"version", cfg.Version,
			"storage", cfg.StorageDriver,
			"authMode", cfg.AuthMode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newVerifier selects token verification by AUTH_MODE: the realm's published
// keys, or a shared HS256 secret for local runs without Keycloak.
func newVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	if cfg.AuthMode == "hs256" {
		slog.Warn("using shared-secret token verification; not for production")
		v, err := auth.NewHS256Verifier(cfg.AuthHS256Secret, "")
		if err != nil {
			return nil, fmt.Errorf("creating token verifier: %w", err)
		}
		return v, nil
	}
	return auth.NewOIDCVerifier(ctx, cfg.Keycloak.IssuerURL(), cfg.Keycloak.JWKSURL()), nil
}
