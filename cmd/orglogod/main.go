// Command orglogod runs the organization logo service.
// Usage: orglogod --config orglogod.yaml
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philiph/orglogo/internal/adapters/driven/logo"
	"github.com/philiph/orglogo/internal/adapters/driven/logocache"
	"github.com/philiph/orglogo/internal/adapters/driven/metrics"
	"github.com/philiph/orglogo/internal/adapters/driven/orgs"
	"github.com/philiph/orglogo/internal/adapters/driving/httpapi"
	"github.com/philiph/orglogo/internal/core/ports"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "orglogod",
		Short:         "Serve organization logos as embeddable data URIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "orglogod.yaml", "path to the YAML config file")
	return cmd
}

func run(configPath string) error {
	// .env is optional; real environments configure via the config file.
	_ = godotenv.Load()

	cfg, err := httpapi.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	recorder := metrics.NewPrometheusMetricsRecorder()

	store, storeClose, err := buildDirectory(cfg, logger, recorder)
	if err != nil {
		return err
	}
	defer storeClose()

	cache, err := buildCache(cfg, logger)
	if err != nil {
		return err
	}
	defer cache.Close() //nolint:errcheck

	provider := logo.NewCachingProvider(
		logo.WithCache(cache),
		logo.WithFreshFor(cfg.Logo.FreshFor),
		logo.WithHTTPTimeout(cfg.Logo.FetchTimeout),
		logo.WithMaxSize(cfg.Logo.MaxSizeBytes),
		logo.WithMaxDimension(cfg.Logo.MaxDimension),
		logo.WithLogger(logger.Named("logo")),
		logo.WithMetricsRecorder(recorder),
	)
	defer provider.Close() //nolint:errcheck

	server := httpapi.NewServer(store, provider, logger.Named("http"))

	if cfg.AdminListen != "" {
		adminMux := httpapi.NewAdminMux(store)
		go func() {
			logger.Info("admin listener starting", zap.String("addr", cfg.AdminListen))
			if err := http.ListenAndServe(cfg.AdminListen, adminMux); err != nil {
				logger.Error("admin listener failed", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listener starting", zap.String("addr", cfg.Listen))
		errCh <- server.Listen(cfg.Listen)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func buildLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildDirectory wires the organization directory from config and
// performs the initial load. A failing initial URL load is tolerated:
// the store serves an empty directory until a background refresh
// succeeds, and /healthz reports degraded until then.
func buildDirectory(cfg *httpapi.Config, logger *zap.Logger, recorder ports.MetricsRecorder) (ports.OrganizationStore, func(), error) {
	switch cfg.Directory.Source {
	case httpapi.DirectorySourceFile:
		store := orgs.NewFileStore(cfg.Directory.Path,
			orgs.WithIDFilter(cfg.Directory.IDFilter),
			orgs.WithMetricsRecorder(recorder),
		)
		if err := store.Load(); err != nil {
			return nil, nil, fmt.Errorf("load directory: %w", err)
		}
		return store, func() {}, nil

	case httpapi.DirectorySourceURL:
		store := orgs.NewURLStoreWithRefresh(cfg.Directory.URL, cfg.Directory.RefreshInterval,
			orgs.WithIDFilter(cfg.Directory.IDFilter),
			orgs.WithLogger(logger.Named("orgs")),
			orgs.WithMetricsRecorder(recorder),
		)
		if err := store.Load(); err != nil {
			logger.Warn("initial directory load failed, serving empty directory until refresh succeeds",
				zap.String("url", cfg.Directory.URL),
				zap.Error(err),
			)
		}
		return store, func() { _ = store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown directory source %q", cfg.Directory.Source)
	}
}

func buildCache(cfg *httpapi.Config, logger *zap.Logger) (ports.LogoCache, error) {
	switch cfg.Cache.Backend {
	case httpapi.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		cache, err := logocache.NewRedis(logocache.RedisOpts{
			Client:       client,
			ClientCloser: client,
			RetainFor:    cfg.Cache.RetainFor,
			Logger:       logger.Named("rediscache"),
		})
		if err != nil {
			return nil, fmt.Errorf("build redis cache: %w", err)
		}
		return cache, nil

	default:
		return logocache.NewMemory(cfg.Cache.RetainFor), nil
	}
}
