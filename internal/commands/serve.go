package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/okian/kundali/internal/adapters/cache"
	"github.com/okian/kundali/internal/adapters/http/api"
	"github.com/okian/kundali/internal/adapters/http/swagger"
	"github.com/okian/kundali/internal/adapters/repository"
	app "github.com/okian/kundali/internal/app"
	"github.com/okian/kundali/internal/config"
	"github.com/okian/kundali/internal/domain/types"
	"github.com/okian/kundali/pkg/logger"
	"github.com/okian/kundali/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chart computation HTTP server",
	Long: `Start the kundali HTTP server.

Routes:
  POST /v1/charts                   compute and archive a birth chart
  GET  /v1/charts?limit=N           recently computed charts
  GET  /v1/charts/{id}              archived chart by ID
  GET  /v1/charts/{id}/vargas/{d}   divisional chart (d9, D60, ...)
  GET  /v1/charts/{id}/dashas       vimshottari dasha timeline
  GET  /v1/panchanga                lunar-day attributes for a moment
  GET  /healthz                     liveness plus Prometheus metrics
  GET  /stats                       service statistics
  GET  /api-docs                    API reference

The server shuts down gracefully on SIGINT or SIGTERM.

Examples:
  kundali serve                     # Listen on the configured address
  kundali serve --addr :8080        # Override the listen address
  KUNDALI_STORE=sqlite kundali serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := buildService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register the API reference under /api-docs.
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, cfg.MaxRecentLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("%w: %w", api.ErrServe, err)
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// buildService assembles the chart service from configuration: archive
// backend, result cache, eager divisions, and the query limits.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	divisions := make([]types.Division, 0, len(cfg.Divisions))
	for _, factor := range cfg.Divisions {
		d, ok := types.DivisionByFactor(factor)
		if !ok {
			return nil, fmt.Errorf("%w: unknown division factor %d", config.ErrInvalidConfig, factor)
		}
		divisions = append(divisions, d)
	}

	var store repository.Store
	switch cfg.Store {
	case config.StoreSQLite:
		st, err := repository.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite archive: %w", err)
		}
		store = st
	default:
		store = repository.NewMemoryStore(ctx, repository.WithCapacity(cfg.StoreCapacity))
	}

	resultCache := cache.New(ctx, cfg.RedisURL, cache.WithMaxEntries(cfg.CacheMaxEntries))

	return app.New(
		app.WithLogger(log),
		app.WithEphemerisWorkers(cfg.EphemerisWorkers),
		app.WithStore(store),
		app.WithCache(resultCache),
		app.WithCacheTTL(time.Duration(cfg.CacheTTLMinutes)*time.Minute),
		app.WithDivisions(divisions...),
		app.WithDashaHorizon(float64(cfg.DashaHorizonYears)),
		app.WithMaxRecent(cfg.MaxRecentLimit),
	), nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval) // Update every 5 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	// Get current stats from the service
	stats := svc.GetStats()

	// GetStats already refreshes the gauges; re-reading the headline
	// counts here keeps them fresh even when nobody polls /stats.
	if stored, ok := stats["storedCharts"].(int); ok {
		metrics.UpdateStoredCharts(stored)
	}

	if workers, ok := stats["ephemerisWorkers"].(int); ok {
		metrics.UpdateEphemerisWorkers(workers)
	}
}
