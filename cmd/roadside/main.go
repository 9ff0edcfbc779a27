package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rajasatyajit/roadside/config"
	"github.com/rajasatyajit/roadside/internal/api"
	"github.com/rajasatyajit/roadside/internal/behavior"
	"github.com/rajasatyajit/roadside/internal/catalog"
	"github.com/rajasatyajit/roadside/internal/classifier"
	"github.com/rajasatyajit/roadside/internal/database"
	"github.com/rajasatyajit/roadside/internal/dispatch"
	"github.com/rajasatyajit/roadside/internal/locator"
	"github.com/rajasatyajit/roadside/internal/logger"
	"github.com/rajasatyajit/roadside/internal/metrics"
	middlewares "github.com/rajasatyajit/roadside/internal/middleware"
	"github.com/rajasatyajit/roadside/internal/models"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const dbMetricsInterval = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting roadside assistance API",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)

	metrics.Init(cfg.Metrics.Enabled)
	if cfg.Metrics.Enabled {
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()
	go db.CollectMetrics(ctx, dbMetricsInterval)

	cat, err := loadCatalog(ctx, cfg.Catalog, db)
	if err != nil {
		logger.Fatal("Failed to load catalog", "error", err)
	}

	loc, err := locator.New(cat)
	if err != nil {
		logger.Fatal("Catalog cannot serve dispatch", "error", err)
	}
	centers, mechanics := loc.Stats()
	logger.Info("Catalog loaded", "centers", centers, "mechanics", mechanics)

	checks := map[string]api.HealthCheck{
		"catalog": func(context.Context) error { return locator.Validate(cat) },
	}
	if db.IsConfigured() {
		checks["database"] = db.Health
	}

	// Behavior tracking is optional; without Redis only caller-supplied counters are used
	var tracker *behavior.Tracker
	if cfg.Redis.URL != "" {
		tracker, err = behavior.NewTracker(cfg.Redis.URL)
		if err != nil {
			logger.Warn("Behavior tracking disabled", "error", err)
			tracker = nil
		} else {
			defer tracker.Close()
			checks["redis"] = tracker.Ping
		}
	}

	issueClassifier := classifier.NewResilient(
		classifier.NewLLM(classifier.NewGemini(cfg.Classifier)),
		classifier.New(),
		cfg.Classifier,
	)

	var svc *dispatch.Service
	var behaviorTracker api.BehaviorTracker
	if tracker != nil {
		svc = dispatch.New(issueClassifier, loc, tracker)
		behaviorTracker = tracker
	} else {
		svc = dispatch.New(issueClassifier, loc, nil)
	}

	apiHandler := api.NewHandler(svc, behaviorTracker, checks, Version, BuildTime, GitCommit)
	r := newRouter(cfg.Server, cfg.CORS, apiHandler)

	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// loadCatalog reads the catalog from the configured source. With Postgres the
// schema is created first and, when requested, seeded from the file or embedded catalog.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig, db catalog.Database) (models.Catalog, error) {
	src := catalog.New(db, cfg.Path)

	if pg, ok := src.(*catalog.PostgresSource); ok {
		if err := pg.EnsureSchema(ctx); err != nil {
			return models.Catalog{}, err
		}
		if cfg.Seed {
			seed, err := catalog.New(nil, cfg.Path).Load(ctx)
			if err != nil {
				return models.Catalog{}, fmt.Errorf("load seed catalog: %w", err)
			}
			if err := pg.Seed(ctx, seed); err != nil {
				return models.Catalog{}, err
			}
			logger.Info("Catalog seeded", "centers", len(seed.Centers), "mechanics", len(seed.Mechanics))
		}
	}

	cat, err := src.Load(ctx)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("load catalog from %s: %w", src.Name(), err)
	}
	return cat, nil
}

func newRouter(server config.ServerConfig, cors config.CORSConfig, h *api.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.Logging)
	r.Use(middlewares.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(server.RequestTimeout))
	r.Use(middlewares.Security)
	r.Use(middlewares.CORS(cors.AllowedOrigins))
	r.Use(middlewares.RateLimit(server.RateLimitPerMinute))

	h.RegisterRoutes(r)
	return r
}

func startMetricsServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Starting metrics server", "address", addr, "path", path)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", "error", err)
	}
}
