package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/config"
	"github.com/alex-user-go/travel/internal/geo"
	"github.com/alex-user-go/travel/internal/handler"
	"github.com/alex-user-go/travel/internal/logger"
	"github.com/alex-user-go/travel/internal/middleware"
	"github.com/alex-user-go/travel/internal/obs"
	"github.com/alex-user-go/travel/internal/providers"
	"github.com/alex-user-go/travel/internal/search"
	"github.com/alex-user-go/travel/internal/search/cache"
	"github.com/alex-user-go/travel/internal/search/ratelimit"
)

// App holds the wired components of the service.
type App struct {
	logger  *zap.Logger
	router  *gin.Engine
	cache   *cache.Cache
	limiter *ratelimit.Limiter
}

// Run loads the configuration, serves HTTP and blocks until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	a, err := New(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.Handler(),
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Duration(cfg.Server.IdleTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
		return err
	}

	log.Info("server stopped")
	return nil
}

// New wires every component from cfg.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := obs.NewMetrics(reg)

	var distancer providers.Distancer
	if cfg.Maps.APIKey != "" {
		routes, err := geo.NewRouteService(cfg.Maps.APIKey, cfg.Maps.BaseURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create route service: %w", err)
		}
		distancer = routes
	}

	registry, err := buildRegistry(cfg.Providers, distancer, log, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider registry: %w", err)
	}
	log.Info("providers registered",
		zap.Int("travel", len(registry.Travel())),
		zap.Int("cabs", len(registry.Cabs())),
		zap.Bool("distance_lookup", distancer != nil),
	)

	aggregator := search.NewAggregator(
		registry,
		config.Duration(cfg.Search.Timeout),
		cfg.Search.BestDealsLimit,
		metrics,
		log,
	)

	store, err := newStore(ctx, cfg.Redis, log)
	if err != nil {
		return nil, err
	}
	searchCache := cache.New(store, time.Duration(cfg.Search.CacheTTLSeconds)*time.Second, log)

	limiter := ratelimit.New(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)

	h := handler.New(aggregator, searchCache, limiter, metrics, log)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		middleware.Logging(log),
		middleware.Recovery(log),
		middleware.Metrics(metrics),
	)
	router.GET("/healthz", obs.HealthHandler())
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	h.Register(router)

	return &App{
		logger:  log,
		router:  router,
		cache:   searchCache,
		limiter: limiter,
	}, nil
}

func newStore(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (cache.Store, error) {
	if !cfg.Enabled {
		return cache.NewMemoryStore(time.Minute), nil
	}

	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("using redis result cache", zap.String("address", cfg.Address))
	return cache.NewRedisStore(client, "travel:"), nil
}

// Handler returns the HTTP handler of the service.
func (a *App) Handler() http.Handler {
	return a.router
}

// Close releases the cache and stops background workers.
func (a *App) Close() {
	a.limiter.Close()
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("cache close failed", zap.Error(err))
	}
}
