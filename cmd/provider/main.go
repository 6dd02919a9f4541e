// Command provider runs a mock travel vendor for local development. The
// vendor is picked by PROVIDER_TYPE and speaks that vendor's wire format.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/logger"
	"github.com/alex-user-go/travel/internal/middleware"
	"github.com/alex-user-go/travel/internal/obs"
)

type vendor interface {
	register(r gin.IRouter)
}

var vendors = map[string]vendor{
	"makemytrip": makeMyTrip{},
	"cleartrip":  cleartrip{},
	"easemytrip": easeMyTrip{},
	"indigo":     indigo{},
	"riya":       riya{},
	"savaari":    savaari{},
}

func main() {
	log, err := logger.New(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "console"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	providerType := getEnv("PROVIDER_TYPE", "makemytrip")
	sim := simulator{
		minLatency:  time.Duration(getEnvInt("MIN_LATENCY_MS", 50)) * time.Millisecond,
		maxLatency:  time.Duration(getEnvInt("MAX_LATENCY_MS", 300)) * time.Millisecond,
		failureRate: getEnvFloat("FAILURE_RATE", 0.1),
	}

	router, err := newRouter(providerType, sim, log)
	if err != nil {
		log.Fatal("cannot start provider", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + getEnv("PORT", "9001"),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("provider listening",
			zap.String("type", providerType),
			zap.String("addr", srv.Addr),
			zap.Float64("failure_rate", sim.failureRate),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down provider")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
		return
	}
	log.Info("provider stopped")
}

// newRouter builds the HTTP surface of one mock vendor. /healthz bypasses
// the simulated latency and failures.
func newRouter(providerType string, sim simulator, log *zap.Logger) (*gin.Engine, error) {
	v, ok := vendors[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider type %q", providerType)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(log), middleware.Recovery(log))
	r.GET("/healthz", obs.HealthHandler())

	v.register(r.Group("", sim.middleware()))
	return r, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}
