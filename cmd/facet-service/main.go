// cmd/facet-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"marketplace-facets/internal/common/config"
	"marketplace-facets/internal/common/database"
	"marketplace-facets/internal/common/graphql"
	"marketplace-facets/internal/common/logger"
	"marketplace-facets/internal/common/observability"
	"marketplace-facets/internal/facets/cache"
	"marketplace-facets/internal/facets/cascade"
	"marketplace-facets/internal/facets/catalog"
	"marketplace-facets/internal/facets/store"
	"marketplace-facets/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting facet service...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("facet-service")
	defer obs.Shutdown()

	// --- Optional shared snapshot cache (Redis) with retry ---
	var shared cache.SharedStore
	if cfg.Cache.SharedEnabled {
		ctx := context.Background()
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")

		shared = cache.NewRedisStore(redisClient.Client)
	}

	// --- Wire the facet pipeline ---
	gql := graphql.NewClient(
		cfg.GraphQL.Endpoint,
		cfg.GraphQL.AuthHeader,
		config.GetDuration(cfg.GraphQL.Timeout),
		log,
	)
	catalogClient := catalog.NewClient(gql, config.GetDuration(cfg.Cache.AggregationTTL), log)
	facetCache := cache.New(catalogClient, shared, config.GetDuration(cfg.Cache.SchemaTTL), log)
	selector := cascade.NewSelector(catalogClient, config.GetDuration(cfg.Cache.RecomputeTimeout), log)
	registry := store.NewRegistry(facetCache, selector, log)

	app := server.NewApp(server.NewHandler(registry, obs, log))

	// pprof on a side port for debugging
	go func() {
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			zapLog.Warn("pprof server stopped", zap.Error(err))
		}
	}()

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := app.Listen(cfg.Server.Address); err != nil {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down facet service...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Facet service stopped")
}
