// Package main initializes and starts the GophLogin web server, setting up
// configuration, logging, the client storage backend, handlers, and
// optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/GophLogin/internal/config"
	"github.com/atinyakov/GophLogin/internal/db"
	"github.com/atinyakov/GophLogin/internal/logger"
	"github.com/atinyakov/GophLogin/internal/repository"
	"github.com/atinyakov/GophLogin/internal/server/handler/http"
	"github.com/atinyakov/GophLogin/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if err := options.Validate(); err != nil {
		zapLogger.Fatal("invalid configuration", zap.Error(err))
	}
	loc, err := options.Location()
	if err != nil {
		zapLogger.Fatal("invalid time zone", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Select the backend holding each browser's storage partition.
	provider, closeProvider, err := openProvider(ctx, options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init storage", zap.String("backend", options.Storage), zap.Error(err))
	}
	defer closeProvider()

	pages := &http.PageHandler{
		Provider: provider,
		Prefix:   options.Prefix,
		Location: loc,
		Logger:   zapLogger,
	}
	router := http.NewRouter(pages, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if options.TLSCert != "" {
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port), zap.String("storage", options.Storage))
		err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
	} else {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port), zap.String("storage", options.Storage))
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
}

// openProvider builds the configured storage.Provider and a function
// releasing its resources.
func openProvider(ctx context.Context, options *config.Options, log *zap.Logger) (storage.Provider, func(), error) {
	switch options.Storage {
	case config.StoragePostgres:
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		db.StartStaleStorageCleaner(ctx, postgresDB, time.Hour, time.Duration(options.Retention), log)
		return repository.NewPostgresProvider(postgresDB), func() { _ = postgresDB.Close() }, nil
	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{Addr: options.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return repository.NewRedisProvider(rdb, ""), func() { _ = rdb.Close() }, nil
	case config.StorageFile:
		return repository.NewFileProvider(options.DataDir), func() {}, nil
	default:
		return storage.NewMemoryProvider(), func() {}, nil
	}
}
