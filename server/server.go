package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Scrubline/cache"
	"Scrubline/config"
	"Scrubline/core/auth"
	"Scrubline/core/catalog"
	"Scrubline/core/session"
	"Scrubline/db"
	"Scrubline/logger"
	"Scrubline/repository"
	"Scrubline/storage"
)

// openTimelines builds the configured timeline source. The returned closer
// releases whatever the source holds open.
func openTimelines(cfg *config.Config) (catalog.Source, func(), error) {
	var (
		source  catalog.Source
		closers []func()
	)

	switch cfg.TimelineSource {
	case config.SourceFile:
		files, err := catalog.NewFileSource(cfg.TimelineDir, logger.Named("catalog"))
		if err != nil {
			return nil, nil, err
		}
		if err := files.Watch(); err != nil {
			logger.Warn("timeline directory not watched", logger.ErrorField(err))
		}
		closers = append(closers, func() { files.Close() })
		source = files
	case config.SourceDB:
		if err := db.ConnectGormDB(cfg); err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.CloseGormDB() })
		source = repository.NewGormTrackRepository(db.GormDB)
	case config.SourceMinio:
		client, err := storage.NewMinioClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		source = storage.NewMinioSource(client, cfg.MinioBucket)
	default:
		return nil, nil, fmt.Errorf("unknown timeline source %q", cfg.TimelineSource)
	}

	if cfg.RedisHost != "" {
		if err := db.ConnectRedis(cfg); err != nil {
			logger.Warn("timeline cache disabled", logger.ErrorField(err))
		} else {
			closers = append(closers, func() { db.CloseRedis() })
			source = catalog.NewCached(source,
				cache.NewTimelineCache(db.RedisClient, cfg.TimelineCacheTTL),
				logger.Named("cache"))
		}
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return source, closeAll, nil
}

// Start initializes and runs the HTTP server until SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	timelines, closeTimelines, err := openTimelines(cfg)
	if err != nil {
		return fmt.Errorf("open timeline source: %w", err)
	}
	defer closeTimelines()

	var tokens *auth.Tokens
	if cfg.JWTSecret != "" {
		if tokens, err = auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL); err != nil {
			return err
		}
	} else {
		logger.Warn("JWT_SECRET not set, sessions are unauthenticated")
	}

	hub := session.NewHub(logger.Named("hub"))
	go hub.Run()
	defer hub.Stop()

	apiHandler := NewAPIHandler(cfg, timelines, tokens, hub)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      apiHandler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			logger.String("addr", cfg.Addr),
			logger.String("source", cfg.TimelineSource))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-stop:
	}
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
