package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/annazecevic/song-service/config"
	"github.com/annazecevic/song-service/handler"
	"github.com/annazecevic/song-service/logger"
	"github.com/annazecevic/song-service/metrics"
	"github.com/annazecevic/song-service/middleware"
	"github.com/annazecevic/song-service/service"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, cfg *config.Config) error {
	logger.Info(logger.EventServiceStartup, "Song service starting", logger.Fields(
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
	))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	m, err := metrics.New()
	if err != nil {
		return err
	}
	m.SeedSongs.Set(float64(a.svc.SeedCount()))

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
		done := make(chan struct{})
		defer close(done)
		go limiter.Run(done, time.Minute)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           newRouter(a.svc, m, limiter, cfg.LegacyStatusCodes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(logger.EventServiceStartup, "Server starting", logger.Fields("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error(logger.EventGeneral, "Failed to start server", logger.Fields("error", err.Error()))
			return err
		}
	case <-ctx.Done():
	}

	logger.Info(logger.EventServiceShutdown, "Shutting down song service", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(logger.EventServiceShutdown, "Server shutdown error", logger.Fields("error", err.Error()))
		return err
	}
	return nil
}

func newRouter(svc service.SongService, m *metrics.Metrics, limiter *middleware.RateLimiter, legacyStatusCodes bool) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Metrics(m),
		middleware.SecurityHeaders(),
	)
	if limiter != nil {
		router.Use(limiter.Middleware())
	}

	router.GET("/metrics", gin.WrapH(m.Handler()))
	handler.NewSongHandler(svc, legacyStatusCodes).RegisterRoutes(router)
	return router
}
