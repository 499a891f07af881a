package main

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
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/swadrive/swadrive-backend/internal/config"
	httpapi "github.com/swadrive/swadrive-backend/internal/http"
	"github.com/swadrive/swadrive-backend/internal/observability"
	"github.com/swadrive/swadrive-backend/internal/repo"
	"github.com/swadrive/swadrive-backend/internal/services"
	"github.com/swadrive/swadrive-backend/internal/sysutil"
)

const (
	shutdownGrace = 10 * time.Second
	purgeEvery    = time.Hour
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	sysutil.ConfigureLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, Version)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	if cfg.OTEL.Enabled {
		if err := repo.Instrument(db); err != nil {
			return fmt.Errorf("instrument db: %w", err)
		}
	}

	r := gin.New()
	svc := httpapi.NewServices(db, cfg)
	httpapi.RegisterRoutes(r, svc, cfg)

	go purgeIdempotency(ctx, svc.Idempotency)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", cfg.DB.Driver).Msg("SwaDrive Backend is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// purgeIdempotency drops expired Idempotency-Key records until ctx ends.
func purgeIdempotency(ctx context.Context, svc *services.IdempotencyService) {
	t := time.NewTicker(purgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := svc.Purge(ctx, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge")
				continue
			}
			log.Debug().Int64("deleted", n).Msg("idempotency purge")
		}
	}
}
