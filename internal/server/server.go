// Package server runs the HTTP and gRPC listeners side by side and shuts
// both down on SIGINT/SIGTERM or when either fails.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/storefront/pkg/grpc"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Config struct {
	HTTPPort string
	GRPCPort string
	Handler  http.Handler
	// Limiter, when set, has its expired buckets swept every minute.
	Limiter *middleware.RateLimiter
}

// Run blocks until ctx is cancelled, a signal arrives or a listener fails.
func Run(ctx context.Context, cfg Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           cfg.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	rpc := grpc.New()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("HTTP server shutting down")
		rpc.SetServing(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.GRPCPort != "" {
		g.Go(func() error { return rpc.Serve(gctx, cfg.GRPCPort) })
	}

	if cfg.Limiter != nil {
		g.Go(func() error {
			tick := time.NewTicker(time.Minute)
			defer tick.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-tick.C:
					cfg.Limiter.Sweep()
				}
			}
		})
	}

	return g.Wait()
}
