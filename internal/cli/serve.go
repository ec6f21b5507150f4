package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msomdec/mockmatch/internal/cache"
	"github.com/msomdec/mockmatch/internal/config"
	"github.com/msomdec/mockmatch/internal/handler"
	"github.com/msomdec/mockmatch/internal/service"
	"github.com/msomdec/mockmatch/internal/worker"
)

// Register and login allow a burst of 10 per client IP, refilling one token
// every six seconds.
const (
	authRatePerSecond = 1.0 / 6
	authBurst         = 10
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server. When REDIS_URL is set and reachable, best-match
results are cached and a background worker completes ended interviews.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "8080", "Port to listen on (overrides PORT)")
	return cmd
}

func runServe(parent context.Context, cfg *config.Config) error {
	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	c := cache.Connect(ctx, cfg.RedisURL)
	defer c.Close()

	limiter := service.NewTokenBucket(authRatePerSecond, authBurst)
	defer limiter.Stop()

	authService := service.NewAuthService(db.Users(), c, cfg.JWTSecret, cfg.BcryptCost)
	userService := service.NewUserService(db.Users(), c)
	slotService := service.NewSlotService(db.Slots())
	matchService := service.NewMatchRequestService(db.MatchRequests(), db.Users(), db.Slots())
	bestMatchService := service.NewBestMatchService(db.Users(), c, cfg.BestMatchTTL)

	if c.Enabled() {
		proc, err := worker.NewProcessor(slotService, cfg.RedisURL, cfg.SweepInterval)
		if err != nil {
			return fmt.Errorf("create slot sweeper: %w", err)
		}
		if err := proc.Start(ctx); err != nil {
			slog.Warn("slot sweeper not started, completion stays derived at read time", "error", err)
		} else {
			defer proc.Stop()
		}
	} else {
		slog.Info("redis not configured, best-match cache and slot sweeper disabled")
	}

	router := handler.NewRouter(handler.Dependencies{
		Auth:           authService,
		Users:          userService,
		MatchRequests:  matchService,
		Slots:          slotService,
		BestMatch:      bestMatchService,
		AuthLimiter:    limiter,
		CookieSecure:   cfg.CookieSecure,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "driver", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
