// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ledgerdash/ledgerdash/internal/auth"
	authpg "github.com/ledgerdash/ledgerdash/internal/auth/postgres"
	"github.com/ledgerdash/ledgerdash/internal/billing"
	billingpg "github.com/ledgerdash/ledgerdash/internal/billing/postgres"
	"github.com/ledgerdash/ledgerdash/internal/config"
	"github.com/ledgerdash/ledgerdash/internal/logging"
	"github.com/ledgerdash/ledgerdash/internal/observability"
	"github.com/ledgerdash/ledgerdash/internal/store"
	"github.com/ledgerdash/ledgerdash/internal/web"
)

const shutdownTimeout = 10 * time.Second

// newServeCmd creates the serve subcommand.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP server: credential forms, the dashboard, and the
invoice and customer workflows. Requires a reachable PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	// Dotted flag names map straight onto config keys. Flag defaults mirror
	// config defaults: an unchanged flag merges the same value the config
	// layer would have chosen anyway.
	defaults := config.Default()
	cmd.Flags().String("database.url", defaults.Database.URL, "PostgreSQL connection URL")
	cmd.Flags().String("http.addr", defaults.HTTP.Addr, "HTTP listen address")
	cmd.Flags().String("metrics.addr", defaults.Metrics.Addr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log.format", defaults.Log.Format, "log format (json or text)")

	return cmd
}

// runServe starts the web and observability servers and blocks until a
// shutdown signal arrives.
func runServe(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("ledgerdash", version, cfg.Log.Format)
	logger := slog.Default()

	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (or set DATABASE_URL)")
	}

	logger.Info("starting ledgerdash",
		"http_addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"log_format", cfg.Log.Format,
	)

	pool, err := store.Open(ctx, cfg.Database.URL, cfg.Database.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Repositories
	userRepo := authpg.NewUserRepository(pool)
	sessionRepo := authpg.NewSessionRepository(pool)
	invoiceRepo := billingpg.NewInvoiceRepository(pool)
	customerRepo := billingpg.NewCustomerRepository(pool)

	// Services
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	sessionManager, err := auth.NewSessionManager(sessionRepo, cfg.Auth.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}
	registration, err := auth.NewRegistrationService(userRepo, hasher, logger)
	if err != nil {
		return fmt.Errorf("failed to create registration service: %w", err)
	}
	authService, err := auth.NewAuthService(userRepo, hasher, sessionManager, logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}
	billingService, err := billing.NewService(invoiceRepo, customerRepo, logger)
	if err != nil {
		return fmt.Errorf("failed to create billing service: %w", err)
	}

	// Observability server (optional)
	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		obsServer = observability.NewServer(cfg.Metrics.Addr, func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, obsErr := obsServer.Start()
		if obsErr != nil {
			return fmt.Errorf("failed to start observability server: %w", obsErr)
		}
		go func() {
			if serveErr := <-obsErrCh; serveErr != nil {
				logger.Error("observability server error", "error", serveErr)
			}
		}()
		metrics = obsServer.Metrics()
	}

	// Web server
	handlers, err := web.NewHandlers(registration, authService, sessionManager, billingService, metrics, cfg.Auth.SessionTTL, logger)
	if err != nil {
		return fmt.Errorf("failed to create web handlers: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           web.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	httpErrCh := make(chan error, 1)
	go func() {
		logger.Info("web server listening", "addr", cfg.HTTP.Addr)
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			httpErrCh <- serveErr
		}
	}()

	// Wait for a signal or a server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case serveErr := <-httpErrCh:
		logger.Error("web server error", "error", serveErr)
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error stopping web server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
