// Talkboard - TED Talk Catalog and Review Service
// Copyright 2026 Talkboard Authors
// SPDX-License-Identifier: MIT

// Command server runs the Talkboard HTTP server: HTML pages at the root,
// the JSON API under /api/v1, and Prometheus metrics at /metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/talkboard/talkboard/internal/api"
	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/database"
	"github.com/talkboard/talkboard/internal/logging"
	"github.com/talkboard/talkboard/internal/web"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.SeedSampleData {
		if err := db.SeedSampleData(ctx); err != nil {
			return err
		}
	}

	handler := api.NewHandler(db)
	pages := web.New(db)
	router := api.NewRouter(&cfg.Server, handler, pages.Routes())

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Str("db", cfg.Database.Path).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logging.Info().Msg("shutdown complete")
	return nil
}
