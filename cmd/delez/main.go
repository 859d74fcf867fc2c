package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/delez/internal/api"
	"github.com/erazemk/delez/internal/backend"
	"github.com/erazemk/delez/internal/config"
	"github.com/erazemk/delez/internal/db"
	"github.com/erazemk/delez/internal/logging"
	"github.com/erazemk/delez/internal/session"
	"github.com/erazemk/delez/internal/store"
	"github.com/erazemk/delez/internal/web"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env", os.Args[1:], os.Stdout)
	if err != nil {
		return err
	}

	opts := logging.Options{Level: cfg.LogLevel, Color: cfg.LogColor, File: cfg.LogFile}
	if cfg.FluentBit.Enabled {
		f, err := logging.DialFluent(cfg.FluentBit.Host, cfg.FluentBit.Port, cfg.FluentBit.TagPrefix)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: fluent bit unavailable: %v\n", err)
		} else {
			opts.Fluent = f
		}
	}
	logger, closeLog, err := logging.New(opts)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	secret, err := store.GetSessionSecret(context.Background(), database)
	if err != nil {
		return fmt.Errorf("loading session secret: %w", err)
	}

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	sessions := &session.Manager{DB: database, Secret: secret, Secure: cfg.SecureCookies}

	apiRouter := api.NewRouter(api.Deps{
		DB:          database,
		Backend:     client,
		Sessions:    sessions,
		CORSOrigins: cfg.CORSOrigins,
	})
	webRouter, err := web.NewRouter(web.Deps{
		DB:       database,
		Backend:  client,
		Sessions: sessions,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.Addr, "backend", cfg.BackendURL)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}

	slog.Info("server stopped, closing database")
	return nil
}
