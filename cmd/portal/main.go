package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/glowdesk/artist-portal/internal/config"
	"github.com/glowdesk/artist-portal/internal/kvstore"
	"github.com/glowdesk/artist-portal/portalapi"
	"github.com/glowdesk/artist-portal/server"
	"github.com/glowdesk/artist-portal/session"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running portal: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logger := newLogger(c)
	displayAppName(c.GetAppName())

	// The durable scope only holds the cross-restart convenience keys; the
	// portal degrades to running without it rather than refusing to start.
	var durable session.DurableStore
	kv, err := kvstore.Open(filepath.Join(c.GetDataFolder(), "portal"))
	if err != nil {
		logger.Warn().Err(err).Msg("durable store unavailable, continuing without it")
	} else {
		durable = kv
		defer kv.Close()
	}

	store := session.NewStore(session.NewInMemoryRepo(), durable, logger)
	client := portalapi.NewClient(c.GetAPIBaseURL(), c.GetUpstreamTimeout(), store, logger)

	httpServer := &http.Server{Addr: c.GetPort(), Handler: server.New(c, store, client, logger).Handler()}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Str("upstream", c.GetAPIBaseURL()).Msg("portal listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server stopped")
		}
	}()

	waitForStopSignal()
	return shutdown(httpServer, logger)
}

func newLogger(c config.Config) zerolog.Logger {
	if c.GetEnv() == "DEV" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func displayAppName(appName string) {
	banner := figure.NewFigure(appName, "", true)
	banner.Print()
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info().Msg("shutting down")
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
