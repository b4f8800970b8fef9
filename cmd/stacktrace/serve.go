package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/stacktrace/cmd/stacktrace/shared"
	"github.com/lox/stacktrace/internal/server"
	"github.com/lox/stacktrace/internal/session"
)

// ServeCmd serves a live session to WebSocket clients
type ServeCmd struct {
	SettingsFlags

	Addr string `help:"Server address (default from config)"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	cfg, registry, err := shared.LoadConfig(globals.Config)
	if err != nil {
		return err
	}
	logger, err := shared.SetupLogger(os.Stderr, cfg.Log.Level, globals.Debug)
	if err != nil {
		return err
	}

	settings := c.apply(cfg.Settings)
	sess, err := session.New(settings, registry, session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	addr := cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := server.NewServer(sess, logger)
	logger.Info("Starting StackTrace server",
		"address", listener.Addr().String(),
		"decks", settings.Decks,
		"system", settings.System)

	// Setup graceful shutdown
	ctx := shared.SetupSignalHandlerWithLogger(logger)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(listener)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
