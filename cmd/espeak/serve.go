package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"time"

	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine/simulated"
	"github.com/koscakluka/ema-espeak/core/server"
	"github.com/koscakluka/ema-espeak/internal/config"
)

const shutdownTimeout = 5 * time.Second

func runServe(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := flags.String("addr", cfg.ListenAddr, "listen address")
	anyOrigin := flags.Bool("any-origin", false, "accept browser connections from any origin")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Remote clients hear the audio at the pace a local listener would.
	e, err := newEngine(cfg, simulated.WithRealtime(true))
	if err != nil {
		return err
	}
	b, err := startBridge(ctx, cfg, e, bridge.WithPlayback(false))
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(context.Background()); err != nil {
			slog.Warn("failed to close bridge", "error", err)
		}
	}()

	var opts []server.Option
	if *anyOrigin {
		opts = append(opts, server.WithCheckOrigin(func(*http.Request) bool { return true }))
	}
	srv, err := server.New(b, opts...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", *addr, "engine", cfg.Engine, "sample_rate", b.SampleRate())
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down", "sessions", srv.Sessions())
	srv.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return b.Stop(shutdownCtx)
}

