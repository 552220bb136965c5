package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"browsercontrol/internal/capture"
	"browsercontrol/internal/desktop"
	"browsercontrol/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local desktop as a remotely controllable session",
	Long: `Serve the local desktop as a remotely controllable session.

Each session captures the configured display, streams it as JPEG frames on
/stream/{id} and injects the received pointer and keyboard actions.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if listenAddr != "" {
		cfg.Host.ListenAddr = listenAddr
	}
	if os.Getenv("DISPLAY") == "" {
		// Keep previous behavior if unset (useful for X on Linux)
		os.Setenv("DISPLAY", ":0")
	}

	opts := capture.Options{
		Display:  cfg.Host.Display,
		Quality:  cfg.Host.Quality,
		MaxWidth: cfg.Host.MaxWidth,
	}
	host := server.New(server.Config{
		FPS: cfg.Host.FPS,
		NewBackend: func(context.Context) (server.Backend, error) {
			return desktop.New(opts, logger), nil
		},
		Logger: logger,
	})

	srv := &http.Server{Addr: cfg.Host.ListenAddr, Handler: host.Handler()}

	go func() {
		logger.Info("http server started", zap.String("addr", cfg.Host.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down server...")

	host.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
		return err
	}
	return nil
}
