package main

import (
	"context"
	"errors"
	"time"

	"browsercontrol/internal/session"
	"browsercontrol/internal/stream"
	"browsercontrol/internal/viewer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverURL string
	autoStart bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open a viewer window for a remote browser session",
	Long: `Open a viewer window for a remote browser session.

Keys:
  F2             start a session
  F3             end the session
  Ctrl+L, F6     edit the address, Enter to navigate, Esc to cancel
  F5             reload the page
  Alt+Left/Right history back / forward`,
	Example: `  # Connect to a host on the default address
  browsercontrol view

  # Connect to another host and start a session immediately
  browsercontrol view --server http://10.0.0.5:8000 --start`,
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVar(&serverURL, "server", "", "Session API base URL (overrides config)")
	viewCmd.Flags().BoolVar(&autoStart, "start", false, "Start a session as soon as the window opens")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if serverURL != "" {
		cfg.Client.ServerURL = serverURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if srv := serveMetrics(cfg.Client.MetricsAddr, logger); srv != nil {
		defer srv.Close()
	}

	win := viewer.New(viewer.Options{
		Title:      "browsercontrol - " + cfg.Client.ServerURL,
		DefaultURL: cfg.Client.DefaultURL,
	}, logger)

	client := stream.New(stream.Config{
		StreamURL:    cfg.Client.StreamURL,
		MoveDebounce: cfg.Client.MoveDebounce,
	}, win, stream.WithLogger(logger))
	sessions := session.NewController(session.NewHTTPAPI(cfg.Client.ServerURL, nil), client, logger)
	win.Attach(sessions, client)

	if autoStart {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := sessions.CreateSession(ctx); err != nil {
				logger.Error("start session", zap.Error(err))
			}
		}()
	}

	logger.Info("viewer started", zap.String("server_url", cfg.Client.ServerURL))
	runErr := win.Run()

	// Closing the window ends the remote session too.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sessions.TerminateSession(ctx); err != nil && !errors.Is(err, session.ErrNoSession) {
		logger.Warn("end session on exit", zap.Error(err))
	}
	return runErr
}
