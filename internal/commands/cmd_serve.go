package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
)

type ServeCmd struct {
	flags *Flags

	port            string
	shutdownTimeout time.Duration
}

// NewServeCmd creates the serve command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "serve",
		Usage: "Run the notification engine and its HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "port",
				Aliases:     []string{"p"},
				Usage:       "listen port (overrides APP_PORT)",
				Destination: &cmd.port,
			},
			&cli.DurationFlag{
				Name:        "shutdown-timeout",
				Usage:       "grace period for in-flight requests on shutdown",
				Value:       10 * time.Second,
				Destination: &cmd.shutdownTimeout,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config
	log := cmd.flags.Log
	if cmd.port != "" {
		cfg.AppPort = cmd.port
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := buildStack(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      s.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.AppPort).
			Str("env", cfg.AppEnv).
			Str("surface", cfg.Surface).
			Int("channels", len(s.Registry.List())).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
