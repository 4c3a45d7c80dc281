package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-notify-links/internal/commands"
	"github.com/go-notify-links/internal/config"
	"github.com/go-notify-links/internal/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// Populated at build time via -ldflags.
var version = "dev"

func main() {
	var logCloser func()
	flags := &commands.Flags{}

	app := &cli.Command{
		Name:    "notifyd",
		Usage:   "Notification dispatch and deep-link routing engine",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "env-file",
				Usage:       "dotenv file loaded before reading configuration",
				Value:       ".env",
				Destination: &flags.EnvFile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error); overrides LOG_LEVEL",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write logs to this file instead of stdout; overrides LOG_FILE",
				Destination: &flags.LogFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			envErr := godotenv.Load(flags.EnvFile)

			cfg := config.Load()
			if flags.LogLevel != "" {
				cfg.LogLevel = flags.LogLevel
			}
			if flags.LogFile != "" {
				cfg.LogFile = flags.LogFile
			}

			logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile, cfg.AppEnv == "development")
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			switch {
			case envErr == nil:
				logger.Debug().Str("file", flags.EnvFile).Msg("env file loaded")
			case errors.Is(envErr, fs.ErrNotExist):
				logger.Debug().Msg("no env file found, reading from environment")
			default:
				return ctx, fmt.Errorf("load env file: %w", envErr)
			}

			flags.Config = cfg
			flags.Log = logger
			return logger.WithContext(ctx), nil
		},
		After: func(context.Context, *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewServeCmd(flags).Register(app)
	app = commands.NewLinkCmd(flags).Register(app)
	app = commands.NewChannelsCmd(flags).Register(app)
	app = commands.NewTokenCmd(flags).Register(app)

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
