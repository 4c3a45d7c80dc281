// Package commands holds the notifyd subcommands.
package commands

import (
	"github.com/go-notify-links/internal/config"
	"github.com/rs/zerolog"
)

// Flags carries the global flags and the state the root command's Before
// hook prepares for every subcommand.
type Flags struct {
	LogLevel string
	LogFile  string
	EnvFile  string

	Config *config.Config
	Log    zerolog.Logger
}
