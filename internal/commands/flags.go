// Package commands implements the quill CLI commands.
package commands

import (
	"github.com/rs/zerolog"

	"github.com/dshills/quill/internal/config"
)

// Flags holds the global flags and the state the Before hook derives from
// them.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands.
	Config *config.Config

	Logger zerolog.Logger
}
