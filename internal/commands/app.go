package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/logging"
)

// NewApp builds the quill command tree. Command output goes to out.
func NewApp(version string, out io.Writer) *cli.Command {
	var (
		flags     = &Flags{}
		logCloser = func() {}
	)

	app := &cli.Command{
		Name:      "quill",
		Usage:     "Headless editor state driven by Lua plugins",
		UsageText: "quill [global options] command [command options]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (trace, debug, info, warn, error); overrides the config file",
				Sources:     cli.EnvVars("QUILL_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("QUILL_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("QUILL_CONFIG"),
				Value:       config.DefaultPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.LogLevel != "" {
				cfg.Log.Level = flags.LogLevel
			}
			if flags.LogFile != "" {
				cfg.Log.File = flags.LogFile
			}

			logger, closer, err := logging.New(cfg.Log.Level, cfg.Log.File)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			flags.Config = cfg
			flags.Logger = logging.Component("cli")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			logCloser()
			return nil
		},
	}

	run := NewRunCmd(flags)
	run.out = out
	inspect := NewInspectCmd(flags)
	inspect.out = out

	app = run.Register(app)
	app = inspect.Register(app)
	return app
}
