package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/plugin"
	"github.com/dshills/quill/internal/plugin/api"
)

// RunCmd runs a Lua plugin against a session.
type RunCmd struct {
	flags *Flags
	out   io.Writer

	command     string
	execContext string
	args        []string
	loadPlugins bool
	write       bool
	watch       bool
}

// NewRunCmd creates the run command.
func NewRunCmd(flags *Flags) *RunCmd {
	return &RunCmd{flags: flags, out: os.Stdout}
}

// Register adds the command to app.
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run a Lua plugin against files",
		UsageText: "quill run [options] SCRIPT [FILE...]",
		Description: `Opens each FILE as a buffer with a view on the first, loads SCRIPT (a .lua
file or plugin directory) and prints the final status line.

With --command the named command is executed after loading, with --arg
key=value pairs passed to its handler.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "command",
				Aliases:     []string{"x"},
				Usage:       "command to execute after loading",
				Destination: &cmd.command,
			},
			&cli.StringFlag{
				Name:        "context",
				Usage:       "execution context (normal, insert, prompt, popup)",
				Value:       "normal",
				Destination: &cmd.execContext,
			},
			&cli.StringSliceFlag{
				Name:        "arg",
				Usage:       "command argument as key=value (repeatable)",
				Destination: &cmd.args,
			},
			&cli.BoolFlag{
				Name:        "plugins",
				Usage:       "also load the plugins from the configured directories",
				Destination: &cmd.loadPlugins,
			},
			&cli.BoolFlag{
				Name:        "write",
				Aliases:     []string{"w"},
				Usage:       "write modified buffers back to their files",
				Destination: &cmd.write,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "reload plugins on change until interrupted",
				Sources:     cli.EnvVars("QUILL_WATCH"),
				Destination: &cmd.watch,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 1 {
		return cli.Exit("run requires a SCRIPT argument", 1)
	}
	script := c.Args().First()
	files := c.Args().Slice()[1:]

	execCtx, err := command.ParseContext(cmd.execContext)
	if err != nil {
		return err
	}
	args, err := parseArgs(cmd.args)
	if err != nil {
		return err
	}

	cfg := cmd.flags.Config
	logger := cmd.flags.Logger

	st, err := newSession(cfg, logger, files)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	registry := command.NewRegistry(logger)
	mgr := plugin.NewManager(
		api.NewContext(st, registry, logger),
		append(cfg.PluginOptions(), plugin.WithLogger(logger))...,
	)
	defer mgr.UnloadAll()

	if cmd.loadPlugins {
		if err := mgr.LoadAll(ctx); err != nil {
			logger.Warn().Err(err).Msg("some plugins failed to load")
		}
	}
	if _, err := mgr.LoadPath(ctx, script); err != nil {
		return err
	}

	if cmd.command != "" {
		if err := registry.Execute(ctx, cmd.command, execCtx, args); err != nil {
			return err
		}
	}

	if cmd.watch || cfg.Plugins.Watch {
		if err := cmd.watchLoop(ctx, mgr, registry, st, execCtx, args); err != nil {
			return err
		}
	}

	if cmd.write {
		if _, err := writeModified(st, logger); err != nil {
			return err
		}
	}

	if text := st.Status(); text != "" {
		_, _ = fmt.Fprintln(cmd.out, text)
	}
	return nil
}

// watchLoop reloads plugins on change and re-executes the command after
// each successful reload until the process is interrupted.
func (cmd *RunCmd) watchLoop(ctx context.Context, mgr *plugin.Manager, registry *command.Registry, st *editor.State, execCtx command.ExecutionContext, args map[string]any) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cancel := mgr.Subscribe(func(ev plugin.Event) {
		if ev.Type != plugin.EventReloaded && ev.Type != plugin.EventLoaded {
			return
		}
		if cmd.command != "" {
			if err := registry.Execute(ctx, cmd.command, execCtx, args); err != nil {
				cmd.flags.Logger.Warn().Err(err).Msg("command failed after reload")
				return
			}
		}
		if text := st.Status(); text != "" {
			_, _ = fmt.Fprintln(cmd.out, text)
		}
	})
	defer cancel()

	cmd.flags.Logger.Info().Msg("watching plugins, interrupt to stop")
	return mgr.Watch(ctx)
}

// parseArgs turns key=value pairs into command arguments. Integer, float and
// boolean values are converted.
func parseArgs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: want key=value", pair)
		}
		args[key] = parseValue(value)
	}
	return args, nil
}

func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
