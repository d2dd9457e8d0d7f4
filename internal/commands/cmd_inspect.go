package commands

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dshills/quill/internal/query"
)

// InspectCmd prints a query snapshot of a session.
type InspectCmd struct {
	flags  *Flags
	out    io.Writer
	format string
}

// NewInspectCmd creates the inspect command.
func NewInspectCmd(flags *Flags) *InspectCmd {
	return &InspectCmd{flags: flags, out: os.Stdout}
}

// Register adds the command to app.
func (cmd *InspectCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "inspect",
		Usage:     "Print the session snapshot for files",
		UsageText: "quill inspect [--format yaml|json] [FILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (yaml, json)",
				Value:       string(query.FormatYAML),
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InspectCmd) run(_ context.Context, c *cli.Command) error {
	format, err := query.ParseFormat(cmd.format)
	if err != nil {
		return err
	}

	st, err := newSession(cmd.flags.Config, cmd.flags.Logger, c.Args().Slice())
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	return query.Export(cmd.out, query.New(st).Session(), format)
}
