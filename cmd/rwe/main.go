package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// Set with -ldflags "-X main.BuildTag=... -X main.BuildCommit=..."
var (
	BuildTag    = "dev"
	BuildCommit = "none"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "rwe: %v\n", err)
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:                 "rwe",
		Usage:                "label relation candidates of clinical notes with weak supervision",
		HideVersion:          true,
		EnableBashCompletion: true,
		Writer:               ui.Out,
		ErrWriter:            ui.Err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log `LEVEL`: debug, info, warn or error. Overrides the config",
			},
			&cli.StringFlag{
				Name:  "log-style",
				Usage: "log `STYLE`: production (json) or development (console). Overrides the config",
			},
		},
		Commands: []*cli.Command{
			parseCmd(ui),
			docCmd(ui),
			tagCmd(ui),
			labelCmd(ui),
			lsLabelsCmd(ui),
			statCmd(ui),
			queryCmd(ui),
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(*cli.Context) error {
					return versionCommand(ui)
				},
			},
		},
	}
}
