package main

import (
	"fmt"
	"strings"

	"github.com/revelaction/rwe/render"
	"github.com/urfave/cli/v2"
)

// Option structs for subcommands that have flags
type CommonOptions struct {
	ConfigPath string
	LogLevel   string
	LogStyle   string
	Workers    int
}

type ParseOptions struct {
	In         string
	Out        string
	SplitLines bool
	Workers    int
}

type DocOptions struct {
	CommonOptions
	DocPath  string
	NoColor  bool
	NoPrefix bool
	Format   string
}

type TagOptions struct {
	CommonOptions
	DocPath  string
	Relation string
	JSON     bool
}

type LabelOptions struct {
	CommonOptions
	DocPath     string
	Relation    string
	OutDir      string
	MetricsFile string
	JSON        bool
}

type StatOptions struct {
	CommonOptions
	DocPath string
}

type QueryOptions struct {
	CommonOptions
	DocPath  string
	NoColor  bool
	NoPrefix bool
	Format   string
}

func docsFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "docs",
		Aliases:  []string{"d"},
		Usage:    "corpus `PATH`: a .jsonl(.gz) file or a directory of them",
		EnvVars:  []string{"RWE_DOCS"},
		Required: required,
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "pipeline configuration `FILE` (yaml, json or toml)",
			EnvVars: []string{"RWE_CONFIG"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "number of workers, all CPUs when 0. Overrides the config",
		},
	}
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "no-color", Usage: "do not color the mentions"},
		&cli.BoolFlag{Name: "no-prefix", Usage: "do not prefix sentences with doc name and position"},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   render.Defaultformat,
			Usage:   "sentence `FORMAT`: " + strings.Join(render.SupportedFormats(), ", "),
		},
	}
}

func commonOptions(c *cli.Context) CommonOptions {
	return CommonOptions{
		ConfigPath: c.String("config"),
		LogLevel:   c.String("log-level"),
		LogStyle:   c.String("log-style"),
		Workers:    c.Int("workers"),
	}
}

func validateFormat(format string) error {
	for _, f := range render.SupportedFormats() {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q, want one of %s", format, strings.Join(render.SupportedFormats(), ", "))
}

func parseCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Aliases:   []string{"import"},
		Usage:     "tokenize the notes of a TSV file into a corpus file",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true, Usage: "notes `FILE`, TSV with DOC_NAME and TEXT columns"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "corpus `FILE`, gzipped when ending in .gz"},
			&cli.BoolFlag{Name: "no-split-lines", Usage: "do not end sentences at line breaks"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "number of workers, all CPUs when 0"},
		},
		Action: func(c *cli.Context) error {
			return parseNotesCommand(ParseOptions{
				In:         c.String("in"),
				Out:        c.String("out"),
				SplitLines: !c.Bool("no-split-lines"),
				Workers:    c.Int("workers"),
			}, ui)
		},
	}
}

func docCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "doc",
		Usage:     "list the documents, or render document NAME, tagged when a config is given",
		ArgsUsage: "[NAME]",
		Flags:     append(append([]cli.Flag{docsFlag(true)}, commonFlags()...), renderFlags()...),
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return fmt.Errorf("doc: expected at most one document name, got %d args", c.NArg())
			}
			if c.NArg() == 0 {
				return lsDocCommand(c.String("docs"), ui)
			}

			opts := DocOptions{
				CommonOptions: commonOptions(c),
				DocPath:       c.String("docs"),
				NoColor:       c.Bool("no-color"),
				NoPrefix:      c.Bool("no-prefix"),
				Format:        c.String("format"),
			}
			if err := validateFormat(opts.Format); err != nil {
				return err
			}
			return docCommand(opts, c.Args().First(), ui)
		},
	}
}

func tagCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "tag",
		Usage: "tag a corpus and print the layer counts or the relation candidates",
		Flags: append(append([]cli.Flag{docsFlag(true)}, commonFlags()...),
			&cli.StringFlag{Name: "relation", Aliases: []string{"r"}, Usage: "relation `TYPE`, the first configured relation when empty"},
			&cli.BoolFlag{Name: "json", Usage: "print the relation candidates as JSON, one array per document"},
		),
		Action: func(c *cli.Context) error {
			return tagCommand(TagOptions{
				CommonOptions: commonOptions(c),
				DocPath:       c.String("docs"),
				Relation:      c.String("relation"),
				JSON:          c.Bool("json"),
			}, ui)
		},
	}
}

func labelCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "label",
		Usage: "tag a corpus, apply the labeling functions and write one label matrix per document",
		Flags: append(append([]cli.Flag{docsFlag(true)}, commonFlags()...),
			&cli.StringFlag{Name: "relation", Aliases: []string{"r"}, Usage: "relation `TYPE`, the first configured relation when empty"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output `DIR` for the Matrix Market files and the manifest"},
			&cli.StringFlag{Name: "metrics-file", Usage: "write the labeling metrics in Prometheus text format to `FILE`"},
			&cli.BoolFlag{Name: "json", Usage: "print the candidates with their votes as JSON, one array per document"},
		),
		Action: func(c *cli.Context) error {
			return labelCommand(LabelOptions{
				CommonOptions: commonOptions(c),
				DocPath:       c.String("docs"),
				Relation:      c.String("relation"),
				OutDir:        c.String("out"),
				MetricsFile:   c.String("metrics-file"),
				JSON:          c.Bool("json"),
			}, ui)
		},
	}
}

func lsLabelsCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "ls-labels",
		Usage: "list the labeling functions of the configured set, in matrix column order",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			return lsLabelsCommand(commonOptions(c), ui)
		},
	}
}

func statCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "print corpus statistics, for one document when NAME is given",
		ArgsUsage: "[NAME]",
		Flags:     append([]cli.Flag{docsFlag(true)}, commonFlags()...),
		Action: func(c *cli.Context) error {
			return statCommand(StatOptions{
				CommonOptions: commonOptions(c),
				DocPath:       c.String("docs"),
			}, c.Args().First(), ui)
		},
	}
}

func queryCmd(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "interactive prompt to tag free text and corpus documents",
		Flags: append(append([]cli.Flag{docsFlag(false)}, commonFlags()...), renderFlags()...),
		Action: func(c *cli.Context) error {
			opts := QueryOptions{
				CommonOptions: commonOptions(c),
				DocPath:       c.String("docs"),
				NoColor:       c.Bool("no-color"),
				NoPrefix:      c.Bool("no-prefix"),
				Format:        c.String("format"),
			}
			if err := validateFormat(opts.Format); err != nil {
				return err
			}
			return queryCommand(opts, ui)
		},
	}
}
