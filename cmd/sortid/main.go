package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/sortid/internal/config"
	"github.com/standardbeagle/sortid/internal/debug"
	sorterrors "github.com/standardbeagle/sortid/internal/errors"
	"github.com/standardbeagle/sortid/internal/version"
)

var Version = version.Version

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	// The default name is searched for (KDL, then TOML); an explicit path is
	// read as given.
	configPath := ""
	if c.IsSet("config") {
		configPath = c.String("config")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("scheme") {
		cfg.Generate.Scheme = c.String("scheme")
	}
	if c.IsSet("count") {
		cfg.Generate.Count = c.Int("count")
	}
	switch {
	case c.Bool("json"):
		cfg.Generate.Format = config.FormatJSON
	case c.Bool("yaml"):
		cfg.Generate.Format = config.FormatYAML
	case c.Bool("hex"):
		cfg.Generate.Format = config.FormatHex
	}
	if c.IsSet("samples") {
		cfg.Verify.Samples = c.Int("samples")
	}
	if c.IsSet("workers") {
		cfg.Verify.Workers = c.Int("workers")
	}
	if c.IsSet("seed") {
		cfg.Verify.Seed = c.Uint64("seed")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func schemeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "scheme",
		Aliases: []string{"s"},
		Usage:   "Identifier scheme (compact, grouped, dashed or a configured name)",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "sortid",
		Usage:                  "Generate and inspect sortable time+random identifiers",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (.kdl or .toml)",
				Value:   config.DefaultKDLFile,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug output to stderr",
			},
			&cli.BoolFlag{
				Name:  "debug-log",
				Usage: "Write debug output to a log file in the temp directory",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "new",
				Aliases: []string{"n"},
				Usage:   "Generate identifiers",
				Flags: []cli.Flag{
					schemeFlag(),
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of identifiers",
					},
					&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "yaml", Usage: "Output as YAML"},
					&cli.BoolFlag{Name: "hex", Usage: "Output integer values in hex"},
				},
				Action: newCommand,
			},
			{
				Name:      "parse",
				Aliases:   []string{"p"},
				Usage:     "Decode identifiers and show their fields",
				ArgsUsage: "<text>...",
				Flags: []cli.Flag{
					schemeFlag(),
					&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "yaml", Usage: "Output as YAML"},
				},
				Action: parseCommand,
			},
			{
				Name:      "encode",
				Aliases:   []string{"e"},
				Usage:     "Encode integers (decimal or 0x hex) as identifier text",
				ArgsUsage: "<integer>...",
				Flags:     []cli.Flag{schemeFlag()},
				Action:    encodeCommand,
			},
			{
				Name:  "verify",
				Usage: "Run the randomized round-trip self check",
				Flags: []cli.Flag{
					schemeFlag(),
					&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Check every known scheme"},
					&cli.IntFlag{Name: "samples", Usage: "Random samples per scheme"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Parallel workers (0 = GOMAXPROCS)"},
					&cli.Uint64Flag{Name: "seed", Usage: "PCG seed"},
				},
				Action: verifyCommand,
			},
			{
				Name:   "schemes",
				Usage:  "List built-in and configured schemes",
				Action: schemesCommand,
			},
			{
				Name:  "version",
				Usage: "Show build information",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, version.FullInfo())
					return nil
				},
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				debug.EnableDebug = "true"
				debug.SetDebugOutput(c.App.ErrWriter)
			} else if debug.IsDebugEnabled() {
				debug.SetDebugOutput(c.App.ErrWriter)
			}
			if c.Bool("debug-log") {
				debug.EnableDebug = "true"
				logPath, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.ErrWriter, "debug log: %s\n", logPath)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
	}
}

// run executes the CLI and returns the exit code: 2 for configuration
// errors, 1 for any other failure.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp()
	app.Writer = stdout
	app.ErrWriter = stderr

	err := app.Run(args)
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, debug.Fatal("%v", err))
	if errors.Is(err, sorterrors.ErrConfig) {
		return 2
	}
	return 1
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
