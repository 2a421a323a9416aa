// Command lix extracts the libraries imported by source files and
// classifies each one as stdlib, third-party, or first-party.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lix/internal/config"
	"github.com/standardbeagle/lix/internal/debug"
	"github.com/standardbeagle/lix/internal/display"
	"github.com/standardbeagle/lix/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "lix",
		Usage:                  "Extract and classify imported libraries from source code",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the project .lix.kdl",
				Value:   ".lix.kdl",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, table, json, yaml",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Scan only files matching glob patterns (e.g. --include 'src/**/*.py')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip files matching glob patterns (e.g. --exclude '**/testdata/**')",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent extraction workers (0 = one per CPU)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug logging to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				os.Setenv("LIX_DEBUG", "1")
				debug.SetDebugOutput(os.Stderr)
			}
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Aliases:   []string{"x"},
				Usage:     "Extract imports from source files",
				ArgsUsage: "<file...>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Language for stdin input (-): python, r, go, rust, javascript, typescript",
					},
				},
				Action: extractCommand,
			},
			{
				Name:      "scan",
				Aliases:   []string{"s"},
				Usage:     "Scan a directory tree and aggregate per-language results",
				ArgsUsage: "[dir]",
				Action:    scanCommand,
			},
			{
				Name:      "watch",
				Aliases:   []string{"w"},
				Usage:     "Watch a directory and re-extract files as they change",
				ArgsUsage: "[dir]",
				Action:    watchCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Serve extraction tools over the Model Context Protocol (stdio)",
				Action: mcpCommand,
			},
			{
				Name:    "languages",
				Aliases: []string{"langs"},
				Usage:   "List supported languages, extensions, and grammar availability",
				Action:  languagesCommand,
			},
			{
				Name:   "version",
				Usage:  "Print version and build information",
				Action: versionCommand,
			},
		},
		Action: func(c *cli.Context) error {
			// Bare file arguments behave like the extract command.
			if c.NArg() > 0 {
				return extractCommand(c)
			}
			return cli.ShowAppHelp(c)
		},
	}
}

// loadConfigWithOverrides resolves configuration for a run rooted at
// root and applies CLI flag overrides on top. Include patterns replace
// the configured ones; exclude patterns extend them, matching how a
// project config layers over a global one.
func loadConfigWithOverrides(c *cli.Context, root string) (*config.Config, error) {
	configDir := root
	if configDir == "" {
		configDir = "."
	}
	// An explicit --config names the .lix.kdl file; its directory
	// becomes the config search root.
	if flag := c.String("config"); flag != "" && flag != ".lix.kdl" {
		configDir = filepath.Dir(flag)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configDir, err)
	}

	if root != "" {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
		}
		cfg.Project.Root = absRoot
	}
	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = config.DeduplicatePatterns(append(cfg.Exclude, exclude...))
	}
	if c.IsSet("workers") {
		cfg.Scan.Workers = c.Int("workers")
	}
	if format := c.String("format"); format != "" {
		switch format {
		case display.FormatText, display.FormatTable, display.FormatJSON, display.FormatYAML:
			cfg.Display.Format = format
		default:
			return nil, cli.Exit(fmt.Sprintf("unknown format %q (expected text, table, json, or yaml)", format), 2)
		}
	}
	if c.Bool("no-color") {
		cfg.Display.Color = false
	}
	return cfg, nil
}

// newRenderer builds the output renderer for cfg. The color package
// already disables itself when stdout is not a terminal; config only
// ever turns color off, never forces it on.
func newRenderer(cfg *config.Config) *display.Renderer {
	if !cfg.Display.Color {
		color.NoColor = true
	}
	return display.NewRenderer(display.Options{Format: cfg.Display.Format})
}

func versionCommand(c *cli.Context) error {
	fmt.Println(version.FullInfo())
	return nil
}
