package main

import (
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lix/internal/scanner"
)

// scanCommand walks a directory tree and aggregates imports per
// language. The root defaults to the configured project root when no
// argument is given.
func scanCommand(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("usage: lix scan [dir]", 2)
	}

	cfg, err := loadConfigWithOverrides(c, c.Args().First())
	if err != nil {
		return err
	}
	renderer := newRenderer(cfg)

	summary, err := scanner.New(cfg).Scan(c.Context)
	if err != nil {
		return err
	}

	if err := renderer.Summary(summary); err != nil {
		return err
	}
	if summary.Err() != nil {
		// Per-file failures are already in the rendered output.
		return cli.Exit("", 1)
	}
	return nil
}
