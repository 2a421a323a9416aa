package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lix/internal/watch"
)

// watchCommand re-extracts files as they change until interrupted.
func watchCommand(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("usage: lix watch [dir]", 2)
	}

	cfg, err := loadConfigWithOverrides(c, c.Args().First())
	if err != nil {
		return err
	}
	renderer := newRenderer(cfg)

	w, err := watch.New(cfg, watch.Options{Renderer: renderer})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Run(ctx, cfg.Project.Root)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	fmt.Fprintf(os.Stderr, "watching %s (press Ctrl-C to stop)\n", cfg.Project.Root)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		fmt.Fprintf(os.Stderr, "received %s, stopping\n", sig)
		cancel()
		// Run returns once its goroutines drain.
		return <-errChan
	}
}
