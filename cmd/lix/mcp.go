package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lix/internal/debug"
	lixmcp "github.com/standardbeagle/lix/internal/mcp"
)

// mcpCommand serves the extraction tools over stdio for MCP clients.
func mcpCommand(c *cli.Context) error {
	// Stdout carries the protocol stream; MCP mode keeps debug output
	// away from it.
	debug.SetMCPMode(true)

	cfg, err := loadConfigWithOverrides(c, "")
	if err != nil {
		return err
	}

	server := lixmcp.NewServer(cfg)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		debug.LogMCP("received %v, shutting down", sig)
		cancel()

		shutdownTimer := time.NewTimer(2 * time.Second)
		defer shutdownTimer.Stop()
		select {
		case err := <-errChan:
			return err
		case <-shutdownTimer.C:
			// The stdio read loop can block past cancellation; closing
			// stdin breaks it loose.
			debug.LogMCP("graceful shutdown timed out, closing stdin")
			os.Stdin.Close()
			return nil
		}
	}
}
