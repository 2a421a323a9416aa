// Package mcp serves import extraction over the Model Context Protocol.
// Three tools are exposed: extract_file for one file, extract_source for
// inline text, and scan_directory for whole trees. The transport is
// stdio, so diagnostics must go through the debug log file; a stray
// stdout write corrupts the protocol stream.
package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/lix/internal/cache"
	"github.com/standardbeagle/lix/internal/config"
	"github.com/standardbeagle/lix/internal/debug"
	"github.com/standardbeagle/lix/internal/version"
	"github.com/standardbeagle/lix/pkg/extract"
)

// Server exposes the extractor and scanner as MCP tools.
type Server struct {
	cfg       *config.Config
	extractor *extract.Extractor
	results   *cache.ResultCache
	server    *mcp.Server
}

// NewServer builds a server from the resolved configuration and
// registers the tool set. The result cache lives for the server's
// lifetime, so repeated scans over an unchanged tree skip re-parsing.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg:       cfg,
		extractor: extract.Default(),
		results:   cache.New(),
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "lix",
			Version: version.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name: "extract_file",
		Description: "Extract the libraries imported by one source file and classify each " +
			"as stdlib, third_party, or first_party. The language is chosen by file " +
			"extension; Python, R, Go, Rust, JavaScript, and TypeScript are supported.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Path to the source file",
				},
			},
			Required: []string{"path"},
		},
	}, s.handleExtractFile)

	s.server.AddTool(&mcp.Tool{
		Name: "extract_source",
		Description: "Extract imported libraries from source text passed inline. The " +
			"language must be named explicitly since there is no file extension to " +
			"dispatch on.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"language": {
					Type:        "string",
					Description: "Source language: python, r, go, rust, javascript, or typescript",
				},
				"source": {
					Type:        "string",
					Description: "Source text to extract imports from",
				},
			},
			Required: []string{"language", "source"},
		},
	}, s.handleExtractSource)

	s.server.AddTool(&mcp.Tool{
		Name: "scan_directory",
		Description: "Walk a directory tree, extract imports from every supported source " +
			"file, and return per-file results plus per-language library totals. " +
			"Dependency directories such as node_modules and vendor are skipped.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Directory to scan",
				},
				"include": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Glob patterns limiting which files are scanned",
				},
				"exclude": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Additional glob patterns for files and directories to skip",
				},
			},
			Required: []string{"path"},
		},
	}, s.handleScanDirectory)
}

// Run serves the tool set over stdio until ctx is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	debug.LogMCP("starting stdio server version=%s", version.Version)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
