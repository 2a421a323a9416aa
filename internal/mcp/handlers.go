package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/lix/internal/config"
	"github.com/standardbeagle/lix/internal/debug"
	"github.com/standardbeagle/lix/internal/scanner"
	"github.com/standardbeagle/lix/pkg/extract"
)

// ExtractFileParams are the arguments of the extract_file tool.
type ExtractFileParams struct {
	Path string `json:"path"`
}

// ExtractSourceParams are the arguments of the extract_source tool.
type ExtractSourceParams struct {
	Language string `json:"language"`
	Source   string `json:"source"`
}

// ScanDirectoryParams are the arguments of the scan_directory tool.
type ScanDirectoryParams struct {
	Path    string   `json:"path"`
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// fileReport is the extract_file response payload.
type fileReport struct {
	Path      string                     `json:"path"`
	Language  string                     `json:"language"`
	Libraries *extract.ImportedLibraries `json:"libraries"`
}

// sourceReport is the extract_source response payload.
type sourceReport struct {
	Language  string                     `json:"language"`
	Libraries *extract.ImportedLibraries `json:"libraries"`
}

func (s *Server) handleExtractFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params ExtractFileParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return toolError("extract_file", fmt.Errorf("invalid parameters: %w", err))
	}
	if params.Path == "" {
		return toolError("extract_file", errors.New("path is required"))
	}

	debug.LogMCP("extract_file path=%s", params.Path)
	libs, err := s.extractor.FromFile(params.Path)
	if err != nil {
		return toolError("extract_file", err)
	}

	// FromFile succeeded, so the extension is one of the supported set.
	lang, _ := extract.LanguageForExtension(filepath.Ext(params.Path))
	return jsonResult(fileReport{
		Path:      params.Path,
		Language:  lang.String(),
		Libraries: libs,
	})
}

func (s *Server) handleExtractSource(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params ExtractSourceParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return toolError("extract_source", fmt.Errorf("invalid parameters: %w", err))
	}
	if params.Language == "" {
		return toolError("extract_source", errors.New("language is required"))
	}
	lang, ok := extract.ParseLanguage(params.Language)
	if !ok {
		return toolError("extract_source",
			fmt.Errorf("unknown language %q, supported languages are %s", params.Language, supportedLanguageNames()))
	}

	debug.LogMCP("extract_source language=%s bytes=%d", lang, len(params.Source))
	libs, err := s.extractor.Source(lang, params.Source)
	if err != nil {
		return toolError("extract_source", err)
	}
	return jsonResult(sourceReport{
		Language:  lang.String(),
		Libraries: libs,
	})
}

func (s *Server) handleScanDirectory(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params ScanDirectoryParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return toolError("scan_directory", fmt.Errorf("invalid parameters: %w", err))
	}
	if params.Path == "" {
		return toolError("scan_directory", errors.New("path is required"))
	}

	cfg := s.scanConfig(params)
	debug.LogMCP("scan_directory root=%s include=%d exclude=%d",
		cfg.Project.Root, len(cfg.Include), len(cfg.Exclude))

	sc := scanner.NewWithExtractor(cfg, s.extractor)
	sc.SetCache(s.results)
	summary, err := sc.Scan(ctx)
	if err != nil {
		return toolError("scan_directory", err)
	}
	return jsonResult(summary)
}

// scanConfig derives the configuration for one scan_directory call. The
// server config supplies limits and default filters; the call's path
// replaces the root, include patterns replace the configured ones, and
// exclude patterns extend them, so dependency directories stay skipped
// whatever the caller passes.
func (s *Server) scanConfig(params ScanDirectoryParams) *config.Config {
	cfg := *s.cfg
	cfg.Project.Root = params.Path
	if len(params.Include) > 0 {
		cfg.Include = params.Include
	}
	if len(params.Exclude) > 0 {
		merged := make([]string, 0, len(s.cfg.Exclude)+len(params.Exclude))
		merged = append(merged, s.cfg.Exclude...)
		merged = append(merged, params.Exclude...)
		cfg.Exclude = config.DeduplicatePatterns(merged)
	}
	return &cfg
}

func supportedLanguageNames() string {
	langs := extract.Languages()
	names := make([]string, len(langs))
	for i, lang := range langs {
		names[i] = lang.String()
	}
	return strings.Join(names, ", ")
}
