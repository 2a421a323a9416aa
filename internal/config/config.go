package config

import (
	"os"
	"runtime"

	"github.com/standardbeagle/lix/internal/types"
)

type Config struct {
	Version int
	Project Project
	Scan    Scan
	Watch   Watch
	Display Display
	Include []string
	Exclude []string
}

type Project struct {
	Root string
	Name string
}

// Scan bounds the directory walk and the extraction stage.
type Scan struct {
	MaxFileSize          int64
	MaxFileCount         int
	Workers              int // 0 = one per CPU
	RespectGitignore     bool
	FollowSymlinks       bool
	DetectBuildArtifacts bool
}

// EffectiveWorkers resolves the configured worker count, with 0 meaning
// one worker per CPU.
func (s Scan) EffectiveWorkers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.NumCPU()
}

type Watch struct {
	DebounceMs int
}

type Display struct {
	Format string // "text", "table", "json", "yaml"
	Color  bool
}

// Default returns the built-in configuration used when no .lix.kdl is
// found anywhere.
func Default() *Config {
	return &Config{
		Version: 1,
		Project: Project{Root: "."},
		Scan: Scan{
			MaxFileSize:          types.DefaultMaxFileSize,
			MaxFileCount:         types.DefaultMaxFileCount,
			Workers:              0,
			RespectGitignore:     true,
			FollowSymlinks:       false,
			DetectBuildArtifacts: true,
		},
		Watch:   Watch{DebounceMs: 300},
		Display: Display{Format: "table", Color: true},
		Include: []string{},
		Exclude: defaultExclusions(),
	}
}

// Load resolves configuration for a scan rooted at rootDir: a global
// ~/.lix.kdl provides the base, the project's .lix.kdl overrides it,
// and built-in defaults cover the rest.
func Load(rootDir string) (*Config, error) {
	searchDir := rootDir
	if searchDir == "" {
		searchDir = "."
	}

	var base *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			base = globalCfg
		}
	}

	project, err := LoadKDL(searchDir)
	if err != nil {
		return nil, err
	}

	switch {
	case base != nil && project != nil:
		return mergeConfigs(base, project), nil
	case project != nil:
		return project, nil
	case base != nil:
		base.Project.Root = searchDir
		return base, nil
	}

	cfg := Default()
	cfg.Project.Root = searchDir
	cfg.EnrichExclusionsWithBuildArtifacts()
	return cfg, nil
}

// mergeConfigs merges a base config with a project config. The project
// wins field-by-field, except exclusions, which are unioned so a global
// ignore list keeps applying under project configs.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		excludeMap := make(map[string]bool)
		for _, pattern := range base.Exclude {
			excludeMap[pattern] = true
		}
		for _, pattern := range project.Exclude {
			excludeMap[pattern] = true
		}
		merged.Exclude = make([]string, 0, len(excludeMap))
		for pattern := range excludeMap {
			merged.Exclude = append(merged.Exclude, pattern)
		}
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}

	return &merged
}

// EnrichExclusionsWithBuildArtifacts reads the project's build
// configuration files and excludes the output directories they declare.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if !c.Scan.DetectBuildArtifacts || c.Project.Root == "" {
		return
	}

	detector := NewBuildArtifactDetector(c.Project.Root)
	detected := detector.DetectOutputDirectories()
	if len(detected) > 0 {
		c.Exclude = append(c.Exclude, detected...)
		c.Exclude = DeduplicatePatterns(c.Exclude)
	}
}

// defaultExclusions lists the trees a dependency scan should never
// descend into. Test files are deliberately not excluded: a dependency
// imported only by tests is still a dependency of the project.
func defaultExclusions() []string {
	return []string{
		// VCS metadata and hidden trees
		"**/.git/**",
		"**/.*/**",

		// Dependency directories. Imports found inside belong to the
		// dependency, not to the project being scanned.
		"**/node_modules/**",
		"**/bower_components/**",
		"**/jspm_packages/**",
		"**/vendor/**",
		"**/venv/**",
		"**/virtualenv/**",
		"**/site-packages/**",
		"**/renv/**",
		"**/packrat/**",

		// Build output
		"**/dist/**",
		"**/build/**",
		"**/out/**",
		"**/target/**",
		"**/__pycache__/**",

		// Generated bundles parse slowly and only restate declared deps
		"**/*.min.js",
		"**/*.bundle.js",
		"**/*.chunk.js",
	}
}

// DeduplicatePatterns removes duplicate exclusion patterns, keeping
// first-seen order.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}
	return result
}
