package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, int64(10*1024*1024), cfg.Scan.MaxFileSize)
	assert.Equal(t, 50000, cfg.Scan.MaxFileCount)
	assert.Equal(t, 0, cfg.Scan.Workers)
	assert.True(t, cfg.Scan.RespectGitignore)
	assert.False(t, cfg.Scan.FollowSymlinks)
	assert.Equal(t, "table", cfg.Display.Format)
	assert.Equal(t, 300, cfg.Watch.DebounceMs)
	assert.NotEmpty(t, cfg.Exclude)
}

func TestParseKDL_ScanBlock(t *testing.T) {
	kdlContent := `
scan {
    max_file_size "2MB"
    max_file_count 1000
    workers 4
    respect_gitignore false
    follow_symlinks true
    detect_build_artifacts false
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, int64(2*1024*1024), cfg.Scan.MaxFileSize)
	assert.Equal(t, 1000, cfg.Scan.MaxFileCount)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.False(t, cfg.Scan.RespectGitignore)
	assert.True(t, cfg.Scan.FollowSymlinks)
	assert.False(t, cfg.Scan.DetectBuildArtifacts)
}

func TestParseKDL_WatchAndDisplay(t *testing.T) {
	kdlContent := `
watch {
    debounce_ms 150
}

display {
    format "json"
    color false
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, 150, cfg.Watch.DebounceMs)
	assert.Equal(t, "json", cfg.Display.Format)
	assert.False(t, cfg.Display.Color)
}

func TestParseKDL_IncludeExclude(t *testing.T) {
	kdlContent := `
include "src/**" "lib/**"
exclude "**/generated/**"
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**", "lib/**"}, cfg.Include)
	// A project exclude list replaces the defaults entirely.
	assert.Equal(t, []string{"**/generated/**"}, cfg.Exclude)
}

func TestParseKDL_ExcludeBlockForm(t *testing.T) {
	kdlContent := `
exclude {
    "**/snapshots/**"
    "**/migrations/**"
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/snapshots/**", "**/migrations/**"}, cfg.Exclude)
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
project {
    root "."
    name "data-pipeline"
}

scan {
    max_file_size "5MB"
    max_file_count 5000
    respect_gitignore true
}

display {
    format "yaml"
}

exclude "**/.git/**" "**/node_modules/**"
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "data-pipeline", cfg.Project.Name)
	assert.Equal(t, int64(5*1024*1024), cfg.Scan.MaxFileSize)
	assert.Equal(t, 5000, cfg.Scan.MaxFileCount)
	assert.Equal(t, "yaml", cfg.Display.Format)
	assert.Contains(t, cfg.Exclude, "**/.git/**")
	assert.Contains(t, cfg.Exclude, "**/node_modules/**")
}

func TestParseKDL_Invalid(t *testing.T) {
	_, err := parseKDL("scan {\n  unterminated")
	assert.Error(t, err)
}

func TestLoadKDL_MissingFile(t *testing.T) {
	cfg, err := LoadKDL(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDL_ResolvesRelativeRoot(t *testing.T) {
	dir := t.TempDir()
	kdlContent := `
project {
    root "src"
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lix.kdl"), []byte(kdlContent), 0o644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.Project.Root)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"512", 512},
		{"10B", 10},
		{"4KB", 4 * 1024},
		{"10MB", 10 * 1024 * 1024},
		{"1GB", 1024 * 1024 * 1024},
		{"2mb", 2 * 1024 * 1024},
	}
	for _, tt := range tests {
		got, err := parseSize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseSize("lots")
	assert.Error(t, err)
}
