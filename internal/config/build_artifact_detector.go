// Build artifact detection from language-specific configuration files.
// Parses package.json, tsconfig.json, Cargo.toml, pyproject.toml and R
// lockfiles to find output directories that should never be scanned.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BuildArtifactDetector finds language-specific build output directories
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories scans for build configuration files and
// returns glob patterns for the output directories they declare.
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	var patterns []string

	patterns = append(patterns, bad.detectJavaScriptOutputs()...)
	patterns = append(patterns, bad.detectRustOutputs()...)
	patterns = append(patterns, bad.detectPythonOutputs()...)
	patterns = append(patterns, bad.detectRLibraries()...)

	return patterns
}

// detectJavaScriptOutputs finds JS/TS build outputs
func (bad *BuildArtifactDetector) detectJavaScriptOutputs() []string {
	var patterns []string

	packageJSON := filepath.Join(bad.projectRoot, "package.json")
	if data, err := os.ReadFile(packageJSON); err == nil {
		var pkg map[string]interface{}
		if json.Unmarshal(data, &pkg) == nil {
			if scripts, ok := pkg["scripts"].(map[string]interface{}); ok {
				for _, script := range scripts {
					scriptStr, ok := script.(string)
					if !ok {
						continue
					}
					// Pull --outDir targets out of build scripts
					parts := strings.Fields(scriptStr)
					for i, part := range parts {
						if (part == "--outDir" || part == "-outDir") && i+1 < len(parts) {
							outDir := strings.Trim(parts[i+1], "\"'")
							patterns = append(patterns, "**/"+outDir+"/**")
						}
					}
				}
			}
			if buildConfig, ok := pkg["build"].(map[string]interface{}); ok {
				if outDir, ok := buildConfig["outDir"].(string); ok {
					patterns = append(patterns, "**/"+outDir+"/**")
				}
			}
		}
	}

	tsconfigJSON := filepath.Join(bad.projectRoot, "tsconfig.json")
	if data, err := os.ReadFile(tsconfigJSON); err == nil {
		var tsconfig map[string]interface{}
		if json.Unmarshal(data, &tsconfig) == nil {
			if compilerOptions, ok := tsconfig["compilerOptions"].(map[string]interface{}); ok {
				if outDir, ok := compilerOptions["outDir"].(string); ok {
					patterns = append(patterns, "**/"+outDir+"/**")
				}
			}
		}
	}

	// vite.config.js/ts carries its outDir inside JS source, so a
	// quoted-string heuristic stands in for actually evaluating it.
	for _, viteConfig := range []string{"vite.config.js", "vite.config.ts"} {
		data, err := os.ReadFile(filepath.Join(bad.projectRoot, viteConfig))
		if err != nil {
			continue
		}
		if dir := extractQuotedValue(string(data), "outDir"); dir != "" {
			patterns = append(patterns, "**/"+dir+"/**")
		}
	}

	return patterns
}

// extractQuotedValue finds key: 'value' or key: "value" in source text.
func extractQuotedValue(content, key string) string {
	idx := strings.Index(content, key)
	if idx == -1 {
		return ""
	}
	rest := content[idx+len(key):]
	colonIdx := strings.Index(rest, ":")
	if colonIdx == -1 {
		return ""
	}
	rest = rest[colonIdx+1:]
	for _, quote := range []string{"'", "\""} {
		if !strings.Contains(rest, quote) {
			continue
		}
		parts := strings.Split(rest, quote)
		if len(parts) >= 2 {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

// detectRustOutputs finds Rust build outputs declared in Cargo.toml
func (bad *BuildArtifactDetector) detectRustOutputs() []string {
	var patterns []string

	cargoTOML := filepath.Join(bad.projectRoot, "Cargo.toml")
	if data, err := os.ReadFile(cargoTOML); err == nil {
		var cargo map[string]interface{}
		if toml.Unmarshal(data, &cargo) == nil {
			// [build] target-dir moves the whole output tree
			if build, ok := cargo["build"].(map[string]interface{}); ok {
				if targetDir, ok := build["target-dir"].(string); ok {
					patterns = append(patterns, "**/"+targetDir+"/**")
				}
			}
			if profile, ok := cargo["profile"].(map[string]interface{}); ok {
				if release, ok := profile["release"].(map[string]interface{}); ok {
					if targetDir, ok := release["target-dir"].(string); ok {
						patterns = append(patterns, "**/"+targetDir+"/**")
					}
				}
			}
		}
	}

	return patterns
}

// detectPythonOutputs finds Python build outputs
func (bad *BuildArtifactDetector) detectPythonOutputs() []string {
	var patterns []string

	pyprojectTOML := filepath.Join(bad.projectRoot, "pyproject.toml")
	if data, err := os.ReadFile(pyprojectTOML); err == nil {
		var pyproject map[string]interface{}
		if toml.Unmarshal(data, &pyproject) == nil {
			if tool, ok := pyproject["tool"].(map[string]interface{}); ok {
				if poetry, ok := tool["poetry"].(map[string]interface{}); ok {
					if build, ok := poetry["build"].(map[string]interface{}); ok {
						if targetDir, ok := build["target-dir"].(string); ok {
							patterns = append(patterns, "**/"+targetDir+"/**")
						}
					}
				}
			}
		}
	}

	return patterns
}

// detectRLibraries excludes R package libraries managed by renv or
// packrat. Their trees hold full third-party package sources whose
// imports would drown out the project's own.
func (bad *BuildArtifactDetector) detectRLibraries() []string {
	var patterns []string

	if _, err := os.Stat(filepath.Join(bad.projectRoot, "renv.lock")); err == nil {
		patterns = append(patterns, "**/renv/library/**", "**/renv/staging/**")
	}
	if _, err := os.Stat(filepath.Join(bad.projectRoot, "packrat", "packrat.lock")); err == nil {
		patterns = append(patterns, "**/packrat/lib*/**", "**/packrat/src/**")
	}

	return patterns
}
