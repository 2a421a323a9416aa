// Package stdlib holds the standard-library registries used to classify
// extracted dependencies. The word lists are embedded at build time and
// parsed once during init; after that the registry is read-only.
package stdlib

import (
	_ "embed"
	"strings"
)

//go:embed data/python.txt
var pythonData string

//go:embed data/r.txt
var rData string

//go:embed data/rust.txt
var rustData string

//go:embed data/javascript.txt
var javascriptData string

var pythonModules = map[string]bool{}
var rPackages = map[string]bool{}
var rustCrates = map[string]bool{}
var nodeBuiltins = map[string]bool{}

func init() {
	for _, line := range strings.Split(pythonData, "\n") {
		registerLine(pythonModules, line)
	}
	for _, line := range strings.Split(rData, "\n") {
		registerLine(rPackages, line)
	}
	for _, line := range strings.Split(rustData, "\n") {
		registerLine(rustCrates, line)
	}
	for _, line := range strings.Split(javascriptData, "\n") {
		registerLine(nodeBuiltins, line)
	}
}

// registerLine adds one word-list entry to dst, skipping blanks and comments.
// Dotted entries also register their first segment so that submodule listings
// like urllib.request resolve the same as urllib.
func registerLine(dst map[string]bool, line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	dst[line] = true
	if idx := strings.IndexByte(line, '.'); idx > 0 {
		dst[line[:idx]] = true
	}
}

// Python returns the set of Python standard-library top-level module names.
func Python() map[string]bool {
	return pythonModules
}

// R returns the set of packages shipped with the R distribution.
func R() map[string]bool {
	return rPackages
}

// Rust returns the set of standard-library crate roots.
func Rust() map[string]bool {
	return rustCrates
}

// JavaScript returns the set of Node.js builtin module names.
func JavaScript() map[string]bool {
	return nodeBuiltins
}

// IsGoStdlib reports whether an import path names a Go standard-library
// package. Stdlib paths are bare single-segment names; anything with a
// domain or a path separator is an external module.
func IsGoStdlib(path string) bool {
	return !strings.Contains(path, ".") && !strings.Contains(path, "/")
}

// IsNodeBuiltin reports whether a normalized package name refers to a
// Node.js builtin, either via the node: scheme or the bare builtin list.
func IsNodeBuiltin(name string) bool {
	if strings.HasPrefix(name, "node:") {
		return true
	}
	return nodeBuiltins[name]
}
