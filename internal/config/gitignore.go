package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser parses .gitignore files into matchable rules.
// Rules apply in file order and the last matching rule wins, so a !
// rule can re-include a path an earlier rule ignored.
type GitignoreParser struct {
	rules []gitignoreRule
}

type gitignoreRule struct {
	negate  bool
	dirOnly bool

	// anchor matches the rule's own target, subtree matches everything
	// below a matched directory.
	anchor  string
	subtree string
}

// NewGitignoreParser creates an empty parser.
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing
// file leaves the parser empty and is not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		gp.AddPattern(scanner.Text())
	}
	return scanner.Err()
}

// AddPattern parses a single gitignore line into a rule. Blank lines
// and comments are dropped.
func (gp *GitignoreParser) AddPattern(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	rule := gitignoreRule{}
	if strings.HasPrefix(line, "!") {
		rule.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	// A pattern containing a slash is anchored to the root; a bare
	// name matches at any depth.
	switch {
	case strings.HasPrefix(line, "/"):
		rule.anchor = strings.TrimPrefix(line, "/")
	case strings.Contains(line, "/"):
		rule.anchor = line
	default:
		rule.anchor = "**/" + line
	}
	rule.subtree = rule.anchor + "/**"

	if !doublestar.ValidatePattern(rule.anchor) {
		return
	}
	gp.rules = append(gp.rules, rule)
}

// ShouldIgnore reports whether the root-relative path is ignored.
// isDir distinguishes directory-only patterns.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)

	ignored := false
	for _, rule := range gp.rules {
		if rule.matches(path, isDir) {
			ignored = !rule.negate
		}
	}
	return ignored
}

func (r gitignoreRule) matches(path string, isDir bool) bool {
	if ok, _ := doublestar.Match(r.anchor, path); ok {
		return isDir || !r.dirOnly
	}
	// Files under a matched directory are covered by the rule too.
	ok, _ := doublestar.Match(r.subtree, path)
	return ok
}

// RuleCount reports how many usable rules were loaded.
func (gp *GitignoreParser) RuleCount() int {
	return len(gp.rules)
}
