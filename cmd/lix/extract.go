package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"
	"github.com/urfave/cli/v2"

	lixerrors "github.com/standardbeagle/lix/internal/errors"
	"github.com/standardbeagle/lix/internal/types"
	"github.com/standardbeagle/lix/pkg/extract"
)

// extractCommand runs the dispatcher over each file argument. The
// special path "-" reads source from stdin and needs --lang, since
// there is no extension to dispatch on. Failures are reported per file
// without aborting the rest of the batch.
func extractCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: lix extract <file...>", 2)
	}

	cfg, err := loadConfigWithOverrides(c, "")
	if err != nil {
		return err
	}
	renderer := newRenderer(cfg)
	extractor := extract.Default()

	results := make([]types.FileResult, 0, c.NArg())
	var hints []string
	failed := false
	for _, path := range c.Args().Slice() {
		var res types.FileResult
		if path == "-" {
			res, err = extractStdin(c, extractor)
			if err != nil {
				return err
			}
		} else {
			var hint string
			res, hint = extractPath(extractor, path)
			if hint != "" {
				hints = append(hints, hint)
			}
		}
		if res.Status == types.FileStatusFailed {
			failed = true
		}
		results = append(results, res)
	}

	if err := renderer.Files(results); err != nil {
		return err
	}
	for _, hint := range hints {
		fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
	}
	if failed {
		// Failures are already in the rendered output.
		return cli.Exit("", 1)
	}
	return nil
}

// extractPath extracts one file into a FileResult, plus a did-you-mean
// hint when the extension looks like a typo of a supported one.
func extractPath(x *extract.Extractor, path string) (types.FileResult, string) {
	start := time.Now()
	res := types.FileResult{Path: path}

	libs, err := x.FromFile(path)
	if err != nil {
		res.Status = types.FileStatusFailed
		res.Error = err.Error()
		res.SetDuration(time.Since(start))
		return res, unsupportedHint(err)
	}

	lang, _ := extract.LanguageForExtension(filepath.Ext(path))
	res.Language = lang.String()
	res.Status = types.FileStatusExtracted
	res.Libraries = libs
	res.SetDuration(time.Since(start))
	return res, ""
}

func extractStdin(c *cli.Context, x *extract.Extractor) (types.FileResult, error) {
	langName := c.String("lang")
	if langName == "" {
		return types.FileResult{}, cli.Exit("reading from stdin requires --lang", 2)
	}
	lang, ok := extract.ParseLanguage(langName)
	if !ok {
		return types.FileResult{}, cli.Exit(
			fmt.Sprintf("unknown language %q, supported languages are %s", langName, supportedLanguageNames()), 2)
	}

	start := time.Now()
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return types.FileResult{}, fmt.Errorf("failed to read stdin: %w", err)
	}

	res := types.FileResult{Path: "stdin", Language: lang.String()}
	libs, err := x.Source(lang, string(source))
	if err != nil {
		res.Status = types.FileStatusFailed
		res.Error = err.Error()
	} else {
		res.Status = types.FileStatusExtracted
		res.Libraries = libs
	}
	res.SetDuration(time.Since(start))
	return res, nil
}

// unsupportedHint suggests the closest supported extension when err is
// an UnsupportedExtensionError that looks like a near miss, .pyy for
// .py say. The error's own message is left alone; the hint is extra.
func unsupportedHint(err error) string {
	var extErr *lixerrors.UnsupportedExtensionError
	if !errors.As(err, &extErr) || extErr.Extension == "" {
		return ""
	}

	best := ""
	bestDistance := 1000
	for _, candidate := range extErr.Supported {
		if distance := edlib.LevenshteinDistance(extErr.Extension, candidate); distance < bestDistance {
			bestDistance = distance
			best = candidate
		}
	}
	if bestDistance < 1 || bestDistance > 2 {
		return ""
	}
	return fmt.Sprintf("did you mean %s instead of %s?", best, extErr.Extension)
}

func supportedLanguageNames() string {
	langs := extract.Languages()
	names := make([]string, len(langs))
	for i, lang := range langs {
		names[i] = lang.String()
	}
	return strings.Join(names, ", ")
}
