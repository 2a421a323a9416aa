package main

import (
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/lix/internal/display"
	"github.com/standardbeagle/lix/pkg/extract"
)

// languagesCommand lists every supported language with its extensions
// and whether the tree-sitter grammar loaded.
func languagesCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c, "")
	if err != nil {
		return err
	}
	renderer := newRenderer(cfg)
	extractor := extract.Default()

	langs := extract.Languages()
	rows := make([]display.LanguageStatus, 0, len(langs))
	for _, lang := range langs {
		rows = append(rows, display.LanguageStatus{
			Name:       lang.String(),
			Extensions: lang.Extensions(),
			Available:  extractor.Available(lang),
		})
	}
	return renderer.Languages(rows)
}
