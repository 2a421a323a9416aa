package extract

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/standardbeagle/lix/internal/debug"
	lixerrors "github.com/standardbeagle/lix/internal/errors"
)

// FromFile reads path and extracts with the extractor matching its
// extension. The file is read before the extension is checked, so an
// unreadable file reports a read failure even when the extension is
// unsupported.
func (x *Extractor) FromFile(path string) (*ImportedLibraries, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, lixerrors.NewFileNotFoundError(path)
		}
		return nil, lixerrors.NewFileError("stat", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lixerrors.NewFileError("read", path, err)
	}

	ext := filepath.Ext(path)
	lang, ok := LanguageForExtension(ext)
	if !ok {
		return nil, lixerrors.NewUnsupportedExtensionError(ext, SupportedExtensions())
	}

	debug.LogExtraction("file %s dispatched to %s extractor", path, lang)
	libs, err := x.Source(lang, string(data))
	if err != nil {
		var extractErr *lixerrors.ExtractionError
		if errors.As(err, &extractErr) {
			return nil, extractErr.WithFile(path)
		}
		return nil, err
	}
	return libs, nil
}
