package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lixerrors "github.com/standardbeagle/lix/internal/errors"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFromFilePython(t *testing.T) {
	path := writeTestFile(t, "app.py", "import os\nimport requests\nfrom . import db\n")
	libs, err := FromFile(path)
	require.NoError(t, err)
	assertSets(t, libs, []string{"os"}, []string{"requests"}, []string{"db"})
}

func TestFromFileRBothExtensions(t *testing.T) {
	for _, name := range []string{"analysis.r", "analysis.R"} {
		path := writeTestFile(t, name, "library(ggplot2)\n")
		libs, err := FromFile(path)
		require.NoError(t, err, name)
		assert.True(t, libs.ThirdParty.Contains("ggplot2"), name)
	}
}

func TestFromFileTypeScript(t *testing.T) {
	path := writeTestFile(t, "main.tsx", "import React from 'react';\nimport App from './app';\n")
	libs, err := FromFile(path)
	require.NoError(t, err)
	assertSets(t, libs, nil, []string{"react"}, []string{"app"})
}

func TestFromFileMissing(t *testing.T) {
	libs, err := FromFile(filepath.Join(t.TempDir(), "nope.py"))
	assert.Nil(t, libs)

	var fileErr *lixerrors.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, lixerrors.ErrorTypeFileNotFound, fileErr.Type)
}

func TestFromFileUnsupportedExtension(t *testing.T) {
	path := writeTestFile(t, "Main.java", "import java.util.List;\n")
	libs, err := FromFile(path)
	assert.Nil(t, libs)

	var extErr *lixerrors.UnsupportedExtensionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, ".java", extErr.Extension)
	assert.ElementsMatch(t,
		[]string{".py", ".r", ".R", ".go", ".rs", ".js", ".jsx", ".ts", ".tsx"},
		extErr.Supported)
}

func TestFromFileNoExtension(t *testing.T) {
	path := writeTestFile(t, "Makefile", "all:\n\ttrue\n")
	_, err := FromFile(path)

	var extErr *lixerrors.UnsupportedExtensionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "", extErr.Extension)
}

func TestFromFileDirectory(t *testing.T) {
	_, err := FromFile(t.TempDir())

	var fileErr *lixerrors.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, "read", fileErr.Operation)
}

func TestFromFileCaseSensitiveExtensions(t *testing.T) {
	path := writeTestFile(t, "script.PY", "import os\n")
	_, err := FromFile(path)
	assert.True(t, errors.As(err, new(*lixerrors.UnsupportedExtensionError)))
}
