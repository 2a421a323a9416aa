package security

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func TestFileValidator(t *testing.T) {
	v := NewFileValidator()

	t.Run("SourcePasses", func(t *testing.T) {
		assert.NoError(t, v.Check("app.py", []byte("import os\nimport requests\n")))
	})

	t.Run("EmptyFilePasses", func(t *testing.T) {
		assert.NoError(t, v.Check("empty.go", nil))
	})

	t.Run("UTF8SourcePasses", func(t *testing.T) {
		content := []byte(strings.Repeat("# привет мир, こんにちは\nlibrary(dplyr)\n", 100))
		assert.NoError(t, v.Check("analysis.R", content))
	})

	t.Run("TabsAndCRLFPass", func(t *testing.T) {
		assert.NoError(t, v.Check("main.go", []byte("package main\r\n\r\nfunc main() {\r\n\tprintln(1)\r\n}\r\n")))
	})

	t.Run("ImageAsJavaScript", func(t *testing.T) {
		content := append(append([]byte{}, pngMagic...), bytes.Repeat([]byte{'A'}, 1024)...)
		err := v.Check("chart.js", content)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "png signature")
		assert.Contains(t, err.Error(), ".js")
	})

	t.Run("ExecutableAsGo", func(t *testing.T) {
		content := append([]byte{0x7F, 'E', 'L', 'F'}, bytes.Repeat([]byte{'A'}, 1024)...)
		err := v.Check("tool.go", content)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "elf executable")
	})

	t.Run("ArchiveAsPython", func(t *testing.T) {
		content := append([]byte{'P', 'K', 0x03, 0x04}, bytes.Repeat([]byte{'A'}, 1024)...)
		assert.Error(t, v.Check("wheel.py", content))
	})

	t.Run("NULPadding", func(t *testing.T) {
		content := append([]byte("var x = 1;"), bytes.Repeat([]byte{0x00}, 512)...)
		err := v.Check("artifact.js", content)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "NUL bytes")
	})

	t.Run("UTF16Garbage", func(t *testing.T) {
		content := bytes.Repeat([]byte{'a', 0x00}, 512)
		assert.Error(t, v.Check("wide.js", content))
	})

	t.Run("ControlByteGarbage", func(t *testing.T) {
		// One control byte in three is past the 30% cutoff. 0x01 keeps
		// the NUL rule out of the way.
		content := bytes.Repeat([]byte{0x01, 'a', 'b'}, 512)
		err := v.Check("data.ts", content)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "control bytes")
	})

	t.Run("GarbageAfterWindowIgnored", func(t *testing.T) {
		// Only the leading window is inspected; a long tail of odd
		// bytes in string literals is none of the screen's business.
		content := append([]byte(strings.Repeat("import os\n", 60)), bytes.Repeat([]byte{0x00}, 256)...)
		assert.NoError(t, v.Check("app.py", content))
	})
}
