// Package security screens scan candidates whose extension says source
// but whose bytes say otherwise: images renamed to .js, executables
// dropped into src trees, NUL-padded build artifacts. Parsing those
// costs parser time and memory and can never yield an import.
package security

import (
	"bytes"
	"fmt"
	"path/filepath"
)

// sniffWindow is how much of the content the heuristics inspect.
const sniffWindow = 512

// signature is a magic prefix of a format that turns up disguised under
// source extensions. Compressed bodies sit mostly in printable byte
// ranges, so the byte-ratio heuristics alone miss them.
type signature struct {
	format string
	magic  []byte
}

var binarySignatures = []signature{
	{"png", []byte{0x89, 'P', 'N', 'G'}},
	{"jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"gif", []byte("GIF8")},
	{"pdf", []byte("%PDF")},
	{"zip", []byte{'P', 'K', 0x03, 0x04}},
	{"zip", []byte{'P', 'K', 0x05, 0x06}},
	{"gzip", []byte{0x1F, 0x8B}},
	{"elf executable", []byte{0x7F, 'E', 'L', 'F'}},
	{"pe executable", []byte("MZ")},
	{"mach-o executable", []byte{0xCA, 0xFE, 0xBA, 0xBE}},
	{"woff font", []byte("wOFF")},
	{"woff2 font", []byte("wOF2")},
	{"wasm", []byte{0x00, 'a', 's', 'm'}},
}

// FileValidator rejects content that cannot be source code before it
// reaches the parsers. It works on bytes the caller already read; the
// scanner loads every candidate anyway, so screening adds no IO.
type FileValidator struct {
	signatures []signature
}

func NewFileValidator() *FileValidator {
	return &FileValidator{signatures: binarySignatures}
}

// Check reports why content must not be parsed as source from path, or
// nil when it may. The error text doubles as the recorded skip reason.
func (v *FileValidator) Check(path string, content []byte) error {
	if len(content) == 0 {
		return nil
	}

	sample := content
	if len(sample) > sniffWindow {
		sample = sample[:sniffWindow]
	}

	for _, sig := range v.signatures {
		if bytes.HasPrefix(sample, sig.magic) {
			return fmt.Errorf("binary content: %s signature under %s extension", sig.format, filepath.Ext(path))
		}
	}

	nuls, control := 0, 0
	for _, b := range sample {
		if b == 0 {
			nuls++
		}
		// Control characters outside tab, LF, VT, FF, CR, plus DEL.
		// Multi-byte UTF-8 sequences all sit above 127 and never count.
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			control++
		}
	}
	if nuls > len(sample)/100 {
		return fmt.Errorf("binary content: %d NUL bytes in leading %d", nuls, len(sample))
	}
	if control > len(sample)*30/100 {
		return fmt.Errorf("binary content: %d control bytes in leading %d", control, len(sample))
	}
	return nil
}
