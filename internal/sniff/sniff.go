// Package sniff provides content-based file type detection for the
// extension corrector. Detection is behind a small interface so tests can
// substitute a fixed table of answers.
package sniff

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ReadLimit is the number of leading bytes a caller should feed to Guess.
// It matches the longest magic-byte sequence the detector inspects.
const ReadLimit = 3072

// Sniffer guesses a file extension (without the leading dot) from a file's
// leading bytes. ok is false when no confident guess exists.
type Sniffer interface {
	Guess(prefix []byte) (ext string, ok bool)
}

// MimeSniffer detects file types with the mimetype magic-byte database.
type MimeSniffer struct{}

func (MimeSniffer) Guess(prefix []byte) (string, bool) {
	m := mimetype.Detect(prefix)

	// application/octet-stream is the detector's "no idea" answer, not a
	// guess. Some recognized types also carry no conventional extension.
	if m.Is("application/octet-stream") {
		return "", false
	}

	ext := strings.TrimPrefix(m.Extension(), ".")
	if ext == "" {
		return "", false
	}

	return ext, true
}
