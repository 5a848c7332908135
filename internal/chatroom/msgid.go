package chatroom

import (
	"regexp"
	"strconv"
)

// Message asset filenames carry a numeric message ID, optionally prefixed
// with "voice_": `25458`, `voice_43312.aac`, `43416.m4a`. Anything after
// the first non-digit is ignored.
var msgIDPattern = regexp.MustCompile(`^(voice_)?([0-9]+)`)

// MessageID extracts the message ID from an asset filename. It returns 0
// when the filename carries no leading digit run (after the optional
// "voice_" prefix), which callers use to exclude log and temp files from
// watermark and sync computations without raising an error.
func MessageID(filename string) int64 {
	m := msgIDPattern.FindStringSubmatch(filename)
	if m == nil {
		return 0
	}

	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		// Digit run too long to be a message ID.
		return 0
	}

	return id
}
