package sniff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMimeSniffer_JPEG(t *testing.T) {
	prefix := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

	ext, ok := MimeSniffer{}.Guess(prefix)
	assert.True(t, ok)
	assert.Equal(t, "jpg", ext)
}

func TestMimeSniffer_PNG(t *testing.T) {
	prefix := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	ext, ok := MimeSniffer{}.Guess(prefix)
	assert.True(t, ok)
	assert.Equal(t, "png", ext)
}

func TestMimeSniffer_UnknownBinary(t *testing.T) {
	prefix := []byte{0x00, 0x01, 0x02, 0x03, 0xAB, 0xCD, 0xEF}

	_, ok := MimeSniffer{}.Guess(prefix)
	assert.False(t, ok, "unrecognized bytes must not produce a guess")
}

func TestMimeSniffer_Empty(t *testing.T) {
	_, ok := MimeSniffer{}.Guess(nil)
	assert.False(t, ok)
}
