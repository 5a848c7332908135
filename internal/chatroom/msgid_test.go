package chatroom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageID(t *testing.T) {
	tests := []struct {
		filename string
		want     int64
	}{
		{"25458", 25458},
		{"voice_43312.aac", 43312},
		{"43416.m4a", 43416},
		{"100.thumb", 100},
		{"100.thumb.jpg", 100},
		{"200.original", 200},
		{"message-content-temp-3177902840377559522.tmp", 0},
		{"voice_", 0},
		{"", 0},
		{".hidden", 0},
		{"backup.log", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MessageID(tt.filename), "MessageID(%q)", tt.filename)
	}
}

func TestMessageID_DigitRunTooLongForInt64(t *testing.T) {
	assert.Equal(t, int64(0), MessageID("99999999999999999999999999999999"))
}

func TestMessageID_TrailingJunkIgnored(t *testing.T) {
	assert.Equal(t, int64(42), MessageID("42abc.def.ghi"))
}
