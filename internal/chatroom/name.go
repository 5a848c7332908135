package chatroom

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Confidence reports how well a directory name matched the naming grammar.
type Confidence int

const (
	// ConfidenceExact means the name matched one of the three grammar forms.
	ConfidenceExact Confidence = iota
	// ConfidenceBestEffort means the name was malformed and the decoder fell
	// back to taking the last segment as ID and the second-to-last as name.
	ConfidenceBestEffort
)

func (c Confidence) String() string {
	if c == ConfidenceExact {
		return "exact"
	}
	return "best-effort"
}

// ParsedDirName is the tagged result of decoding a chatroom directory name.
// Decoding never fails; callers inspect Confidence to log malformed names
// at low severity without aborting a directory scan.
type ParsedDirName struct {
	Record     Record
	Confidence Confidence
}

// DecodeDirName parses a chatroom directory name. The grammar has three
// forms: a bare 33-character ID (unlabeled, joined), "name-ID" (labeled,
// joined), and "被退出-name-ID" (labeled, exited). A name that itself
// contains hyphens is not round-trippable through this grammar; such names
// decode best-effort with only the final hyphen-free token as the name.
//
// Decoded names are NFC-normalized so that trees staged through macOS
// (which stores NFD filenames) compare equal to table entries.
func DecodeDirName(name string) ParsedDirName {
	name = norm.NFC.String(name)

	// A bare ID would otherwise parse as a zero-length name.
	if len(name) == IDLength {
		return ParsedDirName{
			Record:     Record{ID: name, Status: StatusJoined},
			Confidence: ConfidenceExact,
		}
	}

	parts := strings.Split(name, "-")
	if len(parts) == 1 {
		// No separator and not ID-shaped. Guess the whole string is an ID.
		return ParsedDirName{
			Record:     Record{ID: name, Status: StatusJoined},
			Confidence: ConfidenceBestEffort,
		}
	}

	rec := Record{
		ID:     parts[len(parts)-1],
		Name:   parts[len(parts)-2],
		Status: StatusJoined,
	}

	// Only exactly three segments trigger status parsing. More segments
	// mean a hyphenated name was smeared across the grammar; the marker
	// check is skipped and the parse is best-effort.
	switch {
	case len(parts) == 3:
		if parts[0] == ExitedMarker {
			rec.Status = StatusExited
		} else {
			// Three segments without the marker can only come from a
			// hyphenated name.
			return ParsedDirName{Record: rec, Confidence: ConfidenceBestEffort}
		}
	case len(parts) > 3:
		return ParsedDirName{Record: rec, Confidence: ConfidenceBestEffort}
	}

	if !validID(rec.ID) {
		return ParsedDirName{Record: rec, Confidence: ConfidenceBestEffort}
	}

	return ParsedDirName{Record: rec, Confidence: ConfidenceExact}
}

// EncodeDirName is the inverse of DecodeDirName. The status-marker segment
// is omitted when the chatroom is joined, and an unlabeled joined chatroom
// encodes as its bare ID.
func EncodeDirName(rec Record) string {
	if rec.Status == StatusExited {
		return ExitedMarker + "-" + rec.Name + "-" + rec.ID
	}
	if rec.Name == "" {
		return rec.ID
	}
	return rec.Name + "-" + rec.ID
}

// validID reports whether s looks like a LINE chatroom ID: 'u', 'c' or 'r'
// followed by 32 lowercase hex digits.
func validID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	switch s[0] {
	case 'u', 'c', 'r':
	default:
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
