// Package chatroom holds the chatroom identity model shared by every part
// of the backup tool: the LINE-style chatroom ID, the human-supplied label,
// the joined/exited status, the on-disk directory-name encoding, and the
// message-ID grammar used by asset filenames.
package chatroom

// Status is the membership state of a chatroom. The numeric values match
// the CSV mapping-table encoding.
type Status int

const (
	StatusJoined Status = 1
	StatusExited Status = 2
)

// ExitedMarker is the literal directory-name token that marks an exited
// chatroom. It is supplied by the backup owner when renaming directories
// and must be matched byte-for-byte, never translated.
const ExitedMarker = "被退出"

// IDLength is the length of a LINE chatroom ID: a leading 'u', 'c' or 'r'
// followed by 32 hex digits.
const IDLength = 33

// Record identifies one chatroom. ID is the only field stable across
// renames. An empty Name means no label has been assigned yet.
type Record struct {
	ID     string
	Name   string
	Status Status
}
