package backup

import (
	"fmt"
	"sort"

	"github.com/chiahao/linebackup/internal/chatroom"
)

// NewChatrooms returns the chatroom IDs present under newRoot but not
// under oldRoot, sorted, for operator review after a fresh raw backup. A
// missing root on either side is a configuration error.
func NewChatrooms(oldRoot, newRoot string) ([]string, error) {
	oldIDs, err := chatroomIDSet(oldRoot)
	if err != nil {
		return nil, err
	}

	newIDs, err := chatroomIDSet(newRoot)
	if err != nil {
		return nil, err
	}

	var diff []string
	for id := range newIDs {
		if !oldIDs[id] {
			diff = append(diff, id)
		}
	}
	sort.Strings(diff)

	return diff, nil
}

func chatroomIDSet(root string) (map[string]bool, error) {
	names, err := listDirs(root)
	if err != nil {
		return nil, fmt.Errorf("listing chatroom directories in %s: %w", root, err)
	}

	ids := make(map[string]bool, len(names))
	for _, name := range names {
		ids[chatroom.DecodeDirName(name).Record.ID] = true
	}

	return ids, nil
}
