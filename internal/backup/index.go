package backup

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/chiahao/linebackup/internal/chatroom"
)

// Index owns the chatroom-ID to directory-name mapping for one backup root
// for the duration of one run. It is rebuilt from disk on every run and is
// read-only once built; EnsureMessageDir may create a directory on disk for
// an unknown ID but deliberately does not update the in-memory mapping.
type Index struct {
	tree       *Tree
	dirNames   []string
	byID       map[string]string
	collisions []Collision
}

// Collision records two directory names that decode to the same chatroom
// ID. The later enumeration wins; the operator is expected to resolve the
// duplicate manually.
type Collision struct {
	ID       string
	Kept     string
	Shadowed string
}

// BuildIndex enumerates the immediate chatroom directories of the tree's
// root and decodes each into an identity. Malformed names still index
// best-effort (logged at Debug); ID collisions are recorded and logged at
// Warn rather than silently letting the later directory win unnoticed.
func BuildIndex(tree *Tree, logger *slog.Logger) (*Index, error) {
	dirNames, err := listDirs(tree.Root())
	if err != nil {
		return nil, fmt.Errorf("listing chatroom directories in %s: %w", tree.Root(), err)
	}

	ix := &Index{
		tree:     tree,
		dirNames: dirNames,
		byID:     make(map[string]string, len(dirNames)),
	}

	for _, name := range dirNames {
		parsed := chatroom.DecodeDirName(name)
		if parsed.Confidence != chatroom.ConfidenceExact {
			logger.Debug("chatroom directory name parsed best-effort",
				slog.String("dir", name),
				slog.String("id", parsed.Record.ID),
			)
		}

		if prev, ok := ix.byID[parsed.Record.ID]; ok {
			ix.collisions = append(ix.collisions, Collision{
				ID:       parsed.Record.ID,
				Kept:     name,
				Shadowed: prev,
			})
			logger.Warn("two chatroom directories decode to the same ID",
				slog.String("id", parsed.Record.ID),
				slog.String("kept", name),
				slog.String("shadowed", prev),
			)
		}

		ix.byID[parsed.Record.ID] = name
	}

	return ix, nil
}

// Resolve returns the directory name for a chatroom ID.
func (ix *Index) Resolve(id string) (string, bool) {
	name, ok := ix.byID[id]
	return name, ok
}

// DirNames returns the indexed directory names in enumeration order. The
// order is whatever the filesystem produced; callers use it for logging,
// never for correctness.
func (ix *Index) DirNames() []string {
	return ix.dirNames
}

// IDs returns the indexed chatroom IDs in enumeration order of the
// directories that produced them. Shadowed duplicates appear once.
func (ix *Index) IDs() []string {
	ids := make([]string, 0, len(ix.byID))
	seen := make(map[string]bool, len(ix.byID))
	for _, name := range ix.dirNames {
		id := chatroom.DecodeDirName(name).Record.ID
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Collisions returns the duplicate-ID collisions found while building.
func (ix *Index) Collisions() []Collision {
	return ix.collisions
}

// EnsureMessageDir resolves the message folder for a chatroom ID, creating
// a fresh directory named by the bare ID when the ID is unknown to this
// root. The in-memory index is NOT updated: the directory exists on disk
// but a later Resolve for the same ID still reports absent.
func (ix *Index) EnsureMessageDir(id string) (string, error) {
	dirName, ok := ix.byID[id]
	if !ok {
		dirName = id
		msgDir := ix.tree.MessageDir(dirName)
		if err := os.MkdirAll(msgDir, dirPerm); err != nil {
			return "", fmt.Errorf("creating message folder for chatroom %s: %w", id, err)
		}
		return msgDir, nil
	}

	return ix.tree.MessageDir(dirName), nil
}
