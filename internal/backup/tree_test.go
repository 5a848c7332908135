package backup

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// tempTree creates an empty backup tree in a temp dir.
func tempTree(t *testing.T) *Tree {
	t.Helper()
	tree, err := NewTree(t.TempDir())
	require.NoError(t, err)
	return tree
}

// mkMsgDir creates a chatroom's message folder inside the tree.
func mkMsgDir(t *testing.T, tree *Tree, chatDirName string) string {
	t.Helper()
	msgDir := tree.MessageDir(chatDirName)
	require.NoError(t, os.MkdirAll(msgDir, 0o755))
	return msgDir
}

// writeFile writes a small file into dir.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// touch sets a file's mtime.
func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

// asDir creates a bare chatroom directory (no messages folder) in the tree.
func asDir(tree *Tree, chatDirName string) error {
	return os.Mkdir(filepath.Join(tree.Root(), chatDirName), 0o755)
}

// removeRoot deletes the tree's root out from under it.
func removeRoot(tree *Tree) error {
	return os.RemoveAll(tree.Root())
}

// snapshotTree returns every path under root relative to it, sorted, files
// and directories alike.
func snapshotTree(t *testing.T, root string) []string {
	t.Helper()

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)

	sort.Strings(paths)
	return paths
}

// --- Tree ---

func TestNewTree_MissingRoot(t *testing.T) {
	_, err := NewTree(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNewTree_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "chats", "not a dir")

	_, err := NewTree(filepath.Join(dir, "chats"))
	assert.Error(t, err)
}

func TestNewTree_EmptyRoot(t *testing.T) {
	_, err := NewTree("")
	assert.Error(t, err)
}

func TestTree_MessageDir(t *testing.T) {
	tree := tempTree(t)

	got := tree.MessageDir("name-c7acf23b06ad3e4c029dc5ef6d6e88444")
	want := filepath.Join(tree.Root(), "name-c7acf23b06ad3e4c029dc5ef6d6e88444", "messages")
	assert.Equal(t, want, got)
}

func TestTree_InferenceRootIsSiblingOfRoot(t *testing.T) {
	base := t.TempDir()
	chats := filepath.Join(base, "chats")
	require.NoError(t, os.Mkdir(chats, 0o755))

	tree, err := NewTree(chats)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "_MessageIDs"), tree.InferenceRoot())
}

func TestThumbnailFileName(t *testing.T) {
	assert.Equal(t, "43312.thumb.jpg", ThumbnailFileName("43312"))
}
