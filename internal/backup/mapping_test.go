package backup

import (
	"path/filepath"
	"testing"

	"github.com/chiahao/linebackup/internal/chatroom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Extract ---

func TestExtractRecords(t *testing.T) {
	tree := tempTree(t)
	require.NoError(t, asDir(tree, roomA))
	require.NoError(t, asDir(tree, "旅行團-"+roomB))
	require.NoError(t, asDir(tree, "被退出-老同學-"+roomC))
	writeFile(t, tree.Root(), "stray.log", "not a chatroom")

	records, err := ExtractRecords(tree, discardLogger)
	require.NoError(t, err)

	assert.ElementsMatch(t, []chatroom.Record{
		{ID: roomA, Name: "", Status: chatroom.StatusJoined},
		{ID: roomB, Name: "旅行團", Status: chatroom.StatusJoined},
		{ID: roomC, Name: "老同學", Status: chatroom.StatusExited},
	}, records)
}

func TestExtractRecords_MissingRoot(t *testing.T) {
	tree := tempTree(t)
	require.NoError(t, removeRoot(tree))

	_, err := ExtractRecords(tree, discardLogger)
	assert.Error(t, err)
}

// --- Prefix ---

func TestPrefixDirNames_RenamesBareIDs(t *testing.T) {
	tree := tempTree(t)
	require.NoError(t, asDir(tree, roomA))
	require.NoError(t, asDir(tree, roomB))

	records := []chatroom.Record{
		{ID: roomA, Name: "家有兩寶", Status: chatroom.StatusJoined},
		{ID: roomB, Name: "旅行團", Status: chatroom.StatusExited},
	}

	renamed, err := PrefixDirNames(tree, records, discardLogger)
	require.NoError(t, err)

	assert.Equal(t, 2, renamed)
	assert.DirExists(t, filepath.Join(tree.Root(), "家有兩寶-"+roomA))
	assert.DirExists(t, filepath.Join(tree.Root(), "被退出-旅行團-"+roomB))
	assert.NoDirExists(t, filepath.Join(tree.Root(), roomA))
	assert.NoDirExists(t, filepath.Join(tree.Root(), roomB))
}

func TestPrefixDirNames_SkipsEmptyNames(t *testing.T) {
	tree := tempTree(t)
	require.NoError(t, asDir(tree, roomA))

	renamed, err := PrefixDirNames(tree, []chatroom.Record{
		{ID: roomA, Name: "", Status: chatroom.StatusJoined},
	}, discardLogger)
	require.NoError(t, err)

	assert.Zero(t, renamed)
	assert.DirExists(t, filepath.Join(tree.Root(), roomA))
}

func TestPrefixDirNames_SkipsUnknownDirs(t *testing.T) {
	tree := tempTree(t)
	require.NoError(t, asDir(tree, roomA))

	renamed, err := PrefixDirNames(tree, []chatroom.Record{
		{ID: roomB, Name: "elsewhere", Status: chatroom.StatusJoined},
	}, discardLogger)
	require.NoError(t, err)

	assert.Zero(t, renamed)
	assert.DirExists(t, filepath.Join(tree.Root(), roomA))
}

func TestPrefixDirNames_AlreadyRenamedUntouched(t *testing.T) {
	tree := tempTree(t)
	require.NoError(t, asDir(tree, "家有兩寶-"+roomA))

	// The table keys by bare ID; an already-renamed directory no longer
	// matches and stays as it is.
	renamed, err := PrefixDirNames(tree, []chatroom.Record{
		{ID: roomA, Name: "家有兩寶", Status: chatroom.StatusJoined},
	}, discardLogger)
	require.NoError(t, err)

	assert.Zero(t, renamed)
	assert.DirExists(t, filepath.Join(tree.Root(), "家有兩寶-"+roomA))
}

func TestPrefixDirNames_EmptyTableIsNoOp(t *testing.T) {
	tree := tempTree(t)
	require.NoError(t, asDir(tree, roomA))

	renamed, err := PrefixDirNames(tree, nil, discardLogger)
	require.NoError(t, err)
	assert.Zero(t, renamed)
}
