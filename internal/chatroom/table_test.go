package chatroom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tablePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "chatroom.csv")
}

func TestWriteTable_ThenReadBack(t *testing.T) {
	path := tablePath(t)
	records := []Record{
		{ID: testID, Name: "家有兩寶", Status: StatusJoined},
		{ID: testID2, Name: "", Status: StatusJoined},
		{ID: "r0123456789abcdef0123456789abcdef", Name: "旅行團", Status: StatusExited},
	}

	require.NoError(t, WriteTable(path, records))

	got, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestWriteTable_HeaderFirst(t *testing.T) {
	path := tablePath(t)
	require.NoError(t, WriteTable(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID,Name,Status\n", string(data))
}

func TestWriteTable_ReplacesExistingFile(t *testing.T) {
	path := tablePath(t)
	require.NoError(t, WriteTable(path, []Record{{ID: testID, Name: "old", Status: StatusJoined}}))
	require.NoError(t, WriteTable(path, []Record{{ID: testID2, Name: "new", Status: StatusJoined}}))

	got, err := ReadTable(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, testID2, got[0].ID)
}

func TestReadTable_MissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestReadTable_InvalidStatus(t *testing.T) {
	path := tablePath(t)
	require.NoError(t, os.WriteFile(path, []byte("ID,Name,Status\n"+testID+",x,9\n"), 0o644))

	_, err := ReadTable(path)
	assert.ErrorContains(t, err, "invalid status")
}

func TestReadTable_EmptyFile(t *testing.T) {
	path := tablePath(t)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, err := ReadTable(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
