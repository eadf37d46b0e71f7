package scores_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plus3/poseninja/scores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	table, err := scores.Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 0, table.Best())
}

func TestRead(t *testing.T) {
	table, err := scores.Read(strings.NewReader("3\n10\n\n7\n1\n4\n9\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 9, 7, 4, 3}, table.Scores())

	t.Run("malformed", func(t *testing.T) {
		_, err := scores.Read(strings.NewReader("5\nabc\n"))
		require.ErrorIs(t, err, scores.ErrMalformed)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("negative", func(t *testing.T) {
		_, err := scores.Read(strings.NewReader("-1\n"))
		assert.ErrorIs(t, err, scores.ErrMalformed)
	})
}

func TestInsert(t *testing.T) {
	table, err := scores.Read(strings.NewReader("50\n40\n30\n"))
	require.NoError(t, err)

	tests := []struct {
		score int
		rank  int
		ok    bool
		after []int
	}{
		{45, 1, true, []int{50, 45, 40, 30}},
		{40, 3, true, []int{50, 45, 40, 40, 30}},
		{10, -1, false, []int{50, 45, 40, 40, 30}},
		{30, -1, false, []int{50, 45, 40, 40, 30}},
		{60, 0, true, []int{60, 50, 45, 40, 40}},
	}

	for _, tt := range tests {
		rank, ok := table.Insert(tt.score)
		assert.Equal(t, tt.ok, ok, "score %d", tt.score)
		assert.Equal(t, tt.rank, rank, "score %d", tt.score)
		assert.Equal(t, tt.after, table.Scores(), "score %d", tt.score)
	}
}

func TestInsertIntoEmpty(t *testing.T) {
	var table scores.Table
	rank, ok := table.Insert(0)
	assert.True(t, ok)
	assert.Equal(t, 0, rank)
	assert.Equal(t, []int{0}, table.Scores())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "scores.txt")

	var table scores.Table
	for _, s := range []int{5, 12, 8} {
		table.Insert(s)
	}
	require.NoError(t, table.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "12\n8\n5\n", string(data))

	reloaded, err := scores.Load(path)
	require.NoError(t, err)
	assert.Equal(t, table.Scores(), reloaded.Scores())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file cleaned up")

	reloaded.Reset()
	require.NoError(t, reloaded.Save(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
