package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineSeparatedStrToSet(t *testing.T) {
	s := LineSeparatedStrToSet("Thumbs.db\r\n\n  \n.Trashes\nThumbs.db\n")
	assert.Equal(t, 2, s.Cardinality())
	assert.True(t, s.Contains("Thumbs.db", ".Trashes"))
}

func TestReadLineSeparatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclusions.txt")
	require.NoError(t, os.WriteFile(path, []byte(".git\nnode_modules\n"), 0644))

	assert.True(t, IsReadableFile(path))
	assert.False(t, IsReadableFile(filepath.Dir(path)))

	s, err := ReadLineSeparatedFile(path)
	require.NoError(t, err)
	assert.True(t, s.Contains(".git", "node_modules"))

	_, err = ReadLineSeparatedFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
