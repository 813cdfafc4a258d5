package photos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "main_site")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"b.jpg", "a.PNG", "notes.txt", "c.jpeg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	got := NewGallery(root).List("main_site")
	want := []string{
		filepath.Join(dir, "a.PNG"),
		filepath.Join(dir, "b.jpg"),
		filepath.Join(dir, "c.jpeg"),
	}
	assert.Equal(t, want, got)
}

func TestListMissingDirIsEmpty(t *testing.T) {
	g := NewGallery(t.TempDir())
	assert.Empty(t, g.List("nope"))
}
