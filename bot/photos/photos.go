// Package photos lists facility pictures stored on disk, one
// subdirectory per clinic site.
package photos

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Gallery serves image files from root/<site>/.
type Gallery struct {
	root string
}

func NewGallery(root string) *Gallery {
	return &Gallery{root: root}
}

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// List returns the sorted paths of all images for a site. A missing
// directory yields an empty list, not an error: the caller falls back
// to a "no photos" notice.
func (g *Gallery) List(site string) []string {
	dir := filepath.Join(g.root, site)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if _, ok := imageExts[ext]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths
}
