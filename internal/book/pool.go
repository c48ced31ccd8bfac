package book

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nao1215/coloringbook/internal/export"
	"github.com/nao1215/coloringbook/internal/raster"
)

// Pool is a read-only snapshot of the page files in a directory.
type Pool struct {
	Dir string
	// Names are file names sorted lexicographically.
	Names []string
}

// Snapshot lists the page files of dir once. Later changes to the directory
// do not affect the returned pool.
func Snapshot(dir string) (*Pool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrEmptyPool, dir)
		}
		return nil, fmt.Errorf("failed to read page pool: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || export.IsTempName(e.Name()) || !raster.IsSupported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return &Pool{Dir: dir, Names: names}, nil
}

// Len returns the number of pages in the pool.
func (p *Pool) Len() int { return len(p.Names) }

// Path returns the full path of a pool file name.
func (p *Pool) Path(name string) string {
	return filepath.Join(p.Dir, name)
}
