package boundary

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/paulmach/orb"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/domain"
)

var extensions = []string{".geojson", ".json", ".wkt"}

// FileStore reads boundaries from <Dir>/<name>.geojson, <name>.json or
// <name>.wkt, in that order.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) Boundary(ctx context.Context, name string) (orb.Geometry, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return nil, fmt.Errorf("%w: invalid name %q", domain.ErrBoundaryNotFound, name)
	}

	for _, ext := range extensions {
		path := filepath.Join(s.Dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read boundary %q: %w", name, err)
		}

		var mp orb.MultiPolygon
		if ext == ".wkt" {
			mp, err = ParseWKT(string(data))
		} else {
			mp, err = Parse(data)
		}
		if err != nil {
			return nil, fmt.Errorf("boundary %q: %w", name, err)
		}
		slog.DebugContext(ctx, "boundary loaded from file", "path", path, "polygons", len(mp))
		return mp, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrBoundaryNotFound, name)
}

// Names lists the boundary files in Dir, without extension, sorted.
func (s *FileStore) Names(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list boundaries: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !slices.Contains(extensions, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}
