package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FileSource reads datasets from a local directory. Ref.File is resolved
// relative to Dir; repository and revision are ignored.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Reports(ctx context.Context, ref Ref) ([]Report, error) {
	path := filepath.Join(s.Dir, filepath.FromSlash(ref.File))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", ref, err)
	}
	defer f.Close()

	rows, err := Decode(ref.Ext(), f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ref, err)
	}
	slog.DebugContext(ctx, "dataset loaded from file", "path", path, "rows", len(rows))
	return rows, nil
}

// ObjectReader reads objects from object storage.
type ObjectReader interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// ObjectSource reads datasets from object storage. Ref.File is the object key.
type ObjectSource struct {
	objects ObjectReader
}

func NewObjectSource(objects ObjectReader) *ObjectSource {
	return &ObjectSource{objects: objects}
}

func (s *ObjectSource) Reports(ctx context.Context, ref Ref) ([]Report, error) {
	body, err := s.objects.Get(ctx, ref.File)
	if err != nil {
		return nil, fmt.Errorf("get dataset %s: %w", ref, err)
	}
	defer body.Close()

	rows, err := Decode(ref.Ext(), body)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ref, err)
	}
	slog.DebugContext(ctx, "dataset loaded from object storage", "key", ref.File, "rows", len(rows))
	return rows, nil
}
