// internal/orderstore/file_repository.go
package orderstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rank-boost/internal/models"
)

const recordExt = ".json"

// FileRepository keeps one JSON file per order under a single directory.
type FileRepository struct {
	dir string
}

// NewFileRepository creates dir if it does not exist.
func NewFileRepository(dir string) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create orders dir %s: %w", dir, err)
	}
	return &FileRepository{dir: dir}, nil
}

func (r *FileRepository) Dir() string { return r.dir }

// Save writes the record to a temp file in the same directory, syncs it and
// renames it over <id>.json, so readers see either the old or the new record.
func (r *FileRepository) Save(ctx context.Context, o *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.pathFor(o.ID)
	if err != nil {
		return err
	}

	data, err := encodeOrder(o)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", o.ID, err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+o.ID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func (r *FileRepository) LoadAll(ctx context.Context) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read orders dir %s: %w", r.dir, err)
	}

	result := &LoadResult{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, recordExt) || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		result.add(name, data)
	}
	return result, nil
}

func (r *FileRepository) Close() error { return nil }

func (r *FileRepository) pathFor(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid order id %q", id)
	}
	return filepath.Join(r.dir, id+recordExt), nil
}
