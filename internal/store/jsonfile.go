package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONFilePersister writes each collection to <dir>/<collection>.json,
// the same one-file-per-collection layout the service's data
// directories have always used.  Saves go through a temp file and
// rename so a crash mid-write never leaves a truncated collection.
type JSONFilePersister struct {
	dir string
}

// NewJSONFilePersister creates the data directory if needed.
func NewJSONFilePersister(dir string) (*JSONFilePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrStorageUnavailable, err)
	}
	return &JSONFilePersister{dir: dir}, nil
}

func (p *JSONFilePersister) path(collection string) string {
	return filepath.Join(p.dir, collection+".json")
}

// Save replaces the collection file with the JSON encoding of v.
func (p *JSONFilePersister) Save(ctx context.Context, collection string, v any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorageUnavailable, collection, err)
	}
	tmp, err := os.CreateTemp(p.dir, collection+"-*.json")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorageUnavailable, collection, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrStorageUnavailable, collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", ErrStorageUnavailable, collection, err)
	}
	if err := os.Rename(tmpName, p.path(collection)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", ErrStorageUnavailable, collection, err)
	}
	return nil
}

// Load decodes the collection file into v.  A missing file means the
// collection was never saved.
func (p *JSONFilePersister) Load(ctx context.Context, collection string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	data, err := os.ReadFile(p.path(collection))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", ErrStorageUnavailable, collection, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrStorageUnavailable, collection, err)
	}
	return true, nil
}
