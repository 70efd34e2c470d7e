package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// The four persistence keys. Each key holds a full serialized
// collection and is rewritten wholesale on every mutation; there is no
// incremental diffing and no migration scheme.
const (
	KeyCurrentUser  = "current_user"
	KeyUsers        = "users"
	KeyJobs         = "jobs"
	KeyApplications = "applications"
)

// KV persists JSON values under fixed keys inside a data directory,
// one file per key. Keys load independently: a corrupt file resets
// only its own key.
type KV struct {
	dir    string
	logger *zap.Logger
}

// NewKV creates the data directory when missing and returns the layer.
func NewKV(dir string, logger *zap.Logger) (*KV, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %q: %w", dir, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KV{dir: dir, logger: logger}, nil
}

// Dir returns the data directory backing the layer.
func (kv *KV) Dir() string {
	return kv.dir
}

func (kv *KV) path(key string) string {
	return filepath.Join(kv.dir, key+".json")
}

// Load reads the value stored under key into v. A missing key leaves v
// untouched. A structurally incompatible value is discarded wholesale:
// the file is removed, a warning is logged, and v keeps its default.
func (kv *KV) Load(key string, v any) error {
	data, err := os.ReadFile(kv.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading key %q: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		kv.logger.Warn("discarding corrupt stored value",
			zap.String("key", key),
			zap.Error(err),
		)
		return kv.Delete(key)
	}

	return nil
}

// Save serializes v and replaces the value stored under key. The write
// goes through a temp file and a rename so a crash never leaves a
// half-written collection behind.
func (kv *KV) Save(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing key %q: %w", key, err)
	}

	tmp, err := os.CreateTemp(kv.dir, key+"_*.json")
	if err != nil {
		return fmt.Errorf("creating temp file for key %q: %w", key, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file for key %q: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), kv.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing key %q: %w", key, err)
	}

	return nil
}

// Delete removes the value stored under key. Deleting an absent key is
// not an error.
func (kv *KV) Delete(key string) error {
	if err := os.Remove(kv.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing key %q: %w", key, err)
	}
	return nil
}
