package reference

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Cache manages persistent storage of resolved references
type Cache interface {
	// Get returns the reference stored at the given key, or nil if there is nothing stored at that key
	Get(key string) (*Reference, error)
	// Set stores a reference with a key
	Set(key string, value Reference) error
}

// FileSystemCache implements Cache with one JSON file per key
type FileSystemCache struct {
	dir string // The directory keys will be relative to
}

// NewFileSystemCache creates the cache directory if needed
func NewFileSystemCache(dir string) (*FileSystemCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileSystemCache{dir: dir}, nil
}

// DefaultCacheDir is the per-user cache location for resolved references
func DefaultCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	return filepath.Join(base, "convo", "references"), nil
}

// path hashes the key since keys contain characters such as '/' and '#'
func (fsc *FileSystemCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(fsc.dir, hex.EncodeToString(sum[:])+".json")
}

func (fsc *FileSystemCache) Get(key string) (*Reference, error) {
	b, err := os.ReadFile(fsc.path(key))
	if errors.Is(err, os.ErrNotExist) {
		// Nothing stored at this key
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	var value Reference
	err = json.Unmarshal(b, &value)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal reference: %w", err)
	}
	return &value, nil
}

func (fsc *FileSystemCache) Set(key string, value Reference) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal reference: %w", err)
	}
	err = os.WriteFile(fsc.path(key), b, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
