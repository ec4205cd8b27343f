package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aldenvik/dagbok/internal/apperr"
)

// FS implements Provider on the local file system: leaf values are files,
// intermediate path segments are directories.
//
// ChildrenRange scans every child directory under the path and filters by
// key, so range reads cost O(total entries). Acceptable at small scale,
// which is why the SQLite provider is the default backend.
type FS struct {
	root string // absolute path to the store root
}

var _ Provider = (*FS)(nil)

// NewFS creates an FS provider rooted at the given directory,
// creating it if needed.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("kvstore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: create root: %w", err)
	}
	return &FS{root: abs}, nil
}

func (f *FS) Close() error { return nil }

// safePath resolves a store path against the root and rejects any result
// that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("kvstore: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("kvstore: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("kvstore: path escapes store root: %s", rel)
	}
	return abs, nil
}

func (f *FS) Read(_ context.Context, path string) (json.RawMessage, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically stores value: tmp file, fsync, rename.
func (f *FS) Write(_ context.Context, path string, value json.RawMessage) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("kvstore: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dagbok-tmp-*")
	if err != nil {
		return fmt.Errorf("kvstore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(value); err != nil {
		return fmt.Errorf("kvstore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("kvstore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kvstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("kvstore: rename: %w", err)
	}
	success = true
	return nil
}

func (f *FS) Merge(ctx context.Context, path string, partial json.RawMessage) error {
	existing, err := f.Read(ctx, path)
	if err != nil {
		return err
	}
	merged, err := shallowMerge(existing, partial)
	if err != nil {
		return err
	}
	return f.Write(ctx, path, merged)
}

func (f *FS) Remove(_ context.Context, path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); errors.Is(err, os.ErrNotExist) {
		return apperr.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("kvstore: remove %s: %w", path, err)
	}
	// Drop the parent directory when it became empty, so the parent key
	// disappears from Children just like in the SQLite provider.
	_ = os.Remove(filepath.Dir(abs))
	return nil
}

func (f *FS) Exists(_ context.Context, path string) (bool, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kvstore: stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}

func (f *FS) Children(_ context.Context, path string) (map[string]json.RawMessage, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: children %s: %w", path, err)
	}

	out := make(map[string]json.RawMessage)
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(abs, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("kvstore: read child %s: %w", e.Name(), err)
		}
		out[e.Name()] = data
	}
	return out, nil
}

func (f *FS) ChildrenRange(ctx context.Context, path, startKey, endKey string) (map[string]map[string]json.RawMessage, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: children range %s: %w", path, err)
	}

	out := make(map[string]map[string]json.RawMessage)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		key := e.Name()
		if key < startKey || key > endKey {
			continue
		}
		leaves, err := f.Children(ctx, path+"/"+key)
		if err != nil {
			return nil, err
		}
		if len(leaves) > 0 {
			out[key] = leaves
		}
	}
	return out, nil
}
