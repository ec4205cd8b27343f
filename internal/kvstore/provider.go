// Package kvstore provides a hierarchical key-value store addressed by
// /-joined paths, with SQLite and file-system backed implementations.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Provider is the interface for hierarchical key-value operations.
// Paths are /-joined segment sequences (e.g. "notes/2024-03-10/09:00").
// Values are stored at leaf paths as raw JSON.
type Provider interface {
	// Read returns the value stored at a leaf path.
	// Returns apperr.ErrNotFound when nothing is stored there.
	Read(ctx context.Context, path string) (json.RawMessage, error)
	// Write stores value at path, replacing any previous value.
	Write(ctx context.Context, path string, value json.RawMessage) error
	// Merge shallow-merges a partial JSON object into the value at path.
	// Keys absent from partial keep their stored values.
	Merge(ctx context.Context, path string, partial json.RawMessage) error
	// Remove deletes the value at path.
	Remove(ctx context.Context, path string) error
	// Exists reports whether a value is stored at path.
	Exists(ctx context.Context, path string) (bool, error)
	// Children returns the immediate child leaves of path, keyed by the
	// final path segment.
	Children(ctx context.Context, path string) (map[string]json.RawMessage, error)
	// ChildrenRange returns grandchild leaves of path grouped by child key,
	// restricted to child keys in [startKey, endKey] inclusive. Keys are
	// compared lexicographically.
	ChildrenRange(ctx context.Context, path, startKey, endKey string) (map[string]map[string]json.RawMessage, error)
	// Close releases backing resources.
	Close() error
}

// splitPath separates a leaf path into its parent path and final segment.
func splitPath(path string) (parent, key string, err error) {
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return "", "", fmt.Errorf("kvstore: path needs at least two segments: %q", path)
	}
	return path[:i], path[i+1:], nil
}

// shallowMerge overlays the keys of partial onto the JSON object in existing.
func shallowMerge(existing, partial json.RawMessage) (json.RawMessage, error) {
	var base map[string]json.RawMessage
	if err := json.Unmarshal(existing, &base); err != nil {
		return nil, fmt.Errorf("kvstore: merge target is not an object: %w", err)
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(partial, &overlay); err != nil {
		return nil, fmt.Errorf("kvstore: merge value is not an object: %w", err)
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}
