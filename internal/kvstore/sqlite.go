package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aldenvik/dagbok/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
	parent TEXT NOT NULL,
	key    TEXT NOT NULL,
	value  TEXT NOT NULL,
	PRIMARY KEY (parent, key)
);

CREATE INDEX IF NOT EXISTS idx_kv_parent ON kv(parent);
`

// SQLite implements Provider on a single SQLite database.
// Leaf values live in one table keyed by (parent path, final segment),
// so range reads over child keys are answered with a native BETWEEN
// instead of scanning the whole store.
type SQLite struct {
	conn *sql.DB
}

var _ Provider = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database at dsn and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("kvstore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("kvstore: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("kvstore: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) Read(ctx context.Context, path string) (json.RawMessage, error) {
	parent, key, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	var value string
	err = s.conn.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE parent = ? AND key = ?`, parent, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kvstore: read %s: %w", path, err)
	}
	return json.RawMessage(value), nil
}

func (s *SQLite) Write(ctx context.Context, path string, value json.RawMessage) error {
	parent, key, err := splitPath(path)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO kv (parent, key, value) VALUES (?, ?, ?)
		ON CONFLICT(parent, key) DO UPDATE SET value = excluded.value
	`, parent, key, string(value))
	if err != nil {
		return fmt.Errorf("kvstore: write %s: %w", path, err)
	}
	return nil
}

func (s *SQLite) Merge(ctx context.Context, path string, partial json.RawMessage) error {
	existing, err := s.Read(ctx, path)
	if err != nil {
		return err
	}
	merged, err := shallowMerge(existing, partial)
	if err != nil {
		return err
	}
	return s.Write(ctx, path, merged)
}

func (s *SQLite) Remove(ctx context.Context, path string) error {
	parent, key, err := splitPath(path)
	if err != nil {
		return err
	}
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM kv WHERE parent = ? AND key = ?`, parent, key)
	if err != nil {
		return fmt.Errorf("kvstore: remove %s: %w", path, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *SQLite) Exists(ctx context.Context, path string) (bool, error) {
	parent, key, err := splitPath(path)
	if err != nil {
		return false, err
	}
	var one int
	err = s.conn.QueryRowContext(ctx,
		`SELECT 1 FROM kv WHERE parent = ? AND key = ?`, parent, key,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kvstore: exists %s: %w", path, err)
	}
	return true, nil
}

func (s *SQLite) Children(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE parent = ?`, path)
	if err != nil {
		return nil, fmt.Errorf("kvstore: children %s: %w", path, err)
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = json.RawMessage(value)
	}
	return out, rows.Err()
}

func (s *SQLite) ChildrenRange(ctx context.Context, path, startKey, endKey string) (map[string]map[string]json.RawMessage, error) {
	prefix := path + "/"
	rows, err := s.conn.QueryContext(ctx, `
		SELECT parent, key, value FROM kv
		WHERE parent BETWEEN ? AND ?
	`, prefix+startKey, prefix+endKey)
	if err != nil {
		return nil, fmt.Errorf("kvstore: children range %s: %w", path, err)
	}
	defer rows.Close()

	out := make(map[string]map[string]json.RawMessage)
	for rows.Next() {
		var parent, key, value string
		if err := rows.Scan(&parent, &key, &value); err != nil {
			return nil, err
		}
		child := strings.TrimPrefix(parent, prefix)
		if strings.Contains(child, "/") {
			// Deeper descendant swept up by the BETWEEN; not an immediate child.
			continue
		}
		if out[child] == nil {
			out[child] = make(map[string]json.RawMessage)
		}
		out[child][key] = json.RawMessage(value)
	}
	return out, rows.Err()
}
