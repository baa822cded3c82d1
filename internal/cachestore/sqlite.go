package cachestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS buckets (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	bucket_id INTEGER NOT NULL REFERENCES buckets(id) ON DELETE CASCADE,
	identity  TEXT NOT NULL,
	status    INTEGER NOT NULL,
	header    TEXT NOT NULL,
	vary      TEXT NOT NULL,
	body      BLOB NOT NULL,
	stored_at INTEGER NOT NULL,
	PRIMARY KEY (bucket_id, identity)
);
`

// SQLite persists buckets in a single database file. Path ":memory:" keeps
// the database in memory for the lifetime of the store.
type SQLite struct {
	db   *sql.DB
	path string
}

func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// One connection: a :memory: database lives on it, and the foreign_keys
	// pragma is per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Open(ctx context.Context, bucket string) error {
	_, err := s.bucketID(ctx, s.db, bucket, true)
	return err
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLite) bucketID(ctx context.Context, q querier, bucket string, create bool) (int64, error) {
	if create {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO buckets (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
			bucket, time.Now().UnixNano()); err != nil {
			return 0, fmt.Errorf("open bucket %q: %w", bucket, err)
		}
	}

	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM buckets WHERE name = ?`, bucket).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup bucket %q: %w", bucket, err)
	}
	return id, nil
}

func (s *SQLite) Put(ctx context.Context, bucket string, e Entry) error {
	header, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	vary, err := json.Marshal(e.Vary)
	if err != nil {
		return fmt.Errorf("encode vary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	id, err := s.bucketID(ctx, tx, bucket, true)
	if err != nil {
		return err
	}

	body := e.Body
	if body == nil {
		body = []byte{}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO entries (bucket_id, identity, status, header, vary, body, stored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bucket_id, identity) DO UPDATE SET
			status = excluded.status,
			header = excluded.header,
			vary = excluded.vary,
			body = excluded.body,
			stored_at = excluded.stored_at`,
		id, e.Identity, e.Status, string(header), string(vary), body, e.StoredAt.UnixNano()); err != nil {
		return fmt.Errorf("put %q in %q: %w", e.Identity, bucket, err)
	}

	return tx.Commit()
}

func (s *SQLite) Match(ctx context.Context, bucket string, req *http.Request) (Entry, bool, error) {
	query := `
		SELECT b.name, e.status, e.header, e.vary, e.body, e.stored_at
		FROM entries e JOIN buckets b ON b.id = e.bucket_id
		WHERE e.identity = ?`
	args := []any{Identity(req)}
	if bucket != "" {
		query += ` AND b.name = ?`
		args = append(args, bucket)
	}
	query += ` ORDER BY b.created_at, b.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Entry{}, false, fmt.Errorf("match: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e             Entry
			header, vary  string
			storedAtNanos int64
		)
		if err := rows.Scan(&e.Bucket, &e.Status, &header, &vary, &e.Body, &storedAtNanos); err != nil {
			return Entry{}, false, fmt.Errorf("scan entry: %w", err)
		}
		if err := json.Unmarshal([]byte(header), &e.Header); err != nil {
			return Entry{}, false, fmt.Errorf("decode header: %w", err)
		}
		if err := json.Unmarshal([]byte(vary), &e.Vary); err != nil {
			return Entry{}, false, fmt.Errorf("decode vary: %w", err)
		}
		e.Identity = args[0].(string)
		e.StoredAt = time.Unix(0, storedAtNanos).UTC()

		if e.Matches(req) {
			return e, true, nil
		}
	}

	return Entry{}, false, rows.Err()
}

func (s *SQLite) Buckets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM buckets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, bucket string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM buckets WHERE name = ?`, bucket)
	if err != nil {
		return false, fmt.Errorf("delete bucket %q: %w", bucket, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLite) Len(ctx context.Context, bucket string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM entries e JOIN buckets b ON b.id = e.bucket_id
		WHERE b.name = ?`, bucket).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %q: %w", bucket, err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
