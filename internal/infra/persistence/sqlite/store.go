// Package sqlite persists the record store to an embedded SQLite file. It
// reuses the in-memory implementation for transactional semantics and
// snapshots the full committed state after every successful transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"dischargecore/internal/infra/persistence/memory"
	"dischargecore/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// Store is a snapshotting SQLite-backed persistent record store.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (or creates) the database at path, hydrating the in-memory
// state from any existing snapshot. An empty path defaults to
// ./dischargecore.db.
func NewStore(path string, now func() domain.Ticks, retention domain.Ticks) (*Store, error) {
	if path == "" {
		path = "dischargecore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}
	s := &Store{Store: memory.NewStore(now, retention), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT key, payload, expires_at FROM records`)
	if err != nil {
		return fmt.Errorf("select records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	snapshot := memory.Snapshot{}
	for rows.Next() {
		var (
			key       string
			payload   []byte
			expiresAt uint64
		)
		if err := rows.Scan(&key, &payload, &expiresAt); err != nil {
			return fmt.Errorf("scan record: %w", err)
		}
		snapshot[key] = memory.SnapshotRecord{Payload: payload, ExpiresAt: domain.Ticks(expiresAt)}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate records: %w", err)
	}
	if len(snapshot) == 0 {
		return nil
	}
	return s.ImportState(snapshot)
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		retErr = fmt.Errorf("clear records: %w", err)
		return retErr
	}
	for key, rec := range snapshot {
		if _, err := tx.Exec(`INSERT INTO records(key,payload,expires_at) VALUES(?,?,?)`,
			key, []byte(rec.Payload), uint64(rec.ExpiresAt)); err != nil {
			retErr = fmt.Errorf("insert %s: %w", key, err)
			return retErr
		}
	}
	return tx.Commit()
}

// RunInTransaction applies fn within an in-memory transaction, then
// snapshots the committed state to SQLite.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) error {
	if err := s.Store.RunInTransaction(ctx, fn); err != nil {
		return err
	}
	return s.persist()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
