package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlitedb "github.com/agalitsyn/sqlite"

	"github.com/agalitsyn/taskflow/internal/storage/sqlite/migrations"
)

// Connect opens the database file and applies pending migrations.
func Connect(path string) (*sql.DB, error) {
	db, err := sqlitedb.Connect(path)
	if err != nil {
		return nil, err
	}
	if err := sqlitedb.MigrateUp(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}
	return db, nil
}

type SlotStorage struct {
	db *sql.DB
}

func NewSlotStorage(db *sql.DB) *SlotStorage {
	return &SlotStorage{db: db}
}

func (s *SlotStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value FROM slots WHERE key = ?`
	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not get slot: %w", err)
	}
	return value, nil
}

func (s *SlotStorage) Set(ctx context.Context, key string, value []byte) error {
	const query = `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("could not set slot: %w", err)
	}
	return nil
}

func (s *SlotStorage) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM slots WHERE key = ?`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("could not delete slot: %w", err)
	}
	return nil
}

func (s *SlotStorage) Close() error {
	return s.db.Close()
}
