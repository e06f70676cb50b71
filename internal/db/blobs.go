package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"linguaquiz/internal/kv"
)

const (
	createBlobsTable = `CREATE TABLE IF NOT EXISTS kv_blobs (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	getBlob    = `SELECT value FROM kv_blobs WHERE key = $1`
	upsertBlob = `INSERT INTO kv_blobs (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteBlob = `DELETE FROM kv_blobs WHERE key = $1`
)

// BlobStore is a kv.Store over a single postgres table
type BlobStore struct {
	conn *sql.DB
}

var _ kv.Store = (*BlobStore)(nil)

func NewBlobStore(conn *sql.DB) *BlobStore {
	return &BlobStore{conn: conn}
}

// EnsureSchema creates the kv_blobs table if it does not exist
func (s *BlobStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, createBlobsTable); err != nil {
		return fmt.Errorf("failed to create kv_blobs table: %w", err)
	}
	return nil
}

func (s *BlobStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := kv.CheckKey(key); err != nil {
		return "", false, err
	}
	var value string
	err := s.conn.QueryRowContext(ctx, getBlob, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return value, true, nil
}

func (s *BlobStore) Set(ctx context.Context, key, value string) error {
	if err := kv.CheckKey(key); err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, upsertBlob, key, value); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

func (s *BlobStore) Delete(ctx context.Context, key string) error {
	if err := kv.CheckKey(key); err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, deleteBlob, key); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
