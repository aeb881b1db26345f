// Package repository provides persistent storage.Store implementations
// backed by PostgreSQL, Redis, and JSON files.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/GophLogin/internal/storage"
	"github.com/lib/pq"
)

// PostgresProvider hands out partitions of the local_storage table.
type PostgresProvider struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProvider creates a PostgresProvider with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance with the
// schema applied by db.InitPostgres.
func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{DB: db}
}

// Open returns the store for partition.
func (p *PostgresProvider) Open(partition string) (storage.Store, error) {
	if err := storage.ValidatePartition(partition); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: p.DB, Partition: partition}, nil
}

// PostgresStore implements storage.Store for a single partition.
type PostgresStore struct {
	DB        *sql.DB
	Partition string
}

// GetItem fetches the value stored under key. A missing row is reported as
// absent rather than as an error.
func (s *PostgresStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM local_storage WHERE partition = $1 AND key = $2`,
		s.Partition, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("GetItem failed: %w", err)
	}
	return value, true, nil
}

// SetItem inserts the value, or replaces it on conflict, and bumps updated_at.
func (s *PostgresStore) SetItem(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO local_storage (partition, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (partition, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`, s.Partition, key, value)
	if err != nil {
		return fmt.Errorf("SetItem failed: %w", err)
	}
	return nil
}

// RemoveItem deletes key. Deleting an absent key affects no rows and succeeds.
func (s *PostgresStore) RemoveItem(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM local_storage WHERE partition = $1 AND key = $2`,
		s.Partition, key,
	)
	if err != nil {
		return fmt.Errorf("RemoveItem failed: %w", err)
	}
	return nil
}

// RemoveItems deletes all of keys in one statement.
func (s *PostgresStore) RemoveItems(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM local_storage WHERE partition = $1 AND key = ANY($2)`,
		s.Partition, pq.Array(keys),
	)
	if err != nil {
		return fmt.Errorf("RemoveItems failed: %w", err)
	}
	return nil
}

// Keys lists the partition's keys in lexical order.
func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT key FROM local_storage WHERE partition = $1 ORDER BY key`,
		s.Partition,
	)
	if err != nil {
		return nil, fmt.Errorf("Keys failed: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Keys failed: %w", err)
	}
	return keys, nil
}
