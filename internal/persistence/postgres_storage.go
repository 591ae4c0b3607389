package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the storage backend needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBackend keeps session namespaces in the console_storage table.
type PostgresBackend struct {
	db Querier
}

// NewPostgresBackend builds a backend over an open pool.
func NewPostgresBackend(db Querier) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// Namespace returns the storage for one console session.
func (b *PostgresBackend) Namespace(id string) Storage {
	return &postgresStorage{db: b.db, namespace: id}
}

type postgresStorage struct {
	db        Querier
	namespace string
}

func (s *postgresStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	const query = `
        SELECT value FROM console_storage
        WHERE namespace=$1 AND key=$2`

	var value string
	if err := s.db.QueryRow(ctx, query, s.namespace, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *postgresStorage) SetItem(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO console_storage (namespace, key, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (namespace, key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`

	_, err := s.db.Exec(ctx, query, s.namespace, key, value)
	return err
}

func (s *postgresStorage) RemoveItem(ctx context.Context, key string) error {
	const query = `DELETE FROM console_storage WHERE namespace=$1 AND key=$2`

	_, err := s.db.Exec(ctx, query, s.namespace, key)
	return err
}
