// Package kv implements the shared lexical cache repository using PostgreSQL.
// One table, namespaced keys, JSONB values.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/drag2anki/backend/internal/domain"
)

// Querier is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo provides namespaced key/value persistence backed by PostgreSQL.
type Repo struct {
	db Querier
	sb squirrel.StatementBuilderType
}

// New creates a new shared cache repository.
func New(db Querier) *Repo {
	return &Repo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the stored value for (namespace, key).
// Returns domain.ErrNotFound when no row exists.
func (r *Repo) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	query, args, err := r.sb.
		Select("value").
		From("lexical_cache").
		Where(squirrel.Eq{"namespace": namespace, "key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var value []byte
	if err := r.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		return nil, mapError(err, namespace, key)
	}

	return value, nil
}

// Put stores the value for (namespace, key), replacing any previous value.
func (r *Repo) Put(ctx context.Context, namespace, key string, value []byte) error {
	query, args, err := r.sb.
		Insert("lexical_cache").
		Columns("namespace", "key", "value").
		Values(namespace, key, value).
		Suffix("ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return mapError(err, namespace, key)
	}

	return nil
}

// mapError converts pgx/pgconn errors into domain errors.
// context.DeadlineExceeded and context.Canceled pass through unmapped.
func mapError(err error, namespace, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s/%s: %w", namespace, key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s/%s: %w", namespace, key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s/%s: %w", namespace, key, domain.ErrAlreadyExists)
		case "23514": // check_violation
			return fmt.Errorf("%s/%s: %w", namespace, key, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s/%s: %w", namespace, key, err)
}
