package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned by lookups that match no row. Entity repositories
// translate it into their own sentinel errors.
var ErrNotFound = errors.New("record not found")

// Repository is the generic persistence gateway. Each entity repository
// composes one of these instead of talking to bun directly, so the
// create/read/update/delete surface is implemented exactly once.
// Mutations run inside a transaction and roll back on failure.
type Repository[T any] struct {
	db *bun.DB
}

func NewRepository[T any](db *bun.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB exposes the underlying handle for entity-specific queries (joins)
// that the generic surface does not cover.
func (r *Repository[T]) DB() *bun.DB {
	return r.db
}

// Create inserts the model.
func (r *Repository[T]) Create(ctx context.Context, model *T) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(model).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
		return nil
	})
}

// GetByID returns the row with the given primary key, or ErrNotFound.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	model := new(T)
	err := r.db.NewSelect().
		Model(model).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record by id: %w", err)
	}

	return model, nil
}

// FindFirst returns the first row matching all column conditions, or
// ErrNotFound.
func (r *Repository[T]) FindFirst(ctx context.Context, conds map[string]any) (*T, error) {
	model := new(T)
	q := r.db.NewSelect().Model(model)
	for _, col := range sortedKeys(conds) {
		q = q.Where("? = ?", bun.Ident(col), conds[col])
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find record: %w", err)
	}

	return model, nil
}

// FindAll returns every row matching all column conditions.
func (r *Repository[T]) FindAll(ctx context.Context, conds map[string]any) ([]T, error) {
	var models []T
	q := r.db.NewSelect().Model(&models)
	for _, col := range sortedKeys(conds) {
		q = q.Where("? = ?", bun.Ident(col), conds[col])
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to find records: %w", err)
	}

	return models, nil
}

// UpdateFields applies a partial update to the row with the given id and
// bumps modified_at. A missing id is a no-op returning false, not an error.
func (r *Repository[T]) UpdateFields(ctx context.Context, id string, fields map[string]any) (bool, error) {
	var updated bool
	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewUpdate().
			Model((*T)(nil)).
			Set("modified_at = NOW()").
			Where("id = ?", id)
		for _, col := range sortedKeys(fields) {
			q = q.Set("? = ?", bun.Ident(col), fields[col])
		}

		result, err := q.Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		updated = rowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return updated, nil
}

// DeleteByID removes the row with the given primary key.
func (r *Repository[T]) DeleteByID(ctx context.Context, id string) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		return nil
	})
}

// Count returns the number of rows matching all column conditions.
func (r *Repository[T]) Count(ctx context.Context, conds map[string]any) (int, error) {
	q := r.db.NewSelect().Model((*T)(nil))
	for _, col := range sortedKeys(conds) {
		q = q.Where("? = ?", bun.Ident(col), conds[col])
	}

	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	return count, nil
}

// sortedKeys keeps generated SQL deterministic for a given condition set
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
