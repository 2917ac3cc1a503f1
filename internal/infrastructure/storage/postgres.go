// Package storage archives delivered items in Postgres for cross-run skip
// checks and audit.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"newstriage/internal/domain"
	"newstriage/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists processed items.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ProcessedRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// AlreadyProcessed returns the subset of urls that exist in the archive.
func (r *PostgresRepository) AlreadyProcessed(ctx context.Context, urls []string) (map[string]bool, error) {
	if r.db == nil || len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := psql.
		Select("item_url").
		From("processed_items").
		Where(sq.Expr("item_url = ANY(?)", pq.StringArray(urls))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[u] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// SaveProcessed upserts the processed item snapshot.
func (r *PostgresRepository) SaveProcessed(ctx context.Context, record domain.ProcessedRecord) error {
	if r.db == nil {
		return nil
	}

	query, args, err := psql.
		Insert("processed_items").
		Columns("item_url", "source", "title", "category", "confidence", "summary", "duplicate_count", "status", "run_id").
		Values(
			record.Item.URL,
			record.Item.Source,
			record.Item.Title,
			record.Category,
			record.Confidence,
			record.Summary,
			record.DuplicateCount,
			string(record.Status),
			record.RunID,
		).
		Suffix(`ON CONFLICT (item_url) DO UPDATE
			SET category = EXCLUDED.category,
			    confidence = EXCLUDED.confidence,
			    summary = EXCLUDED.summary,
			    duplicate_count = EXCLUDED.duplicate_count,
			    status = EXCLUDED.status,
			    run_id = EXCLUDED.run_id,
			    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert processed: %w", err)
	}

	return nil
}
