package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

type BlocklistRepository struct {
	db *sql.DB
}

func NewBlocklistRepository(db *sql.DB) *BlocklistRepository {
	return &BlocklistRepository{db: db}
}

func (r *BlocklistRepository) Add(ctx context.Context, kind domain.BlocklistKind, value string) (*domain.BlocklistEntry, error) {
	const query = `INSERT INTO blocklist (kind, value) VALUES ($1, $2) RETURNING id`

	entry := &domain.BlocklistEntry{Kind: kind, Value: value}
	if err := r.db.QueryRowContext(ctx, query, string(kind), value).Scan(&entry.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEntryExists
		}
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}
	return entry, nil
}

func (r *BlocklistRepository) Remove(ctx context.Context, kind domain.BlocklistKind, value string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocklist WHERE kind = $1 AND value = $2`, string(kind), value)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *BlocklistRepository) List(ctx context.Context, kind domain.BlocklistKind) ([]*domain.BlocklistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, value FROM blocklist WHERE kind = $1 ORDER BY id`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	entries := make([]*domain.BlocklistEntry, 0)
	for rows.Next() {
		e := &domain.BlocklistEntry{Kind: kind}
		if err := rows.Scan(&e.ID, &e.Value); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
