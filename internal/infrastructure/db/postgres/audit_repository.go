package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	const query = `
		INSERT INTO account_audit (username, action, actor, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		event.Username,
		string(event.Action),
		event.Actor,
		event.Detail,
		event.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByUsername(ctx context.Context, username string, limit int) ([]*domain.AuditEvent, error) {
	const query = `
		SELECT username, action, actor, detail, occurred_at
		FROM account_audit
		WHERE username = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.AuditEvent, 0)
	for rows.Next() {
		var (
			e      domain.AuditEvent
			action string
		)
		if err := rows.Scan(&e.Username, &action, &e.Actor, &e.Detail, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Action = domain.AuditAction(action)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
