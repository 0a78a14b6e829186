package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// AuditRepository persists account audit events to the account_audit collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(collectionAudit)}
}

type auditDoc struct {
	Username   string             `bson:"username"`
	Action     domain.AuditAction `bson:"action"`
	Actor      string             `bson:"actor,omitempty"`
	Detail     string             `bson:"detail,omitempty"`
	OccurredAt time.Time          `bson:"occurred_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, auditDoc{
		Username:   event.Username,
		Action:     event.Action,
		Actor:      event.Actor,
		Detail:     event.Detail,
		OccurredAt: event.OccurredAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByUsername(ctx context.Context, username string, limit int) ([]*domain.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []auditDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}

	out := make([]*domain.AuditEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.AuditEvent{
			Username:   d.Username,
			Action:     d.Action,
			Actor:      d.Actor,
			Detail:     d.Detail,
			OccurredAt: d.OccurredAt,
		})
	}
	return out, nil
}
