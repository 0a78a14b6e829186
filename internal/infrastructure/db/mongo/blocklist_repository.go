package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// BlocklistRepository stores every list kind in one collection, unique on
// (kind, value).
type BlocklistRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewBlocklistRepository(db *mongo.Database) *BlocklistRepository {
	return &BlocklistRepository{db: db, coll: db.Collection(collectionBlocklist)}
}

type blocklistDoc struct {
	Seq   int64                `bson:"seq"`
	Kind  domain.BlocklistKind `bson:"kind"`
	Value string               `bson:"value"`
}

func (r *BlocklistRepository) Add(ctx context.Context, kind domain.BlocklistKind, value string) (*domain.BlocklistEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Cheap pre-check so a duplicate does not burn a sequence value. The
	// unique index still decides races.
	err := r.coll.FindOne(ctx, bson.M{"kind": kind, "value": value}).Err()
	if err == nil {
		return nil, domain.ErrEntryExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}

	seq, err := nextSequence(ctx, r.db, string(kind))
	if err != nil {
		return nil, err
	}

	doc := blocklistDoc{Seq: seq, Kind: kind, Value: value}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEntryExists
		}
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}
	return &domain.BlocklistEntry{ID: seq, Kind: kind, Value: value}, nil
}

func (r *BlocklistRepository) Remove(ctx context.Context, kind domain.BlocklistKind, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"kind": kind, "value": value})
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *BlocklistRepository) List(ctx context.Context, kind domain.BlocklistKind) ([]*domain.BlocklistEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"kind": kind}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer cur.Close(ctx)

	var docs []blocklistDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}

	out := make([]*domain.BlocklistEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.BlocklistEntry{ID: d.Seq, Kind: d.Kind, Value: d.Value})
	}
	return out, nil
}
