package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// AccountRepository implements ports.AccountRepository on MongoDB. The
// numeric account ID lives in "seq"; "_id" stays a driver ObjectID.
type AccountRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{db: db, coll: db.Collection(collectionAccounts)}
}

type accountDoc struct {
	Seq          int64  `bson:"seq"`
	Name         string `bson:"name"`
	Username     string `bson:"username"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	Locked       bool   `bson:"locked"`
	Version      int64  `bson:"version"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (d *accountDoc) toDomain() (*domain.Account, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, fmt.Errorf("account %q: %w", d.Username, err)
	}
	return &domain.Account{
		ID:           d.Seq,
		Name:         d.Name,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         role,
		Locked:       d.Locked,
		Version:      d.Version,
		CreatedAt:    unixToTime(d.CreatedAt),
		UpdatedAt:    unixToTime(d.UpdatedAt),
	}, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDoc
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain()
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	seq, err := nextSequence(ctx, r.db, collectionAccounts)
	if err != nil {
		return nil, err
	}

	doc := accountDoc{
		Seq:          seq,
		Name:         account.Name,
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		Role:         account.Role.String(),
		Locked:       account.Locked,
		Version:      1,
		CreatedAt:    account.CreatedAt.Unix(),
		UpdatedAt:    account.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain()
}

// Update applies the change only when the stored version still matches.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"username": account.Username, "version": account.Version}
	update := bson.M{
		"$set": bson.M{
			"name":       account.Name,
			"role":       account.Role.String(),
			"locked":     account.Locked,
			"updated_at": account.UpdatedAt.Unix(),
		},
		"$inc": bson.M{"version": int64(1)},
	}

	var doc accountDoc
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain()
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update account: %w", err)
	}

	// No match: either the account is gone or its version moved on.
	n, err := r.coll.CountDocuments(ctx, bson.M{"username": account.Username})
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return nil, domain.ErrAccountConflict
}

func (r *AccountRepository) Delete(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for i := range docs {
		acc, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
