package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chatwire/messaging-api/internal/core/domain"
)

const refreshTokenCollection = "refresh_tokens"

// MongoRefreshTokenRepository persists single-use refresh tokens keyed by the
// immutable user id. Consume relies on FindOneAndDelete so that redeem and
// delete are one atomic step: when two refresh calls race on the same value,
// only one of them gets the document back.
type MongoRefreshTokenRepository struct {
	coll *mongo.Collection
}

func NewRefreshTokenRepository(db *mongo.Database) *MongoRefreshTokenRepository {
	return &MongoRefreshTokenRepository{coll: db.Collection(refreshTokenCollection)}
}

type mongoRefreshToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Token     string             `bson:"token"`
	UserID    string             `bson:"user_id"`
	ExpiresAt time.Time          `bson:"expires_at"`
}

// EnsureIndexes creates the unique token index, the per-user index used by
// DeleteByUser, and a TTL index that reaps rows shortly after expiry. Validity
// never depends on the reaper: Consume re-checks expiry itself.
func (r *MongoRefreshTokenRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	if err != nil {
		return fmt.Errorf("create refresh token indexes: %w", err)
	}
	return nil
}

func (r *MongoRefreshTokenRepository) Store(ctx context.Context, token *domain.RefreshToken) error {
	doc := mongoRefreshToken{
		Token:     token.Token,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt.UTC(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	token.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// Consume atomically removes the record for tokenValue and returns it. Unknown
// and expired values both come back as domain.ErrTokenInvalid; the losing side
// of a concurrent redeem sees "unknown" because the winner already removed the
// document.
func (r *MongoRefreshTokenRepository) Consume(ctx context.Context, tokenValue string) (*domain.RefreshToken, error) {
	var doc mongoRefreshToken
	err := r.coll.FindOneAndDelete(ctx, bson.M{"token": tokenValue}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}

	record := &domain.RefreshToken{
		ID:        doc.ID.Hex(),
		Token:     doc.Token,
		UserID:    doc.UserID,
		ExpiresAt: doc.ExpiresAt,
	}
	if record.Expired(time.Now().UTC()) {
		return nil, domain.ErrTokenInvalid
	}
	return record, nil
}

func (r *MongoRefreshTokenRepository) Delete(ctx context.Context, tokenValue string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"token": tokenValue})
	if err != nil {
		return false, fmt.Errorf("delete refresh token: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRefreshTokenRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("delete refresh tokens for user: %w", err)
	}
	return nil
}
