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
	"github.com/chatwire/messaging-api/internal/core/ports"
)

const messageCollection = "messages"

type MongoMessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{coll: db.Collection(messageCollection)}
}

type mongoMessage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SenderID    string             `bson:"sender_id"`
	RecipientID string             `bson:"recipient_id"`
	Content     string             `bson:"content"`
	SentAt      time.Time          `bson:"sent_at"`
}

func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "sent_at", Value: 1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "sent_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create message indexes: %w", err)
	}
	return nil
}

func (r *MongoMessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	doc := mongoMessage{
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Content:     msg.Content,
		SentAt:      msg.SentAt.UTC(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	created := *msg
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// ListForUser returns the user's messages oldest-first. With PeerID set, only
// the two-way conversation with that peer is returned; Since drops anything
// sent at or before the given instant.
func (r *MongoMessageRepository) ListForUser(ctx context.Context, filter ports.MessageFilter) ([]domain.Message, error) {
	var query bson.M
	if filter.PeerID != "" {
		query = bson.M{"$or": bson.A{
			bson.M{"sender_id": filter.UserID, "recipient_id": filter.PeerID},
			bson.M{"sender_id": filter.PeerID, "recipient_id": filter.UserID},
		}}
	} else {
		query = bson.M{"$or": bson.A{
			bson.M{"sender_id": filter.UserID},
			bson.M{"recipient_id": filter.UserID},
		}}
	}
	if !filter.Since.IsZero() {
		query["sent_at"] = bson.M{"$gt": filter.Since.UTC()}
	}

	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "sent_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var msgs []domain.Message
	for cur.Next(ctx) {
		var mm mongoMessage
		if err := cur.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		msgs = append(msgs, domain.Message{
			ID:          mm.ID.Hex(),
			SenderID:    mm.SenderID,
			RecipientID: mm.RecipientID,
			Content:     mm.Content,
			SentAt:      mm.SentAt,
		})
	}
	return msgs, cur.Err()
}
