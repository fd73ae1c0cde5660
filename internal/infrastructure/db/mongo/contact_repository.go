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

const contactCollection = "contacts"

type MongoContactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{coll: db.Collection(contactCollection)}
}

type mongoContact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"owner_id"`
	ContactID string             `bson:"contact_id"`
	AddedAt   time.Time          `bson:"added_at"`
}

// EnsureIndexes creates the compound unique index preventing duplicate
// contact-list entries even under concurrent adds.
func (r *MongoContactRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "contact_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create contact indexes: %w", err)
	}
	return nil
}

func (r *MongoContactRepository) Create(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	doc := mongoContact{
		OwnerID:   contact.OwnerID,
		ContactID: contact.ContactID,
		AddedAt:   contact.AddedAt.UTC(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrContactExists
		}
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	created := *contact
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoContactRepository) Exists(ctx context.Context, ownerID, contactID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"owner_id": ownerID, "contact_id": contactID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("contact exists: %w", err)
	}
	return n > 0, nil
}

func (r *MongoContactRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	cur, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID}, options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer cur.Close(ctx)

	var contacts []domain.Contact
	for cur.Next(ctx) {
		var mc mongoContact
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode contact: %w", err)
		}
		contacts = append(contacts, domain.Contact{
			ID:        mc.ID.Hex(),
			OwnerID:   mc.OwnerID,
			ContactID: mc.ContactID,
			AddedAt:   mc.AddedAt,
		})
	}
	return contacts, cur.Err()
}
