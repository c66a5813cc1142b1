package mongo

import (
	"context"
	"errors"
	"time"

	"bestronggym/gym-desk/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const slotCollectionName = "slots"

// slotDocument is one stored slot; the slot key doubles as the document id.
type slotDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoSlotRepository implements the repository.SlotRepository interface using MongoDB.
type mongoSlotRepository struct {
	collection *mongo.Collection
}

// NewMongoSlotRepository creates a new instance of mongoSlotRepository.
// It expects a connected *mongo.Database instance.
func NewMongoSlotRepository(db *mongo.Database) repository.SlotRepository {
	return &mongoSlotRepository{
		collection: db.Collection(slotCollectionName),
	}
}

// Get retrieves the serialized value stored under key.
func (r *mongoSlotRepository) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", repository.ErrKeyEmpty
	}

	var doc slotDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return doc.Value, nil
}

// Set replaces the whole slot document, inserting it on first write.
func (r *mongoSlotRepository) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return repository.ErrKeyEmpty
	}

	doc := slotDocument{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

// Delete removes the slot document.
func (r *mongoSlotRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return repository.ErrKeyEmpty
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSlotIndexes creates secondary indexes for the slots collection.
// Call this once during application startup.
func EnsureSlotIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// SlotCollection returns the collection used by the slot repository.
func SlotCollection(db *mongo.Database) *mongo.Collection {
	return db.Collection(slotCollectionName)
}
