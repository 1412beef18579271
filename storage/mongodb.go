package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sumitjhk/Pastebin-Lite/models"
)

// MongoStore implements RecordStore using MongoDB. A TTL index on the
// reclaim_at date field gives backend-native expiry; the epoch-ms fields of
// the paste itself stay authoritative for logical expiry. The view
// decrement uses conditional single-document updates, which MongoDB applies
// atomically, so concurrent decrements never lose an update.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// mongoDoc is the persisted shape: the paste plus the TTL-index date field.
type mongoDoc struct {
	models.Paste `bson:",inline"`
	ReclaimAt    *time.Time `bson:"reclaim_at,omitempty"`
}

// NewMongoStore creates a new MongoDB storage backend
func NewMongoStore(url, dbName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	store := &MongoStore{
		client:     client,
		collection: client.Database(dbName).Collection("pastes"),
	}
	if err := store.createIndexes(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return store, nil
}

// createIndexes creates the TTL index used for storage reclamation.
func (m *MongoStore) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ttlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "reclaim_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	_, err := m.collection.Indexes().CreateOne(ctx, ttlIndex)
	return err
}

// Put upserts the paste document, deriving reclaim_at from the expiry.
func (m *MongoStore) Put(ctx context.Context, paste *models.Paste) error {
	doc := mongoDoc{Paste: *paste}
	if paste.ExpiresAt != nil {
		reclaim := time.UnixMilli(*paste.ExpiresAt)
		doc.ReclaimAt = &reclaim
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, bson.M{"_id": paste.ID}, doc, opts); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get retrieves a paste by ID; a missing document is (nil, nil).
func (m *MongoStore) Get(ctx context.Context, id string) (*models.Paste, error) {
	var doc mongoDoc
	err := m.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &doc.Paste, nil
}

// Delete removes the paste document; deleting an absent ID is a no-op.
func (m *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DecrementViews implements ViewDecrementer with two conditional writes:
// a decrement that only matches while more than one view remains, then a
// delete that only matches a tracked record at its last view. Either the
// update or the delete wins for a given view; neither can decrement past
// zero or leave a zero-view document behind.
func (m *MongoStore) DecrementViews(ctx context.Context, id string, _ int64) (int, error) {
	filter := bson.M{"_id": id, "remaining_views": bson.M{"$gt": 1}}
	update := bson.M{"$inc": bson.M{"remaining_views": -1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoDoc
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		if doc.RemainingViews == nil {
			return 0, ErrExhausted
		}
		return *doc.RemainingViews, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// No document with views to spare: consume the last one, if any.
	// $lte does not match null, so untracked records are left alone.
	del := bson.M{"_id": id, "remaining_views": bson.M{"$lte": 1}}
	if _, err := m.collection.DeleteOne(ctx, del); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return 0, ErrExhausted
}

// Ping checks the MongoDB connection.
func (m *MongoStore) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
