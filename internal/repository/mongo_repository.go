package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carlosmoliv/shopping-cart/internal/domain"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("carts"),
	}
}

// FindByUserID relies on a single FindOneAndUpdate upsert so that two
// concurrent first accesses for the same user both land on the same document.
func (m *MongoRepository) FindByUserID(ctx context.Context, userID domain.UserID) (*domain.Cart, error) {
	fresh := toDocument(domain.NewCart(userID))

	filter := bson.M{"user_id": string(userID)}
	update := bson.M{"$setOnInsert": fresh}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc cartDocument
	if err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to find or create cart: %w", err)
	}

	return toDomain(doc)
}

func (m *MongoRepository) GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Cart, error) {
	filter := bson.M{"user_id": string(userID)}

	var doc cartDocument
	err := m.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return toDomain(doc)
}

// Save is a conditional overwrite: the filter pins the version the caller
// read, so a concurrent writer that got there first makes this a no-match.
func (m *MongoRepository) Save(ctx context.Context, cart *domain.Cart) error {
	doc := toDocument(cart)

	filter := bson.M{"_id": doc.ID, "version": doc.Version}
	update := bson.M{"$set": bson.M{
		"items":      doc.Items,
		"updated_at": doc.UpdatedAt,
		"version":    doc.Version + 1,
	}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrConcurrentModification
	}

	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}
