package repository

import (
	"context"
	"errors"
	"time"

	"flightquery-service/internal/domain/entity"
	"flightquery-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserContextRepository implements UserContextRepository
type MongoUserContextRepository struct {
	collection *mongo.Collection
}

// NewMongoUserContextRepository creates a new user context repository.
// A ttl of zero keeps contexts indefinitely; a positive ttl installs a TTL
// index on updatedAt so Mongo evicts stale contexts on its own.
func NewMongoUserContextRepository(db *mongo.Database, ttl time.Duration) repository.UserContextRepository {
	collection := db.Collection("user_contexts")

	// Create unique index on userId
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"userId": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	if ttl > 0 {
		ttlIndex := mongo.IndexModel{
			Keys:    bson.M{"updatedAt": 1},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		}
		collection.Indexes().CreateOne(ctx, ttlIndex)
	}

	return &MongoUserContextRepository{
		collection: collection,
	}
}

// Get finds a user context by user ID
func (r *MongoUserContextRepository) Get(ctx context.Context, userID string) (*entity.UserContext, error) {
	var uc entity.UserContext
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&uc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &uc, nil
}

// Set creates or replaces the context for a user. Mongo assigns the _id on
// insert; uc.ID is filled in from the upsert result.
func (r *MongoUserContextRepository) Set(ctx context.Context, uc *entity.UserContext) error {
	uc.UpdatedAt = time.Now()
	if uc.CreatedAt.IsZero() {
		uc.CreatedAt = uc.UpdatedAt
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"userId": uc.UserID}

	result, err := r.collection.UpdateOne(ctx, filter, upsertUpdate(uc), opts)
	if err != nil {
		return err
	}

	applyUpsertResult(uc, result)
	return nil
}

// upsertUpdate builds the update document for Set. It never carries an _id:
// Mongo generates one on insert, and updates must not touch it.
func upsertUpdate(uc *entity.UserContext) bson.M {
	return bson.M{
		"$set": bson.M{
			"userId":    uc.UserID,
			"payload":   uc.Payload,
			"updatedAt": uc.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": uc.CreatedAt},
	}
}

// applyUpsertResult copies the server-assigned _id onto uc after an insert.
// Updates of an existing document leave uc.ID alone.
func applyUpsertResult(uc *entity.UserContext, result *mongo.UpdateResult) {
	if result.UpsertedCount > 0 && result.UpsertedID != nil {
		if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
			uc.ID = oid.Hex()
		}
	}
}
