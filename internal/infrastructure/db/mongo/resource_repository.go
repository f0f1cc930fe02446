package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

// ResourceRepository is a collection-agnostic document repository. One
// instance serves every registered resource; the collection is named per call.
type ResourceRepository struct {
	db *mongo.Database
}

func NewResourceRepository(db *mongo.Database) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// Insert stores a new document and returns its assigned identifier.
func (r *ResourceRepository) Insert(ctx context.Context, collection string, doc bson.M) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	result, err := r.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type")
	}
	return id, nil
}

// Get fetches a document by id.
func (r *ResourceRepository) Get(ctx context.Context, collection string, id primitive.ObjectID) (bson.M, error) {
	return r.FindOne(ctx, collection, bson.M{"_id": id})
}

// FindOne fetches the first document matching filter.
func (r *ResourceRepository) FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var doc bson.M
	err := r.db.Collection(collection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Find returns documents matching filter within the skip/limit window.
func (r *ResourceRepository) Find(ctx context.Context, collection string, filter bson.M, sort bson.D, skip, limit int64) ([]bson.M, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	if sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Count returns the total number of documents matching filter.
func (r *ResourceRepository) Count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	return r.db.Collection(collection).CountDocuments(ctx, filter)
}

// Set applies a merge-patch via $set: only fields present in patch change.
func (r *ResourceRepository) Set(ctx context.Context, collection string, id primitive.ObjectID, patch bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	result, err := r.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": patch})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a document by id.
func (r *ResourceRepository) Delete(ctx context.Context, collection string, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	result, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the lookup indexes the list and enrichment paths rely
// on: the services api code join and the ticketed-order scans.
func (r *ResourceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if _, err := r.db.Collection("services").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "api", Value: 1}},
	}); err != nil {
		return err
	}
	_, err := r.db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "service_id", Value: 1}}},
		{Keys: bson.D{{Key: "t_status", Value: 1}}},
	})
	return err
}
