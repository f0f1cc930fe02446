package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceRepository is the narrow document-store surface the CRUD engine
// consumes. One implementation serves every registered resource; the
// collection is selected per call.
type ResourceRepository interface {
	// Insert stores a new document and returns its assigned identifier.
	Insert(ctx context.Context, collection string, doc bson.M) (primitive.ObjectID, error)
	// Get fetches a document by id. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, collection string, id primitive.ObjectID) (bson.M, error)
	// FindOne fetches the first document matching filter.
	// Returns domain.ErrNotFound when nothing matches.
	FindOne(ctx context.Context, collection string, filter bson.M) (bson.M, error)
	// Find returns documents matching filter within the skip/limit window,
	// sorted by sort when non-nil.
	Find(ctx context.Context, collection string, filter bson.M, sort bson.D, skip, limit int64) ([]bson.M, error)
	// Count returns the total number of documents matching filter.
	Count(ctx context.Context, collection string, filter bson.M) (int64, error)
	// Set applies a merge-patch: only the fields present in patch are
	// overwritten. Returns domain.ErrNotFound when the document is absent.
	Set(ctx context.Context, collection string, id primitive.ObjectID, patch bson.M) error
	// Delete removes a document. Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, collection string, id primitive.ObjectID) error
}
