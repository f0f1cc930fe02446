package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

// ListResult is returned by List. When Single is non-nil the filter named one
// id and the response is that lone document instead of a page.
type ListResult struct {
	Items  []bson.M
	Single bson.M
	// Pagination descriptor reported in the Content-Range header:
	// "<resource> <start>-<end>/<total>".
	Resource string
	Start    int64
	End      int64
	Total    int64
}

// OrderStats aggregates ticketed orders into coarse status buckets.
type OrderStats struct {
	// Accepted counts t_status in {created, accepted}.
	Accepted int64 `json:"accepted"`
	// Rejected counts t_status in {rejected, refund}.
	Rejected int64 `json:"rejected"`
}

// ResourceService implements the five generated operations for any registered
// resource, plus the ticketed-order statistics. Every call is permission
// checked against the acting session.
type ResourceService interface {
	Create(ctx context.Context, res domain.Resource, sess domain.SessionData, entity any) (bson.M, error)
	Get(ctx context.Context, res domain.Resource, sess domain.SessionData, id primitive.ObjectID) (bson.M, error)
	Update(ctx context.Context, res domain.Resource, sess domain.SessionData, id primitive.ObjectID, patch bson.M) (bson.M, error)
	Delete(ctx context.Context, res domain.Resource, sess domain.SessionData, id primitive.ObjectID) error
	List(ctx context.Context, res domain.Resource, sess domain.SessionData, rawFilter, rawSort, rawRange string) (*ListResult, error)
	OrderStats(ctx context.Context, sess domain.SessionData) (*OrderStats, error)
}
