package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

const usersCollection = "users"

// UserRepository serves the authentication path with typed user lookups.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// FindStaffByEmail returns the user with the given email whose role is not
// client. Client accounts exist in the same collection but cannot use the
// admin API.
func (r *UserRepository) FindStaffByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	filter := bson.M{
		"email": email,
		"role":  bson.M{"$ne": string(domain.RoleClient)},
	}

	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
