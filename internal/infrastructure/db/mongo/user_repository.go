package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fieldops/catalog-system/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository touches the externally owned user records: lookup by scan
// payload and the logged_in flag update, nothing else.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// FindByUID retrieves the user whose document id equals the scan payload.
func (r *UserRepository) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// SetLoggedIn sets logged_in to true. Matching zero documents is not an
// error; the service has already resolved existence.
func (r *UserRepository) SetLoggedIn(ctx context.Context, uid string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{"logged_in": true}})
	return err
}
