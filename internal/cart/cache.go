package cart

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// Cache fronts cart reads. Implementations must return ErrCacheMiss for
// absent keys; any other error is logged and the read falls through to the
// store.
type Cache interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Set(ctx context.Context, userID primitive.ObjectID, cart *models.Cart) error
	Delete(ctx context.Context, userID primitive.ObjectID) error
}

var ErrCacheMiss = errors.New("cache miss")
