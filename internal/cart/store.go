package cart

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
)

// Store is the persistence boundary of the cart service. The product lookup
// lives here too because adding to a cart validates against current stock.
type Store interface {
	Cart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID primitive.ObjectID) error
	Product(ctx context.Context, productID primitive.ObjectID) (*models.Product, error)
}

type mongoStore struct {
	carts    *mongo.Collection
	products *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{
		carts:    db.Collection("carts"),
		products: db.Collection("products"),
	}
}

func (s *mongoStore) Cart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *mongoStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"lines":     cart.Lines,
			"updatedAt": cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"userId":    cart.UserID,
			"createdAt": now,
		},
	}

	_, err := s.carts.UpdateOne(
		ctx,
		bson.M{"userId": cart.UserID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *mongoStore) DeleteCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.carts.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}

func (s *mongoStore) Product(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{
		"_id":       productID,
		"isActive":  bson.M{"$ne": false},
		"isDeleted": bson.M{"$ne": true},
	}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
