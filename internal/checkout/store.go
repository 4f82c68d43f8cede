package checkout

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// Store is the persistence boundary of the checkout engine. Transact gives
// the callback transactional semantics: writes made through its context
// either all commit or all roll back.
type Store interface {
	User(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	OrderByToken(ctx context.Context, userID primitive.ObjectID, token string) (*models.Order, error)
	Product(ctx context.Context, productID primitive.ObjectID) (*models.Product, error)
	DecrementStock(ctx context.Context, productID primitive.ObjectID, quantity int) (bool, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	DeleteCart(ctx context.Context, userID primitive.ObjectID) error
	Transact(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error)
}

type mongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{db: db}
}

func (s *mongoStore) User(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoStore) OrderByToken(ctx context.Context, userID primitive.ObjectID, token string) (*models.Order, error) {
	var order models.Order
	err := s.db.Collection("orders").FindOne(ctx, bson.M{
		"userId":       userID,
		"requestToken": token,
	}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// sellableFilter matches products a checkout may touch: active and not
// soft-deleted, the same visibility rule the cart applies on add.
func sellableFilter(productID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":       productID,
		"isActive":  bson.M{"$ne": false},
		"isDeleted": bson.M{"$ne": true},
	}
}

func (s *mongoStore) Product(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.db.Collection("products").FindOne(ctx, sellableFilter(productID)).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *mongoStore) DecrementStock(ctx context.Context, productID primitive.ObjectID, quantity int) (bool, error) {
	filter := sellableFilter(productID)
	filter["stock"] = bson.M{"$gte": quantity}

	res, err := s.db.Collection("products").UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"stock": -quantity},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *mongoStore) InsertOrder(ctx context.Context, order *models.Order) error {
	res, err := s.db.Collection("orders").InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

func (s *mongoStore) DeleteCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.db.Collection("carts").DeleteOne(ctx, bson.M{"userId": userID})
	return err
}

func (s *mongoStore) Transact(ctx context.Context, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	return session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return fn(sessCtx)
	})
}
