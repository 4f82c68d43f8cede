package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"storefront/internal/models"
)

var (
	ErrOutOfStock     = errors.New("this product is out of stock")
	ErrNotEnoughStock = errors.New("not enough stock available")
	ErrLineNotFound   = errors.New("cart line not found")
)

// Service owns the per-user cart aggregate: reads go through the cache,
// writes go to the store and invalidate the cache.
type Service struct {
	store Store
	cache Cache
	sfg   singleflight.Group // prevents cache stampede on the same user
}

func NewService(store Store, cache Cache) *Service {
	return &Service{
		store: store,
		cache: cache,
	}
}

// Get returns the user's cart, or an empty cart when none is persisted.
func (s *Service) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	v, err, _ := s.sfg.Do(userID.Hex(), func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Println("[CART] [ERROR] cache get failed:", err)
		}

		cart, err := s.store.Cart(ctx, userID)
		if errors.Is(err, ErrCartNotFound) {
			now := time.Now()
			return &models.Cart{
				UserID:    userID,
				Lines:     []models.CartLine{},
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		}
		if err != nil {
			return nil, err
		}

		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, userID, cart); err != nil {
				log.Println("[CART] [ERROR] cache set failed:", err)
			}
		}()

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Cart), nil
}

// Add puts quantity units of the product into the cart, merging with an
// existing line. Stock rules: the product must exist and be active, have
// stock at all, and the merged quantity may not exceed current stock.
func (s *Service) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	product, err := s.store.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.Stock <= 0 {
		return nil, ErrOutOfStock
	}
	if quantity > product.Stock {
		return nil, ErrNotEnoughStock
	}

	cart, err := s.loadForWrite(ctx, userID)
	if err != nil {
		return nil, err
	}

	if lineQuantity(cart.Lines, productID)+quantity > product.Stock {
		return nil, ErrNotEnoughStock
	}

	cart.Lines = addLine(cart.Lines, models.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	})

	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return cart, nil
}

// UpdateQuantity sets the quantity of an existing line, flooring at 1.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	cart, err := s.loadForWrite(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, found := setQuantity(cart.Lines, productID, quantity)
	if !found {
		return nil, ErrLineNotFound
	}
	cart.Lines = lines

	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return cart, nil
}

func (s *Service) Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.loadForWrite(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, found := removeLine(cart.Lines, productID)
	if !found {
		return nil, ErrLineNotFound
	}
	cart.Lines = lines

	if err := s.store.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.store.DeleteCart(ctx, userID); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// Invalidate drops the cached cart. The checkout engine calls this after it
// deletes the cart document inside its transaction.
func (s *Service) Invalidate(userID primitive.ObjectID) {
	s.invalidate(userID)
}

// loadForWrite always reads the store, never the cache, so read-modify-write
// cycles work on fresh state.
func (s *Service) loadForWrite(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.store.Cart(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		now := time.Now()
		return &models.Cart{
			UserID:    userID,
			Lines:     []models.CartLine{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) invalidate(userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Println("[CART] [ERROR] cache invalidate failed:", err)
	}
}
