package cart

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

type fakeStore struct {
	carts    map[primitive.ObjectID]*models.Cart
	products map[primitive.ObjectID]*models.Product
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		carts:    map[primitive.ObjectID]*models.Cart{},
		products: map[primitive.ObjectID]*models.Product{},
	}
}

func (f *fakeStore) Cart(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	copied := *cart
	copied.Lines = append([]models.CartLine(nil), cart.Lines...)
	return &copied, nil
}

func (f *fakeStore) SaveCart(_ context.Context, cart *models.Cart) error {
	f.carts[cart.UserID] = cart
	return nil
}

func (f *fakeStore) DeleteCart(_ context.Context, userID primitive.ObjectID) error {
	delete(f.carts, userID)
	return nil
}

func (f *fakeStore) Product(_ context.Context, productID primitive.ObjectID) (*models.Product, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	return product, nil
}

type fakeCache struct {
	entries map[primitive.ObjectID]*models.Cart
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[primitive.ObjectID]*models.Cart{}}
}

func (f *fakeCache) Get(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, ok := f.entries[userID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return cart, nil
}

func (f *fakeCache) Set(_ context.Context, userID primitive.ObjectID, cart *models.Cart) error {
	f.entries[userID] = cart
	return nil
}

func (f *fakeCache) Delete(_ context.Context, userID primitive.ObjectID) error {
	delete(f.entries, userID)
	f.deletes++
	return nil
}

func TestGetReturnsEmptyCartWhenNonePersisted(t *testing.T) {
	service := NewService(newFakeStore(), newFakeCache())
	userID := primitive.NewObjectID()

	cart, err := service.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}
	if cart.UserID != userID {
		t.Fatal("expected cart to belong to the requesting user")
	}
}

func TestGetPrefersCachedCart(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	userID := primitive.NewObjectID()

	cached := &models.Cart{UserID: userID, Lines: []models.CartLine{{Quantity: 7}}}
	cache.entries[userID] = cached

	service := NewService(store, cache)
	cart, err := service.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 7 {
		t.Fatalf("expected cached cart to be returned, got %+v", cart)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	service := NewService(newFakeStore(), newFakeCache())

	_, err := service.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 1)
	if err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestAddOutOfStockProduct(t *testing.T) {
	store := newFakeStore()
	productID := primitive.NewObjectID()
	store.products[productID] = &models.Product{ID: productID, Name: "Apples", Stock: 0}

	service := NewService(store, newFakeCache())
	_, err := service.Add(context.Background(), primitive.NewObjectID(), productID, 1)
	if err != ErrOutOfStock {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
}

func TestAddBeyondStock(t *testing.T) {
	store := newFakeStore()
	productID := primitive.NewObjectID()
	store.products[productID] = &models.Product{ID: productID, Name: "Apples", Stock: 5}

	service := NewService(store, newFakeCache())
	_, err := service.Add(context.Background(), primitive.NewObjectID(), productID, 6)
	if err != ErrNotEnoughStock {
		t.Fatalf("expected ErrNotEnoughStock, got %v", err)
	}
}

func TestAddMergedQuantityMayNotExceedStock(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	store.products[productID] = &models.Product{ID: productID, Name: "Apples", Price: 10, Stock: 5}

	service := NewService(store, cache)

	if _, err := service.Add(context.Background(), userID, productID, 3); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := service.Add(context.Background(), userID, productID, 3); err != ErrNotEnoughStock {
		t.Fatalf("expected ErrNotEnoughStock on merged overflow, got %v", err)
	}

	cart, err := service.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 3 {
		t.Fatalf("expected cart unchanged after rejected add, got %+v", cart.Lines)
	}
}

func TestAddSnapshotsProductPrice(t *testing.T) {
	store := newFakeStore()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	store.products[productID] = &models.Product{ID: productID, Name: "Apples", Price: 12.5, Stock: 10}

	service := NewService(store, newFakeCache())
	cart, err := service.Add(context.Background(), userID, productID, 2)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if cart.Lines[0].Price != 12.5 || cart.Lines[0].Name != "Apples" {
		t.Fatalf("expected product snapshot on line, got %+v", cart.Lines[0])
	}
}

func TestWritesInvalidateCache(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	store.products[productID] = &models.Product{ID: productID, Name: "Apples", Price: 10, Stock: 10}

	cache.entries[userID] = &models.Cart{UserID: userID}

	service := NewService(store, cache)
	if _, err := service.Add(context.Background(), userID, productID, 1); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if _, ok := cache.entries[userID]; ok {
		t.Fatal("expected cache entry to be invalidated after write")
	}
	if cache.deletes == 0 {
		t.Fatal("expected cache delete to be called")
	}
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	service := NewService(newFakeStore(), newFakeCache())

	_, err := service.UpdateQuantity(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 2)
	if err != ErrLineNotFound {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}
}

func TestClearDeletesPersistedCart(t *testing.T) {
	store := newFakeStore()
	userID := primitive.NewObjectID()
	store.carts[userID] = &models.Cart{UserID: userID, Lines: []models.CartLine{{Quantity: 1}}}

	service := NewService(store, newFakeCache())
	if err := service.Clear(context.Background(), userID); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	if _, ok := store.carts[userID]; ok {
		t.Fatal("expected cart document to be deleted")
	}
}
