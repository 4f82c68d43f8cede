package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/models"
)

// Line is one submitted cart line. Price is the client's display snapshot
// and is never used for money; the engine re-reads the unit price from the
// product document inside the transaction.
type Line struct {
	ProductID primitive.ObjectID
	Quantity  int
	Price     float64
}

// Engine converts a submitted cart into a durable order. The order insert,
// the stock decrements and the cart removal happen inside one store
// transaction and either all commit or all roll back.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Checkout validates the cart, decrements stock and creates the order.
// When requestToken is non-empty and an order with that token already exists
// for the user, the existing order is returned and created is false.
//
// Resubmitting without a token is not idempotent: it creates a second order
// and decrements stock again.
func (e *Engine) Checkout(ctx context.Context, userID primitive.ObjectID, lines []Line, payment, requestToken string) (*models.Order, bool, error) {
	if err := validateLines(lines); err != nil {
		return nil, false, err
	}
	merged := mergeLines(lines)

	user, err := e.store.User(ctx, userID)
	if errors.Is(err, ErrUnknownUser) {
		return nil, false, ErrUnknownUser
	}
	if err != nil {
		return nil, false, &TransactionFailureError{Err: err}
	}

	if requestToken != "" {
		existing, err := e.store.OrderByToken(ctx, userID, requestToken)
		if err != nil {
			return nil, false, &TransactionFailureError{Err: err}
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	result, err := e.store.Transact(ctx, func(txCtx context.Context) (interface{}, error) {
		products := make(map[primitive.ObjectID]*models.Product, len(merged))
		for _, line := range merged {
			product, err := e.store.Product(txCtx, line.ProductID)
			if err != nil {
				return nil, err
			}
			products[line.ProductID] = product
		}

		items, total, err := priceItems(merged, products)
		if err != nil {
			return nil, err
		}

		// Conditional decrement doubles as the stock lock: two concurrent
		// checkouts over the same product serialize on the document write,
		// and the one that finds the guard unsatisfied aborts.
		for _, line := range merged {
			ok, err := e.store.DecrementStock(txCtx, line.ProductID, line.Quantity)
			if err != nil {
				return nil, err
			}
			if !ok {
				product := products[line.ProductID]
				return nil, InsufficientStockError{
					ProductID: line.ProductID,
					Name:      product.Name,
					Available: product.Stock,
					Requested: line.Quantity,
				}
			}
		}

		now := time.Now()
		order := &models.Order{
			UserID:       userID,
			CustomerName: user.Name,
			Items:        items,
			TotalPrice:   total,
			Status:       "pending",
			Payment:      payment,
			RequestToken: requestToken,
			CheckoutDate: now,
			CreatedAt:    now,
		}

		if err := e.store.InsertOrder(txCtx, order); err != nil {
			return nil, err
		}

		// The cart lives in the same database, so clearing it joins the
		// transaction: a rollback leaves the cart intact for a retry.
		if err := e.store.DeleteCart(txCtx, userID); err != nil {
			return nil, err
		}

		return order, nil
	})
	if err != nil {
		if isCheckoutError(err) {
			return nil, false, err
		}
		// A concurrent retry with the same token lost the insert race; the
		// winning order is the result.
		if requestToken != "" && mongo.IsDuplicateKeyError(err) {
			if existing, lookupErr := e.store.OrderByToken(ctx, userID, requestToken); lookupErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		log.Println("[CHECKOUT] [ERROR] transaction failed:", err)
		return nil, false, &TransactionFailureError{Err: err}
	}

	order := result.(*models.Order)
	log.Println("[CHECKOUT] [INFO] order created:", order.ID.Hex(), "user:", userID.Hex())
	return order, true, nil
}

// mergeLines collapses duplicate references to the same product into one
// line, summing quantities, so each product is priced and decremented
// exactly once per checkout.
func mergeLines(lines []Line) []Line {
	merged := make([]Line, 0, len(lines))
	index := make(map[primitive.ObjectID]int, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// validateLines fails fast on the first violation: empty cart, zero product
// id, or quantity below one.
func validateLines(lines []Line) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for _, line := range lines {
		if line.ProductID.IsZero() {
			return InvalidCartDataError{Reason: "product id is required"}
		}
		if line.Quantity < 1 {
			return InvalidCartDataError{Reason: "quantity must be at least 1"}
		}
	}
	return nil
}

// priceItems turns cart lines into order items using the authoritative unit
// price from each product document and returns the computed total. Stock is
// validated here against the read snapshot; the conditional decrement
// re-checks it under the transaction.
func priceItems(lines []Line, products map[primitive.ObjectID]*models.Product) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := 0.0

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, 0, ProductNotFoundError{ProductID: line.ProductID}
		}
		if product.Stock < line.Quantity {
			return nil, 0, InsufficientStockError{
				ProductID: line.ProductID,
				Name:      product.Name,
				Available: product.Stock,
				Requested: line.Quantity,
			}
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
		total += product.Price * float64(line.Quantity)
	}

	return items, total, nil
}
