package checkout

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrUnknownUser = errors.New("unknown user")
)

// InvalidCartDataError reports a cart line with missing or malformed fields,
// detected before any write.
type InvalidCartDataError struct {
	Reason string
}

func (e InvalidCartDataError) Error() string {
	return "invalid cart data: " + e.Reason
}

// ProductNotFoundError reports a cart line referencing a product that does
// not exist (or has been deleted).
type ProductNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e ProductNotFoundError) Error() string {
	return "product not found"
}

// InsufficientStockError names the product whose stock cannot satisfy the
// requested quantity.
type InsufficientStockError struct {
	ProductID primitive.ObjectID
	Name      string
	Available int
	Requested int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.Name)
}

// TransactionFailureError wraps an unexpected failure during the commit
// sequence. By the time the caller sees it, every write has been rolled
// back.
type TransactionFailureError struct {
	Err error
}

func (e *TransactionFailureError) Error() string {
	return "checkout transaction failed: " + e.Err.Error()
}

func (e *TransactionFailureError) Unwrap() error {
	return e.Err
}

// isCheckoutError reports whether err belongs to the checkout taxonomy and
// should pass through to the caller unwrapped.
func isCheckoutError(err error) bool {
	var invalid InvalidCartDataError
	var notFound ProductNotFoundError
	var stock InsufficientStockError
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrUnknownUser) ||
		errors.As(err, &invalid) ||
		errors.As(err, &notFound) ||
		errors.As(err, &stock)
}
