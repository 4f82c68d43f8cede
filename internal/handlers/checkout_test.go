package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/checkout"
)

func TestParseCheckoutLines(t *testing.T) {
	productID := primitive.NewObjectID()

	lines, err := parseCheckoutLines([]checkoutLineRequest{
		{ProductID: productID.Hex(), Quantity: 2, Price: 10.00},
	})
	if err != nil {
		t.Fatalf("parseCheckoutLines returned error: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].ProductID != productID || lines[0].Quantity != 2 {
		t.Fatalf("unexpected line %+v", lines[0])
	}
}

func TestParseCheckoutLinesInvalidProductID(t *testing.T) {
	_, err := parseCheckoutLines([]checkoutLineRequest{
		{ProductID: "not-an-id", Quantity: 1},
	})

	var invalid checkout.InvalidCartDataError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidCartDataError, got %v", err)
	}
}

func TestParseCheckoutLinesEmptyCartPassesThrough(t *testing.T) {
	lines, err := parseCheckoutLines(nil)
	if err != nil {
		t.Fatalf("expected no error for empty cart, got %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
}
