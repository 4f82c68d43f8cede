package cart

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestAddLineMergesByProductID(t *testing.T) {
	productID := primitive.NewObjectID()
	lines := []models.CartLine{
		{ProductID: productID, Name: "Apples", Price: 10, Quantity: 2},
	}

	lines = addLine(lines, models.CartLine{ProductID: productID, Name: "Apples", Price: 10, Quantity: 3})

	if len(lines) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5 after merge, got %d", lines[0].Quantity)
	}
}

func TestAddLineAppendsNewProduct(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: primitive.NewObjectID(), Name: "Apples", Price: 10, Quantity: 2},
	}

	lines = addLine(lines, models.CartLine{ProductID: primitive.NewObjectID(), Name: "Pears", Price: 5, Quantity: 1})

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestSetQuantityFloorsAtOne(t *testing.T) {
	productID := primitive.NewObjectID()
	lines := []models.CartLine{
		{ProductID: productID, Quantity: 4},
	}

	for _, quantity := range []int{0, -3} {
		updated, found := setQuantity(lines, productID, quantity)
		if !found {
			t.Fatal("expected line to be found")
		}
		if updated[0].Quantity != 1 {
			t.Fatalf("expected quantity floored at 1 for input %d, got %d", quantity, updated[0].Quantity)
		}
	}
}

func TestSetQuantityUnknownProduct(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: primitive.NewObjectID(), Quantity: 1},
	}

	_, found := setQuantity(lines, primitive.NewObjectID(), 2)
	if found {
		t.Fatal("expected unknown product to report not found")
	}
}

func TestRemoveLine(t *testing.T) {
	keep := primitive.NewObjectID()
	drop := primitive.NewObjectID()
	lines := []models.CartLine{
		{ProductID: keep, Quantity: 1},
		{ProductID: drop, Quantity: 2},
	}

	updated, found := removeLine(lines, drop)
	if !found {
		t.Fatal("expected removed line to be found")
	}
	if len(updated) != 1 || updated[0].ProductID != keep {
		t.Fatalf("expected only the kept line to remain, got %+v", updated)
	}

	if _, found := removeLine(updated, drop); found {
		t.Fatal("expected second removal to report not found")
	}
}

func TestTotal(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: primitive.NewObjectID(), Price: 10, Quantity: 2},
		{ProductID: primitive.NewObjectID(), Price: 2.5, Quantity: 4},
	}

	if got := Total(lines); got != 30 {
		t.Fatalf("expected total 30, got %v", got)
	}
	if got := Total(nil); got != 0 {
		t.Fatalf("expected empty total 0, got %v", got)
	}
}
