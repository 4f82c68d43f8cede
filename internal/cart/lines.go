package cart

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// addLine merges the new line into an existing one with the same product id,
// summing quantities, or appends it.
func addLine(lines []models.CartLine, line models.CartLine) []models.CartLine {
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			return lines
		}
	}
	return append(lines, line)
}

// setQuantity sets the quantity of the matching line, flooring at 1. Returns
// false when no line references the product.
func setQuantity(lines []models.CartLine, productID primitive.ObjectID, quantity int) ([]models.CartLine, bool) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return lines, true
		}
	}
	return lines, false
}

func removeLine(lines []models.CartLine, productID primitive.ObjectID) ([]models.CartLine, bool) {
	out := lines[:0]
	found := false
	for _, line := range lines {
		if line.ProductID == productID {
			found = true
			continue
		}
		out = append(out, line)
	}
	return out, found
}

func lineQuantity(lines []models.CartLine, productID primitive.ObjectID) int {
	for _, line := range lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// Total sums price times quantity over all lines. Informational only: the
// checkout engine recomputes the order total from product documents.
func Total(lines []models.CartLine) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
