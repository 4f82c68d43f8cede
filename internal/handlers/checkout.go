package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/cart"
	"storefront/internal/checkout"
)

type checkoutLineRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Price     float64 `json:"price"`
}

type checkoutRequest struct {
	Cart         []checkoutLineRequest `json:"cart"`
	Payment      string                `json:"payment"`
	RequestToken string                `json:"requestToken"`
}

// Checkout converts the submitted cart into an order. The engine owns all
// invariants; this handler only parses the payload and maps errors to the
// HTTP taxonomy.
func Checkout(db *mongo.Database, engine *checkout.Engine, carts *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/checkout"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		lines, err := parseCheckoutLines(req.Cart)
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, created, err := engine.Checkout(ctx, userID, lines, req.Payment, strings.TrimSpace(req.RequestToken))
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		if created {
			// The engine deleted the cart document inside its transaction;
			// only the cache entry is left to drop.
			carts.Invalidate(userID)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Checkout successful",
			"order":   order,
		})
	}
}

// parseCheckoutLines converts the wire payload into engine lines. An empty
// cart passes through so the engine can report it as such.
func parseCheckoutLines(items []checkoutLineRequest) ([]checkout.Line, error) {
	lines := make([]checkout.Line, 0, len(items))
	for _, item := range items {
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(item.ProductID))
		if err != nil {
			return nil, checkout.InvalidCartDataError{Reason: "invalid product_id"}
		}
		lines = append(lines, checkout.Line{
			ProductID: productID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return lines, nil
}

func respondCheckoutError(c *gin.Context, route string, err error) {
	var invalidErr checkout.InvalidCartDataError
	var notFoundErr checkout.ProductNotFoundError
	var stockErr checkout.InsufficientStockError

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.As(err, &invalidErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Product not found",
			"productId": notFoundErr.ProductID.Hex(),
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Insufficient stock for " + stockErr.Name,
			"productId": stockErr.ProductID.Hex(),
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case errors.Is(err, checkout.ErrUnknownUser):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		log.Printf("[%s] checkout failed: %v", route, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
	}
}
