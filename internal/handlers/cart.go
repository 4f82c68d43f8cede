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

	"storefront/internal/cart"
)

type cartAddRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func GetCart(service *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		current, err := service.Get(ctx, userID)
		if err != nil {
			log.Println("[CART] [ERROR] get cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"cart":  current.Lines,
			"total": cart.Total(current.Lines),
		})
	}
}

func AddToCart(service *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req cartAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
			return
		}
		if req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := service.Add(ctx, userID, productID, req.Quantity)
		if err != nil {
			respondCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Item added to cart successfully",
			"cart":    updated.Lines,
			"total":   cart.Total(updated.Lines),
		})
	}
}

func UpdateCartQuantity(service *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/:productId"

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
			return
		}

		var req cartQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := service.UpdateQuantity(ctx, userID, productID, req.Quantity)
		if err != nil {
			respondCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"cart":  updated.Lines,
			"total": cart.Total(updated.Lines),
		})
	}
}

func RemoveFromCart(service *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/:productId"

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updated, err := service.Remove(ctx, userID, productID)
		if err != nil {
			respondCartError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"cart":  updated.Lines,
			"total": cart.Total(updated.Lines),
		})
	}
}

func ClearCart(service *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := service.Clear(ctx, userID); err != nil {
			log.Println("[CART] [ERROR] clear cart failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}

func respondCartError(c *gin.Context, route string, err error) {
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found"})
	case errors.Is(err, cart.ErrOutOfStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This product is out of stock"})
	case errors.Is(err, cart.ErrNotEnoughStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not enough stock available"})
	case errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart line not found"})
	default:
		log.Printf("[%s] cart operation failed: %v", route, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
	}
}
