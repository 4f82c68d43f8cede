package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is one line of a placed order. Price is the unit price charged
// at checkout time, read from the product document inside the checkout
// transaction.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order is the persisted order document. TotalPrice is computed once at
// creation and always equals the sum of item price times quantity.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	CustomerName string             `bson:"customerName" json:"customerName"`
	Items        []OrderItem        `bson:"items" json:"items"`
	TotalPrice   float64            `bson:"totalPrice" json:"totalPrice"`
	Status       string             `bson:"status" json:"status"`
	Payment      string             `bson:"payment,omitempty" json:"payment,omitempty"`
	RequestToken string             `bson:"requestToken,omitempty" json:"requestToken,omitempty"`
	CheckoutDate time.Time          `bson:"checkoutDate" json:"checkoutDate"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
