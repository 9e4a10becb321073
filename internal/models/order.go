package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Confirmation email delivery state recorded on the order.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

type OrderCustomer struct {
	Name         string `json:"name" bson:"name" validate:"required,max=100"`
	Email        string `json:"email" bson:"email" validate:"required,email"`
	Address      string `json:"address" bson:"address" validate:"required,max=300"`
	Instructions string `json:"instructions,omitempty" bson:"instructions,omitempty" validate:"max=1000"`
}

type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId" validate:"required"`
	Name      string             `json:"name" bson:"name"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
	Quantity  int                `json:"quantity" bson:"quantity" validate:"gte=1"`
	Price     float64            `json:"price" bson:"price" validate:"gte=0"`
}

type Order struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Customer    OrderCustomer      `json:"customer" bson:"customer"`
	Items       []OrderItem        `json:"items" bson:"items"`
	Total       float64            `json:"total" bson:"total"`
	Status      string             `json:"status" bson:"status"`
	EmailStatus string             `json:"emailStatus" bson:"emailStatus"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CreateOrderRequest struct {
	Customer OrderCustomer `json:"customer"`
	Items    []OrderItem   `json:"items" validate:"required,min=1,dive"`
}

type OrderUpdate struct {
	Status   *string        `json:"status,omitempty" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	Customer *OrderCustomer `json:"customer,omitempty" validate:"omitempty"`
}
