package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inquiry is a customer request about a priority service. It is separate from checkout.
type Inquiry struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name" validate:"required,max=100"`
	Address      string             `json:"address,omitempty" bson:"address,omitempty" validate:"max=300"`
	VehicleName  string             `json:"vehicleName,omitempty" bson:"vehicleName,omitempty" validate:"max=100"`
	VehicleModel string             `json:"vehicleModel,omitempty" bson:"vehicleModel,omitempty" validate:"max=100"`
	Contact      string             `json:"contact" bson:"contact" validate:"required,max=20"`
	Details      string             `json:"details,omitempty" bson:"details,omitempty" validate:"max=5000"`
	Service      primitive.ObjectID `json:"service" bson:"service" validate:"required"`
	ServiceTitle string             `json:"serviceTitle,omitempty" bson:"serviceTitle,omitempty"`
	Category     string             `json:"category,omitempty" bson:"category,omitempty" validate:"omitempty,oneof=Car Bike"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Contact struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required,max=100"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty" validate:"max=20"`
	Message   string             `json:"message" bson:"message" validate:"required,max=5000"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
