package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required,max=200"`
	Price       float64            `json:"price" bson:"price" validate:"gte=0"`
	Category    string             `json:"category" bson:"category" validate:"required,oneof=car bike"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty" validate:"max=5000"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Service struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name" validate:"required,max=200"`
	Price       float64            `json:"price" bson:"price" validate:"gte=0"`
	Description string             `json:"description,omitempty" bson:"description,omitempty" validate:"max=5000"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

const MaxGalleryImages = 5

type PriorityService struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ServiceTitle string             `json:"serviceTitle" bson:"serviceTitle" validate:"required,max=200"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty" validate:"max=5000"`
	Image        string             `json:"image,omitempty" bson:"image,omitempty"`
	Gallery      []string           `json:"gallery" bson:"gallery" validate:"max=5,dive,required"`
	Category     string             `json:"category" bson:"category" validate:"required,oneof=Car Bike"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}
