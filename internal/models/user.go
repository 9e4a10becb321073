package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Contact    string             `json:"contact,omitempty" bson:"contact,omitempty"`
	Address    string             `json:"address,omitempty" bson:"address,omitempty"`
	Password   string             `json:"password,omitempty" bson:"password"`
	IsVerified bool               `json:"isVerified" bson:"isVerified"`
	IsAdmin    bool               `json:"isAdmin" bson:"isAdmin"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Contact  string `json:"contact" validate:"omitempty,max=20"`
	Address  string `json:"address" validate:"omitempty,max=300"`
}

type UserProfileUpdate struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Contact  *string `json:"contact,omitempty" validate:"omitempty,max=20"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=300"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
}
