package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a console account. Admins live in their own collection, apart from users.
type Admin struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Password  string             `json:"password,omitempty" bson:"password"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type AdminRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type AdminLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Dashboard struct {
	Products         int64            `json:"products"`
	Services         int64            `json:"services"`
	PriorityServices int64            `json:"priorityServices"`
	Inquiries        int64            `json:"inquiries"`
	Contacts         int64            `json:"contacts"`
	Users            int64            `json:"users"`
	Orders           int64            `json:"orders"`
	OrdersByStatus   map[string]int64 `json:"ordersByStatus"`
}
