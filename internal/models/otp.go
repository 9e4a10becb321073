package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OTP struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email      string             `bson:"email" json:"email"`
	OTPCode    string             `bson:"otpCode" json:"-"`
	Purpose    string             `bson:"purpose" json:"purpose"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expiresAt"`
	Verified   bool               `bson:"verified" json:"verified"`
	VerifiedAt *time.Time         `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	Attempts   int                `bson:"attempts" json:"attempts"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
