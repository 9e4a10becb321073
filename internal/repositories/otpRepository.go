package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"modshop/internal/database"
	"modshop/internal/models"
)

type OTPRepository interface {
	// Upsert stores otp as the only live code for its (email, purpose), replacing any earlier one.
	Upsert(ctx context.Context, otp *models.OTP) (*models.OTP, error)
	FindByEmail(ctx context.Context, email, purpose string) (*models.OTP, error)
	IncrementAttempts(ctx context.Context, otpID primitive.ObjectID) error
	MarkVerified(ctx context.Context, otpID primitive.ObjectID, verifiedAt, expiresAt time.Time) error
	DeleteByEmail(ctx context.Context, email, purpose string) error
}

type otpRepository struct {
	*mongoRepository[models.OTP]
}

func NewOTPRepository(db database.Service) OTPRepository {
	return &otpRepository{newMongoRepository[models.OTP](db, database.OTPsCollection, "otp")}
}

func (r *otpRepository) Upsert(ctx context.Context, otp *models.OTP) (_ *models.OTP, err error) {
	defer r.observe("upsert", &err)()

	now := time.Now().UTC()
	otp.ID = primitive.NilObjectID
	otp.CreatedAt = now
	otp.UpdatedAt = now

	filter := bson.M{"email": otp.Email, "purpose": otp.Purpose}
	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.OTP
	if err = r.coll().FindOneAndReplace(ctx, filter, otp, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}
	return &stored, nil
}

// FindByEmail returns the live record for (email, purpose), or nil when there is none.
// Expired records are returned too so callers can tell "expired" from "never sent";
// the TTL index removes them eventually.
func (r *otpRepository) FindByEmail(ctx context.Context, email, purpose string) (*models.OTP, error) {
	otp, err := r.findOne(ctx, "findByEmail", bson.M{"email": email, "purpose": purpose})
	if err != nil {
		if isNoDocuments(err) {
			return nil, nil
		}
		return nil, err
	}
	return otp, nil
}

func (r *otpRepository) IncrementAttempts(ctx context.Context, otpID primitive.ObjectID) (err error) {
	defer r.observe("incrementAttempts", &err)()

	update := bson.M{"$inc": bson.M{"attempts": 1}, "$set": bson.M{"updatedAt": time.Now().UTC()}}
	_, err = r.coll().UpdateOne(ctx, bson.M{"_id": otpID}, update)
	return err
}

func (r *otpRepository) MarkVerified(ctx context.Context, otpID primitive.ObjectID, verifiedAt, expiresAt time.Time) (err error) {
	defer r.observe("markVerified", &err)()

	update := bson.M{"$set": bson.M{
		"verified":   true,
		"verifiedAt": verifiedAt,
		"expiresAt":  expiresAt,
		"updatedAt":  verifiedAt,
	}}
	_, err = r.coll().UpdateOne(ctx, bson.M{"_id": otpID}, update)
	return err
}

func (r *otpRepository) DeleteByEmail(ctx context.Context, email, purpose string) (err error) {
	defer r.observe("deleteByEmail", &err)()

	_, err = r.coll().DeleteMany(ctx, bson.M{"email": email, "purpose": purpose})
	return err
}
