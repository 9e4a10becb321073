package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"modshop/internal/models"
	"modshop/internal/utils"
)

func TestRegistrationFlow(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	otpRepo := newFakeOTPRepository()
	email := new(MockEmailService)

	otpSvc := NewOTPService(userRepo, otpRepo, email, 10*time.Minute)
	userSvc := NewUserService(userRepo, otpSvc, utils.NewJWTManager("secret", time.Hour))

	userRepo.On("FindByEmail", mock.Anything, "rider@example.com").Return(nil, mongo.ErrNoDocuments)
	email.On("SendEmail", "rider@example.com", mock.Anything, mock.Anything).Return(nil).Once()

	require.NoError(t, otpSvc.SendOTP(ctx, "rider@example.com"))
	stored, err := otpRepo.FindByEmail(ctx, "rider@example.com", OTPPurposeRegistration)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.OTPCode, OTPLength)

	t.Run("register before verification", func(t *testing.T) {
		_, err := userSvc.RegisterUser(ctx, models.RegisterRequest{Name: "Rider", Email: "rider@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.EqualError(t, err, "Email not verified")
	})

	t.Run("wrong code counts an attempt", func(t *testing.T) {
		wrong := "000000"
		if stored.OTPCode == wrong {
			wrong = "111111"
		}
		err := otpSvc.VerifyOTP(ctx, "rider@example.com", wrong)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.EqualError(t, err, "Invalid OTP")

		after, _ := otpRepo.FindByEmail(ctx, "rider@example.com", OTPPurposeRegistration)
		assert.Equal(t, 1, after.Attempts)
	})

	t.Run("matching code verifies and registration succeeds", func(t *testing.T) {
		require.NoError(t, otpSvc.VerifyOTP(ctx, "rider@example.com", stored.OTPCode))

		wrong := "222222"
		if stored.OTPCode == wrong {
			wrong = "333333"
		}
		err := otpSvc.VerifyOTP(ctx, "rider@example.com", wrong)
		assert.EqualError(t, err, "Invalid OTP", "a verified record still rejects other codes")
		require.NoError(t, otpSvc.VerifyOTP(ctx, "rider@example.com", stored.OTPCode))

		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil, nil).Once()
		userRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

		user, err := userSvc.RegisterUser(ctx, models.RegisterRequest{Name: "Rider", Email: " Rider@Example.com ", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "rider@example.com", user.Email)
		assert.True(t, user.IsVerified)
		assert.Empty(t, user.Password)

		consumed, _ := otpRepo.FindByEmail(ctx, "rider@example.com", OTPPurposeRegistration)
		assert.Nil(t, consumed)
	})

	userRepo.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestSendOTPRejectsRegisteredEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	otpSvc := NewOTPService(userRepo, newFakeOTPRepository(), new(MockEmailService), time.Minute)

	userRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(&models.User{Email: "taken@example.com"}, nil)

	err := otpSvc.SendOTP(context.Background(), "taken@example.com")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSendOTPRemovesCodeWhenEmailFails(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	otpRepo := newFakeOTPRepository()
	email := new(MockEmailService)
	otpSvc := NewOTPService(userRepo, otpRepo, email, time.Minute)

	userRepo.On("FindByEmail", mock.Anything, "down@example.com").Return(nil, mongo.ErrNoDocuments)
	email.On("SendEmail", "down@example.com", mock.Anything, mock.Anything).Return(assert.AnError)

	err := otpSvc.SendOTP(ctx, "down@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	otp, _ := otpRepo.FindByEmail(ctx, "down@example.com", OTPPurposeRegistration)
	assert.Nil(t, otp)
}

func TestVerifyOTPExpiredAndLocked(t *testing.T) {
	ctx := context.Background()
	otpRepo := newFakeOTPRepository()
	svc := NewOTPService(new(MockUserRepository), otpRepo, new(MockEmailService), time.Minute).(*otpService)

	_, _ = otpRepo.Upsert(ctx, &models.OTP{Email: "late@example.com", OTPCode: "123456", Purpose: OTPPurposeRegistration, ExpiresAt: time.Now().Add(-time.Second)})
	assert.EqualError(t, svc.VerifyOTP(ctx, "late@example.com", "123456"), "OTP expired")

	_, _ = otpRepo.Upsert(ctx, &models.OTP{Email: "locked@example.com", OTPCode: "123456", Purpose: OTPPurposeRegistration, ExpiresAt: time.Now().Add(time.Minute), Attempts: OTPMaxAttempts})
	err := svc.VerifyOTP(ctx, "locked@example.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.EqualError(t, svc.VerifyOTP(ctx, "nobody@example.com", "123456"), "OTP not found, please request a new one")
}

func TestLoginUser(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	svc := NewUserService(userRepo, nil, jwtManager)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: primitive.NewObjectID(), Name: "Rider", Email: "rider@example.com", Password: string(hash)}

	userRepo.On("FindByEmail", mock.Anything, "rider@example.com").Return(user, nil)
	userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, mongo.ErrNoDocuments)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.LoginUser(ctx, models.Login{Email: "rider@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, resp.User.Role)

		claims, err := jwtManager.ParseJWT(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.Hex(), claims.ID)
		assert.False(t, claims.IsAdmin)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.LoginUser(ctx, models.Login{Email: "rider@example.com", Password: "nope123"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.LoginUser(ctx, models.Login{Email: "ghost@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
