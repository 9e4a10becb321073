package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"modshop/internal/metrics"
	"modshop/internal/models"
	"modshop/internal/repositories"
	"modshop/internal/utils"
)

const (
	OTPLength              = 6
	OTPPurposeRegistration = "registration"
	OTPMaxAttempts         = 5
	RegistrationWindow     = 30 * time.Minute
)

type OTPService interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otpCode string) error
	IsVerified(ctx context.Context, email string) (bool, error)
	Consume(ctx context.Context, email string) error
}

type otpService struct {
	userRepo     repositories.UserRepository
	otpRepo      repositories.OTPRepository
	emailService EmailService
	ttl          time.Duration
	now          func() time.Time
}

func NewOTPService(userRepo repositories.UserRepository, otpRepo repositories.OTPRepository, emailService EmailService, ttl time.Duration) OTPService {
	return &otpService{userRepo: userRepo, otpRepo: otpRepo, emailService: emailService, ttl: ttl, now: time.Now}
}

func (s *otpService) SendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateInput(models.SendOTPRequest{Email: email}); err != nil {
		return err
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !isNoDocuments(err) {
		log.Error().Err(err).Str("email", email).Msg("Error checking user before sending OTP")
		return err
	}
	if existing != nil {
		log.Warn().Str("email", email).Msg("OTP requested for an already registered email")
		return conflict("User already exists")
	}

	otpCode, err := utils.GenerateSecureOTP(OTPLength)
	if err != nil {
		return err
	}

	otp := &models.OTP{
		Email:     email,
		OTPCode:   otpCode,
		Purpose:   OTPPurposeRegistration,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if _, err := s.otpRepo.Upsert(ctx, otp); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to store OTP")
		return err
	}

	body, err := renderOTPEmail(otpCode, int(s.ttl.Minutes()))
	if err != nil {
		return err
	}
	if err := s.emailService.SendEmail(email, "Your verification code", body); err != nil {
		metrics.OTPSentTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("email", email).Msg("Failed to send OTP email")
		if delErr := s.otpRepo.DeleteByEmail(ctx, email, OTPPurposeRegistration); delErr != nil {
			log.Error().Err(delErr).Str("email", email).Msg("Failed to remove undelivered OTP")
		}
		return fmt.Errorf("failed to send OTP: %w", err)
	}

	metrics.OTPSentTotal.WithLabelValues("success").Inc()
	log.Info().Str("email", email).Msg("Registration OTP sent")
	return nil
}

func (s *otpService) VerifyOTP(ctx context.Context, email, otpCode string) error {
	email = normalizeEmail(email)
	if err := validateInput(models.VerifyOTPRequest{Email: email, OTP: otpCode}); err != nil {
		return err
	}

	otp, err := s.otpRepo.FindByEmail(ctx, email, OTPPurposeRegistration)
	if err != nil {
		return err
	}
	if otp == nil {
		metrics.OTPVerificationsTotal.WithLabelValues("missing").Inc()
		return invalidInput("OTP not found, please request a new one")
	}

	now := s.now()
	if now.After(otp.ExpiresAt) {
		metrics.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		return invalidInput("OTP expired")
	}
	if otp.Attempts >= OTPMaxAttempts {
		metrics.OTPVerificationsTotal.WithLabelValues("locked").Inc()
		return invalidInput("Too many attempts, please request a new OTP")
	}

	if otp.OTPCode != otpCode {
		metrics.OTPVerificationsTotal.WithLabelValues("mismatch").Inc()
		if err := s.otpRepo.IncrementAttempts(ctx, otp.ID); err != nil {
			log.Error().Err(err).Str("email", email).Msg("Failed to record OTP attempt")
		}
		log.Warn().Str("email", email).Msg("OTP mismatch")
		return invalidInput("Invalid OTP")
	}
	if otp.Verified {
		return nil
	}

	if err := s.otpRepo.MarkVerified(ctx, otp.ID, now.UTC(), now.Add(RegistrationWindow).UTC()); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to mark OTP verified")
		return err
	}

	metrics.OTPVerificationsTotal.WithLabelValues("verified").Inc()
	log.Info().Str("email", email).Msg("Email verified")
	return nil
}

func (s *otpService) IsVerified(ctx context.Context, email string) (bool, error) {
	otp, err := s.otpRepo.FindByEmail(ctx, normalizeEmail(email), OTPPurposeRegistration)
	if err != nil {
		return false, err
	}
	return otp != nil && otp.Verified && s.now().Before(otp.ExpiresAt), nil
}

func (s *otpService) Consume(ctx context.Context, email string) error {
	return s.otpRepo.DeleteByEmail(ctx, normalizeEmail(email), OTPPurposeRegistration)
}
