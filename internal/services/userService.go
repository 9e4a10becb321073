package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"modshop/internal/metrics"
	"modshop/internal/models"
	"modshop/internal/repositories"
	"modshop/internal/utils"
)

const passwordHashCost = 10

// UserService defines the interface for customer accounts: registration, login and profiles.
type UserService interface {
	RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	LoginUser(ctx context.Context, creds models.Login) (*models.LoginResponse, error)
	GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID primitive.ObjectID, updatePayload models.UserProfileUpdate) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	DeleteUser(ctx context.Context, userID primitive.ObjectID) error
}

// userService implements UserService using a UserRepository.
type userService struct {
	userRepo   repositories.UserRepository
	otpService OTPService
	jwt        *utils.JWTManager
	now        func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, otpService OTPService, jwt *utils.JWTManager) UserService {
	return &userService{userRepo: userRepo, otpService: otpService, jwt: jwt, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	log.Debug().Str("email", req.Email).Msg("Attempting to register user")
	if err := validateInput(req); err != nil {
		log.Warn().Err(err).Msg("Invalid registration payload")
		return nil, err
	}

	verified, err := s.otpService.IsVerified(ctx, req.Email)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to check email verification")
		return nil, err
	}
	if !verified {
		log.Warn().Str("email", req.Email).Msg("Registration attempted without verified email")
		return nil, invalidInput("Email not verified")
	}

	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		log.Warn().Str("email", req.Email).Msg("Email already registered")
		return nil, conflict("User already exists")
	} else if err != nil && !isNoDocuments(err) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during registration")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:         primitive.NewObjectID(),
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Contact:    req.Contact,
		Address:    req.Address,
		Password:   string(hashedPassword),
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	createdUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("email", user.Email).Msg("Email already exists during user insertion")
			return nil, conflict("User already exists")
		}
		return nil, err
	}

	if err := s.otpService.Consume(ctx, req.Email); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to clear OTP after registration")
	}

	createdUser.Password = ""
	metrics.NewUsersTotal.Inc()
	s.refreshUserGauge(ctx)
	log.Info().Str("user_id", createdUser.ID.Hex()).Str("email", createdUser.Email).Msg("User registered successfully")
	return createdUser, nil
}

func (s *userService) LoginUser(ctx context.Context, creds models.Login) (*models.LoginResponse, error) {
	creds.Email = normalizeEmail(creds.Email)
	log.Debug().Str("email", creds.Email).Msg("Attempting user login")
	if err := validateInput(creds); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if isNoDocuments(err) {
			metrics.LoginAttemptsTotal.WithLabelValues("user", "failed").Inc()
			log.Warn().Str("email", creds.Email).Msg("Invalid credentials during login attempt")
			return nil, unauthorized("Invalid credentials")
		}
		log.Error().Err(err).Str("email", creds.Email).Msg("Error finding user for login")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("user", "failed").Inc()
		log.Warn().Str("email", creds.Email).Msg("Invalid credentials (password mismatch) during login attempt")
		return nil, unauthorized("Invalid credentials")
	}

	role := models.RoleUser
	if user.IsAdmin {
		role = models.RoleAdmin
	}
	identity := models.Identity{ID: user.ID.Hex(), Name: user.Name, Email: user.Email, IsAdmin: user.IsAdmin, Role: role}
	token, err := s.jwt.GenerateJWT(identity)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("user", "success").Inc()
	log.Info().Str("user_id", user.ID.Hex()).Msg("User logged in successfully")
	return &models.LoginResponse{Token: token, User: identity}, nil
}

func (s *userService) GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	log.Debug().Str("userID", userID.Hex()).Msg("Attempting to retrieve user profile")
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if isNoDocuments(err) {
			log.Warn().Str("user_id", userID.Hex()).Msg("User not found")
			return nil, notFound("User not found")
		}
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Failed to fetch user profile")
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (s *userService) UpdateUserProfile(ctx context.Context, userID primitive.ObjectID, updatePayload models.UserProfileUpdate) (*models.User, error) {
	log.Debug().Str("userID", userID.Hex()).Msg("Attempting to update user profile")
	if err := validateInput(updatePayload); err != nil {
		return nil, err
	}

	updateFields := bson.M{}
	if updatePayload.Name != nil {
		updateFields["name"] = strings.TrimSpace(*updatePayload.Name)
	}
	if updatePayload.Contact != nil {
		updateFields["contact"] = *updatePayload.Contact
	}
	if updatePayload.Address != nil {
		updateFields["address"] = *updatePayload.Address
	}
	if updatePayload.Password != nil && *updatePayload.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*updatePayload.Password), passwordHashCost)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Failed to hash new password for profile update")
			return nil, fmt.Errorf("failed to hash new password: %w", err)
		}
		updateFields["password"] = string(hashedPassword)
	}

	if len(updateFields) == 0 {
		log.Warn().Str("userID", userID.Hex()).Msg("No valid fields provided for user profile update")
		return nil, invalidInput("no valid fields provided for update")
	}
	updateFields["updatedAt"] = s.now().UTC()

	result, err := s.userRepo.Update(ctx, userID, updateFields)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		log.Warn().Str("user_id", userID.Hex()).Msg("User not found to update profile")
		return nil, notFound("User not found")
	}

	log.Info().Str("user_id", userID.Hex()).Msg("User profile updated successfully")
	return s.GetUserProfile(ctx, userID)
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.Find(ctx, bson.M{})
	if err != nil {
		log.Error().Err(err).Msg("Error listing users")
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *userService) CountUsers(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx, bson.M{})
}

func (s *userService) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	log.Debug().Str("userID", userID.Hex()).Msg("Attempting to delete user account")
	result, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		log.Warn().Str("user_id", userID.Hex()).Msg("User account not found to delete")
		return notFound("User not found")
	}

	log.Info().Str("user_id", userID.Hex()).Msg("User account deleted successfully")
	s.refreshUserGauge(ctx)
	return nil
}

func (s *userService) refreshUserGauge(ctx context.Context) {
	if count, err := s.CountUsers(ctx); err == nil {
		metrics.TotalUsers.Set(float64(count))
	}
}
