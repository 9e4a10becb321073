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

// AdminService manages console accounts and admin login.
type AdminService interface {
	Login(ctx context.Context, creds models.AdminLogin) (*models.LoginResponse, error)
	CreateAdmin(ctx context.Context, req models.AdminRequest) (*models.Admin, error)
	GetAdmins(ctx context.Context) ([]models.Admin, error)
	CountAdmins(ctx context.Context) (int64, error)
	GetAdmin(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
	UpdateAdmin(ctx context.Context, id primitive.ObjectID, req models.AdminRequest) (*models.Admin, error)
	DeleteAdmin(ctx context.Context, id primitive.ObjectID) error
	EnsureBootstrapAdmin(ctx context.Context, username, password string) error
}

type adminService struct {
	adminRepo repositories.AdminRepository
	jwt       *utils.JWTManager
	now       func() time.Time
}

func NewAdminService(adminRepo repositories.AdminRepository, jwt *utils.JWTManager) AdminService {
	return &adminService{adminRepo: adminRepo, jwt: jwt, now: time.Now}
}

func (s *adminService) Login(ctx context.Context, creds models.AdminLogin) (*models.LoginResponse, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if err := validateInput(creds); err != nil {
		return nil, err
	}

	admin, err := s.adminRepo.FindByUsername(ctx, creds.Username)
	if err != nil {
		if isNoDocuments(err) {
			metrics.LoginAttemptsTotal.WithLabelValues("admin", "failed").Inc()
			log.Warn().Str("username", creds.Username).Msg("Unknown admin username")
			return nil, unauthorized("Invalid credentials")
		}
		log.Error().Err(err).Str("username", creds.Username).Msg("Error finding admin for login")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(creds.Password)); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("admin", "failed").Inc()
		log.Warn().Str("username", creds.Username).Msg("Admin password mismatch")
		return nil, unauthorized("Invalid credentials")
	}

	identity := models.Identity{ID: admin.ID.Hex(), Name: admin.Username, IsAdmin: true, Role: models.RoleAdmin}
	token, err := s.jwt.GenerateJWT(identity)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("admin", "success").Inc()
	log.Info().Str("admin_id", admin.ID.Hex()).Msg("Admin logged in")
	return &models.LoginResponse{Token: token, User: identity}, nil
}

func (s *adminService) CreateAdmin(ctx context.Context, req models.AdminRequest) (*models.Admin, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateInput(req); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	admin := &models.Admin{
		ID:        primitive.NewObjectID(),
		Username:  req.Username,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.adminRepo.Create(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("username", req.Username).Msg("Admin username already taken")
			return nil, conflict("Admin already exists")
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create admin")
		return nil, err
	}

	log.Info().Str("admin_id", admin.ID.Hex()).Str("username", admin.Username).Msg("Admin created")
	admin.Password = ""
	return admin, nil
}

func (s *adminService) GetAdmins(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.adminRepo.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	for i := range admins {
		admins[i].Password = ""
	}
	return admins, nil
}

func (s *adminService) CountAdmins(ctx context.Context) (int64, error) {
	return s.adminRepo.Count(ctx, bson.M{})
}

func (s *adminService) GetAdmin(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if isNoDocuments(err) {
			return nil, notFound("Admin not found")
		}
		return nil, err
	}
	admin.Password = ""
	return admin, nil
}

// UpdateAdmin overwrites username and password, keeping id and createdAt.
func (s *adminService) UpdateAdmin(ctx context.Context, id primitive.ObjectID, req models.AdminRequest) (*models.Admin, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateInput(req); err != nil {
		return nil, err
	}

	existing, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if isNoDocuments(err) {
			return nil, notFound("Admin not found")
		}
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	existing.Username = req.Username
	existing.Password = string(hashed)
	existing.UpdatedAt = s.now().UTC()

	result, err := s.adminRepo.Replace(ctx, id, existing)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, conflict("Admin already exists")
		}
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, notFound("Admin not found")
	}

	log.Info().Str("admin_id", id.Hex()).Msg("Admin updated")
	existing.Password = ""
	return existing, nil
}

func (s *adminService) DeleteAdmin(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.adminRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return notFound("Admin not found")
	}
	log.Info().Str("admin_id", id.Hex()).Msg("Admin deleted")
	return nil
}

// EnsureBootstrapAdmin creates the configured admin when the collection is empty.
func (s *adminService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	count, err := s.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Debug().Int64("admins", count).Msg("Admin accounts present, skipping bootstrap")
		return nil
	}
	_, err = s.CreateAdmin(ctx, models.AdminRequest{Username: username, Password: password})
	return err
}
