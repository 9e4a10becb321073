package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"modshop/internal/database"
	"modshop/internal/models"
)

type UserRepository interface {
	CRUDRepository[models.User]
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	*mongoRepository[models.User]
}

func NewUserRepository(db database.Service) UserRepository {
	return &userRepository{newMongoRepository[models.User](db, database.UsersCollection, "user")}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "findByEmail", bson.M{"email": email})
}

type AdminRepository interface {
	CRUDRepository[models.Admin]
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type adminRepository struct {
	*mongoRepository[models.Admin]
}

func NewAdminRepository(db database.Service) AdminRepository {
	return &adminRepository{newMongoRepository[models.Admin](db, database.AdminsCollection, "admin")}
}

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	return r.findOne(ctx, "findByUsername", bson.M{"username": username})
}
