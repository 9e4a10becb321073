package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modshop/internal/database"
	"modshop/internal/models"
)

type ProductRepository interface {
	CRUDRepository[models.Product]
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
}

type productRepository struct {
	*mongoRepository[models.Product]
}

func NewProductRepository(db database.Service) ProductRepository {
	return &productRepository{newMongoRepository[models.Product](db, database.ProductsCollection, "product")}
}

// FindByIDs returns the stored products among ids. Unknown ids are skipped.
func (r *productRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

type ServiceRepository interface {
	CRUDRepository[models.Service]
}

func NewServiceRepository(db database.Service) ServiceRepository {
	return newMongoRepository[models.Service](db, database.ServicesCollection, "service")
}

type PriorityServiceRepository interface {
	CRUDRepository[models.PriorityService]
}

func NewPriorityServiceRepository(db database.Service) PriorityServiceRepository {
	return newMongoRepository[models.PriorityService](db, database.PriorityServicesCollection, "priorityService")
}

type InquiryRepository interface {
	CRUDRepository[models.Inquiry]
}

func NewInquiryRepository(db database.Service) InquiryRepository {
	return newMongoRepository[models.Inquiry](db, database.InquiriesCollection, "inquiry")
}

type ContactRepository interface {
	CRUDRepository[models.Contact]
}

func NewContactRepository(db database.Service) ContactRepository {
	return newMongoRepository[models.Contact](db, database.ContactsCollection, "contact")
}
