package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modshop/internal/metrics"
	"modshop/internal/models"
	"modshop/internal/repositories"
)

// findOrNotFound loads one document, turning a missing id into ErrNotFound.
func findOrNotFound[T any](ctx context.Context, repo repositories.CRUDRepository[T], id primitive.ObjectID, what string) (*T, error) {
	doc, err := repo.FindByID(ctx, id)
	if err != nil {
		if isNoDocuments(err) {
			log.Warn().Str("id", id.Hex()).Msgf("%s not found", what)
			return nil, notFound("%s not found", what)
		}
		log.Error().Err(err).Str("id", id.Hex()).Msgf("Error finding %s", strings.ToLower(what))
		return nil, err
	}
	return doc, nil
}

func replaceOrNotFound[T any](ctx context.Context, repo repositories.CRUDRepository[T], id primitive.ObjectID, doc *T, what string) error {
	result, err := repo.Replace(ctx, id, doc)
	if err != nil {
		log.Error().Err(err).Str("id", id.Hex()).Msgf("Failed to replace %s", strings.ToLower(what))
		return err
	}
	if result.MatchedCount == 0 {
		return notFound("%s not found", what)
	}
	return nil
}

func deleteOrNotFound[T any](ctx context.Context, repo repositories.CRUDRepository[T], id primitive.ObjectID, what string) error {
	result, err := repo.Delete(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("id", id.Hex()).Msgf("Failed to delete %s", strings.ToLower(what))
		return err
	}
	if result.DeletedCount == 0 {
		log.Warn().Str("id", id.Hex()).Msgf("%s not found to delete", what)
		return notFound("%s not found", what)
	}
	return nil
}

// fieldFilter matches documents whose field equals value, or everything when value is empty.
func fieldFilter(field, value string) bson.M {
	if value = strings.TrimSpace(value); value == "" {
		return bson.M{}
	}
	return bson.M{field: value}
}

// ProductService defines the business logic of the product catalog.
type ProductService interface {
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	GetProducts(ctx context.Context, category string) ([]models.Product, error)
	CountProducts(ctx context.Context, category string) (int64, error)
	GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ReplaceProduct(ctx context.Context, id primitive.ObjectID, product models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}

type productService struct {
	repo repositories.ProductRepository
	now  func() time.Time
}

func NewProductService(repo repositories.ProductRepository) ProductService {
	return &productService{repo: repo, now: time.Now}
}

func (s *productService) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	log.Debug().Str("name", product.Name).Msg("Attempting to add product")
	if err := validateInput(product); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	created, err := s.repo.Create(ctx, &product)
	if err != nil {
		log.Error().Err(err).Str("name", product.Name).Msg("Failed to insert product")
		return nil, err
	}
	metrics.CatalogWritesTotal.WithLabelValues("product", "create").Inc()
	log.Info().Str("product_id", created.ID.Hex()).Msg("Product added successfully")
	return created, nil
}

func (s *productService) GetProducts(ctx context.Context, category string) ([]models.Product, error) {
	return s.repo.Find(ctx, fieldFilter("category", category))
}

func (s *productService) CountProducts(ctx context.Context, category string) (int64, error) {
	return s.repo.Count(ctx, fieldFilter("category", category))
}

func (s *productService) GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return findOrNotFound[models.Product](ctx, s.repo, id, "Product")
}

func (s *productService) ReplaceProduct(ctx context.Context, id primitive.ObjectID, product models.Product) (*models.Product, error) {
	if err := validateInput(product); err != nil {
		return nil, err
	}
	existing, err := findOrNotFound[models.Product](ctx, s.repo, id, "Product")
	if err != nil {
		return nil, err
	}

	product.ID = id
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.now().UTC()
	if err := replaceOrNotFound[models.Product](ctx, s.repo, id, &product, "Product"); err != nil {
		return nil, err
	}
	metrics.CatalogWritesTotal.WithLabelValues("product", "replace").Inc()
	log.Info().Str("product_id", id.Hex()).Msg("Product replaced successfully")
	return &product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	if err := deleteOrNotFound[models.Product](ctx, s.repo, id, "Product"); err != nil {
		return err
	}
	metrics.CatalogWritesTotal.WithLabelValues("product", "delete").Inc()
	log.Info().Str("product_id", id.Hex()).Msg("Product deleted successfully")
	return nil
}

// ServiceService manages the workshop service listings.
type ServiceService interface {
	CreateService(ctx context.Context, service models.Service) (*models.Service, error)
	GetServices(ctx context.Context) ([]models.Service, error)
	CountServices(ctx context.Context) (int64, error)
	GetServiceByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	ReplaceService(ctx context.Context, id primitive.ObjectID, service models.Service) (*models.Service, error)
	DeleteService(ctx context.Context, id primitive.ObjectID) error
}

type serviceService struct {
	repo repositories.ServiceRepository
	now  func() time.Time
}

func NewServiceService(repo repositories.ServiceRepository) ServiceService {
	return &serviceService{repo: repo, now: time.Now}
}

func (s *serviceService) CreateService(ctx context.Context, service models.Service) (*models.Service, error) {
	if err := validateInput(service); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	service.ID = primitive.NewObjectID()
	service.CreatedAt = now
	service.UpdatedAt = now

	created, err := s.repo.Create(ctx, &service)
	if err != nil {
		log.Error().Err(err).Str("name", service.Name).Msg("Failed to insert service")
		return nil, err
	}
	metrics.CatalogWritesTotal.WithLabelValues("service", "create").Inc()
	log.Info().Str("service_id", created.ID.Hex()).Msg("Service added successfully")
	return created, nil
}

func (s *serviceService) GetServices(ctx context.Context) ([]models.Service, error) {
	return s.repo.Find(ctx, bson.M{})
}

func (s *serviceService) CountServices(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, bson.M{})
}

func (s *serviceService) GetServiceByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	return findOrNotFound[models.Service](ctx, s.repo, id, "Service")
}

func (s *serviceService) ReplaceService(ctx context.Context, id primitive.ObjectID, service models.Service) (*models.Service, error) {
	if err := validateInput(service); err != nil {
		return nil, err
	}
	existing, err := findOrNotFound[models.Service](ctx, s.repo, id, "Service")
	if err != nil {
		return nil, err
	}

	service.ID = id
	service.CreatedAt = existing.CreatedAt
	service.UpdatedAt = s.now().UTC()
	if err := replaceOrNotFound[models.Service](ctx, s.repo, id, &service, "Service"); err != nil {
		return nil, err
	}
	metrics.CatalogWritesTotal.WithLabelValues("service", "replace").Inc()
	log.Info().Str("service_id", id.Hex()).Msg("Service replaced successfully")
	return &service, nil
}

func (s *serviceService) DeleteService(ctx context.Context, id primitive.ObjectID) error {
	if err := deleteOrNotFound[models.Service](ctx, s.repo, id, "Service"); err != nil {
		return err
	}
	metrics.CatalogWritesTotal.WithLabelValues("service", "delete").Inc()
	log.Info().Str("service_id", id.Hex()).Msg("Service deleted successfully")
	return nil
}

// PriorityServiceService manages the featured services customers can send inquiries about.
type PriorityServiceService interface {
	CreatePriorityService(ctx context.Context, ps models.PriorityService) (*models.PriorityService, error)
	GetPriorityServices(ctx context.Context, category string) ([]models.PriorityService, error)
	CountPriorityServices(ctx context.Context, category string) (int64, error)
	GetPriorityServiceByID(ctx context.Context, id primitive.ObjectID) (*models.PriorityService, error)
	ReplacePriorityService(ctx context.Context, id primitive.ObjectID, ps models.PriorityService) (*models.PriorityService, error)
	DeletePriorityService(ctx context.Context, id primitive.ObjectID) error
}

type priorityServiceService struct {
	repo repositories.PriorityServiceRepository
	now  func() time.Time
}

func NewPriorityServiceService(repo repositories.PriorityServiceRepository) PriorityServiceService {
	return &priorityServiceService{repo: repo, now: time.Now}
}

func (s *priorityServiceService) CreatePriorityService(ctx context.Context, ps models.PriorityService) (*models.PriorityService, error) {
	if err := validateInput(ps); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ps.ID = primitive.NewObjectID()
	if ps.Gallery == nil {
		ps.Gallery = []string{}
	}
	ps.CreatedAt = now
	ps.UpdatedAt = now

	created, err := s.repo.Create(ctx, &ps)
	if err != nil {
		log.Error().Err(err).Str("title", ps.ServiceTitle).Msg("Failed to insert priority service")
		return nil, err
	}
	metrics.CatalogWritesTotal.WithLabelValues("priorityService", "create").Inc()
	log.Info().Str("priority_service_id", created.ID.Hex()).Msg("Priority service added successfully")
	return created, nil
}

func (s *priorityServiceService) GetPriorityServices(ctx context.Context, category string) ([]models.PriorityService, error) {
	return s.repo.Find(ctx, fieldFilter("category", category))
}

func (s *priorityServiceService) CountPriorityServices(ctx context.Context, category string) (int64, error) {
	return s.repo.Count(ctx, fieldFilter("category", category))
}

func (s *priorityServiceService) GetPriorityServiceByID(ctx context.Context, id primitive.ObjectID) (*models.PriorityService, error) {
	return findOrNotFound[models.PriorityService](ctx, s.repo, id, "Priority service")
}

func (s *priorityServiceService) ReplacePriorityService(ctx context.Context, id primitive.ObjectID, ps models.PriorityService) (*models.PriorityService, error) {
	if err := validateInput(ps); err != nil {
		return nil, err
	}
	existing, err := findOrNotFound[models.PriorityService](ctx, s.repo, id, "Priority service")
	if err != nil {
		return nil, err
	}

	ps.ID = id
	if ps.Gallery == nil {
		ps.Gallery = []string{}
	}
	ps.CreatedAt = existing.CreatedAt
	ps.UpdatedAt = s.now().UTC()
	if err := replaceOrNotFound[models.PriorityService](ctx, s.repo, id, &ps, "Priority service"); err != nil {
		return nil, err
	}
	metrics.CatalogWritesTotal.WithLabelValues("priorityService", "replace").Inc()
	log.Info().Str("priority_service_id", id.Hex()).Msg("Priority service replaced successfully")
	return &ps, nil
}

func (s *priorityServiceService) DeletePriorityService(ctx context.Context, id primitive.ObjectID) error {
	if err := deleteOrNotFound[models.PriorityService](ctx, s.repo, id, "Priority service"); err != nil {
		return err
	}
	metrics.CatalogWritesTotal.WithLabelValues("priorityService", "delete").Inc()
	log.Info().Str("priority_service_id", id.Hex()).Msg("Priority service deleted successfully")
	return nil
}
