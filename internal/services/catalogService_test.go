package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"modshop/internal/models"
)

func TestCreateProduct(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, models.Product{Price: 10, Category: "car"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.EqualError(t, err, "name is required")

	_, err = svc.CreateProduct(ctx, models.Product{Name: "Spoiler", Price: 10, Category: "truck"})
	assert.EqualError(t, err, "category must be one of [car bike]")

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil, nil).Once()
	product, err := svc.CreateProduct(ctx, models.Product{Name: "Spoiler", Price: 10, Category: "car"})
	require.NoError(t, err)
	assert.False(t, product.ID.IsZero())
	assert.False(t, product.CreatedAt.IsZero())
}

func TestGetProductsFiltersByCategory(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo)

	repo.On("Find", mock.Anything, bson.M{"category": "bike"}).Return([]models.Product{{Name: "Grips"}}, nil)
	repo.On("Count", mock.Anything, bson.M{}).Return(int64(4), nil)

	products, err := svc.GetProducts(context.Background(), "bike")
	require.NoError(t, err)
	assert.Len(t, products, 1)

	count, err := svc.CountProducts(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestReplaceProductKeepsCreatedAt(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo)
	existing := &models.Product{ID: primitive.NewObjectID(), Name: "Old", Category: "car"}
	existing.CreatedAt = existing.ID.Timestamp()

	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Replace", mock.Anything, existing.ID, mock.AnythingOfType("*models.Product")).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	replaced, err := svc.ReplaceProduct(context.Background(), existing.ID, models.Product{Name: "New", Category: "bike"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, replaced.ID)
	assert.Equal(t, existing.CreatedAt, replaced.CreatedAt)
	assert.Equal(t, "New", replaced.Name)
}

func TestProductNotFound(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo)
	id := primitive.NewObjectID()

	repo.On("FindByID", mock.Anything, id).Return(nil, mongo.ErrNoDocuments)
	repo.On("Delete", mock.Anything, id).Return(&mongo.DeleteResult{DeletedCount: 0}, nil)

	_, err := svc.GetProductByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), id), ErrNotFound)
}

func TestPriorityServiceGalleryLimit(t *testing.T) {
	svc := NewPriorityServiceService(new(mockCRUD[models.PriorityService]))

	_, err := svc.CreatePriorityService(context.Background(), models.PriorityService{
		ServiceTitle: "Full respray",
		Category:     "Car",
		Gallery:      []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.EqualError(t, err, "gallery must contain at most 5 items")
}

func TestCreateInquiryCopiesServiceDetails(t *testing.T) {
	inquiries := new(mockCRUD[models.Inquiry])
	priority := new(mockCRUD[models.PriorityService])
	svc := NewInquiryService(inquiries, priority)

	ps := &models.PriorityService{ID: primitive.NewObjectID(), ServiceTitle: "Ceramic coating", Category: "Car"}
	priority.On("FindByID", mock.Anything, ps.ID).Return(ps, nil)
	priority.On("FindByID", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	inquiries.On("Create", mock.Anything, mock.Anything).Return(nil, nil)

	inquiry, err := svc.CreateInquiry(context.Background(), models.Inquiry{Name: "Dev", Contact: "9800000000", Service: ps.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ceramic coating", inquiry.ServiceTitle)
	assert.Equal(t, "Car", inquiry.Category)

	_, err = svc.CreateInquiry(context.Background(), models.Inquiry{Name: "Dev", Contact: "9800000000", Service: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
