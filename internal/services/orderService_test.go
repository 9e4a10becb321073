package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modshop/internal/config"
	"modshop/internal/models"
)

func validOrderRequest(items ...models.OrderItem) models.CreateOrderRequest {
	return models.CreateOrderRequest{
		Customer: models.OrderCustomer{Name: "Asha", Email: "Asha@Example.com", Address: "12 Ring Road"},
		Items:    items,
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	notifier := new(MockOrderNotifier)
	svc := NewOrderService(orderRepo, productRepo, notifier)

	_, err := svc.CreateOrder(context.Background(), validOrderRequest())
	assert.ErrorIs(t, err, ErrInvalidInput)

	orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	productRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestCreateOrder(t *testing.T) {
	exhaust := primitive.NewObjectID()
	wrap := primitive.NewObjectID()

	t.Run("computes total and queues confirmation", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		notifier := new(MockOrderNotifier)
		svc := NewOrderService(orderRepo, productRepo, notifier)

		productRepo.On("FindByIDs", mock.Anything, []primitive.ObjectID{exhaust, wrap}).Return([]models.Product{
			{ID: wrap, Name: "Wrap", Price: 300},
			{ID: exhaust, Name: "Exhaust", Price: 149.99},
		}, nil)
		orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil, nil)
		notifier.On("Enqueue", mock.AnythingOfType("models.Order")).Return(true)

		order, err := svc.CreateOrder(context.Background(), validOrderRequest(
			models.OrderItem{ProductID: exhaust, Name: "Exhaust", Quantity: 2, Price: 149.99},
			models.OrderItem{ProductID: wrap, Name: "Wrap", Quantity: 1, Price: 300},
			models.OrderItem{ProductID: exhaust, Name: "Exhaust", Quantity: 1, Price: 149.99},
		))
		require.NoError(t, err)
		assert.Equal(t, 749.97, order.Total)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, models.EmailStatusPending, order.EmailStatus)
		assert.Equal(t, "asha@example.com", order.Customer.Email)

		orderRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("catalog price overrides the request", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		notifier := new(MockOrderNotifier)
		svc := NewOrderService(orderRepo, productRepo, notifier)

		productRepo.On("FindByIDs", mock.Anything, []primitive.ObjectID{exhaust}).Return([]models.Product{
			{ID: exhaust, Name: "Exhaust", Price: 149.99, Image: "/uploads/exhaust.jpg"},
		}, nil)
		orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).Return(nil, nil)
		notifier.On("Enqueue", mock.AnythingOfType("models.Order")).Return(true)

		order, err := svc.CreateOrder(context.Background(), validOrderRequest(
			models.OrderItem{ProductID: exhaust, Name: "Free exhaust", Quantity: 2, Price: 0},
		))
		require.NoError(t, err)
		assert.Equal(t, 299.98, order.Total)
		assert.Equal(t, "Exhaust", order.Items[0].Name)
		assert.Equal(t, 149.99, order.Items[0].Price)
		assert.Equal(t, "/uploads/exhaust.jpg", order.Items[0].Image)
	})

	t.Run("unknown product", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		svc := NewOrderService(orderRepo, productRepo, new(MockOrderNotifier))

		productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]models.Product{}, nil)

		_, err := svc.CreateOrder(context.Background(), validOrderRequest(
			models.OrderItem{ProductID: primitive.NewObjectID(), Name: "Ghost", Quantity: 1, Price: 1},
		))
		assert.ErrorIs(t, err, ErrInvalidInput)
		orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("full queue marks email failed", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		notifier := new(MockOrderNotifier)
		svc := NewOrderService(orderRepo, productRepo, notifier)

		productRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]models.Product{{ID: exhaust, Name: "Exhaust", Price: 10}}, nil)
		orderRepo.On("Create", mock.Anything, mock.Anything).Return(nil, nil)
		orderRepo.On("SetEmailStatus", mock.Anything, mock.Anything, models.EmailStatusFailed).Return(nil)
		notifier.On("Enqueue", mock.Anything).Return(false)

		order, err := svc.CreateOrder(context.Background(), validOrderRequest(
			models.OrderItem{ProductID: exhaust, Name: "Exhaust", Quantity: 1, Price: 10},
		))
		require.NoError(t, err)
		assert.Equal(t, models.EmailStatusFailed, order.EmailStatus)
		orderRepo.AssertExpectations(t)
	})

	t.Run("missing customer email", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), new(MockProductRepository), new(MockOrderNotifier))
		req := validOrderRequest(models.OrderItem{ProductID: exhaust, Name: "Exhaust", Quantity: 1, Price: 10})
		req.Customer.Email = ""

		_, err := svc.CreateOrder(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.EqualError(t, err, "customer.email is required")
	})
}

func TestResendConfirmation(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	notifier := new(MockOrderNotifier)
	svc := NewOrderService(orderRepo, new(MockProductRepository), notifier)

	id := primitive.NewObjectID()
	orderRepo.On("FindByID", mock.Anything, id).Return(&models.Order{ID: id, EmailStatus: models.EmailStatusFailed}, nil)
	orderRepo.On("SetEmailStatus", mock.Anything, id, models.EmailStatusPending).Return(nil)
	notifier.On("Enqueue", mock.MatchedBy(func(o models.Order) bool { return o.ID == id })).Return(true)

	order, err := svc.ResendConfirmation(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.EmailStatusPending, order.EmailStatus)
	notifier.AssertExpectations(t)
}

// flakyEmail fails the first n sends.
type flakyEmail struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (f *flakyEmail) SendEmail(to, subject, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp unavailable")
	}
	return nil
}

func TestOrderMailer(t *testing.T) {
	newOrder := func() models.Order {
		return models.Order{
			ID:       primitive.NewObjectID(),
			Customer: models.OrderCustomer{Name: "Asha", Email: "asha@example.com", Address: "12 Ring Road"},
			Items:    []models.OrderItem{{Name: "Exhaust", Quantity: 1, Price: 10}},
			Total:    10,
			Status:   models.OrderStatusPending,
		}
	}

	t.Run("retries then records sent", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		email := &flakyEmail{failures: 2}
		mailer := NewOrderMailer(email, orderRepo, config.MailerConfig{QueueSize: 4, MaxAttempts: 3})
		mailer.backoff = time.Millisecond

		order := newOrder()
		orderRepo.On("SetEmailStatus", mock.Anything, order.ID, models.EmailStatusSent).Return(nil).Once()

		mailer.Start(context.Background())
		require.True(t, mailer.Enqueue(order))
		require.NoError(t, mailer.Stop(context.Background()))

		assert.Equal(t, 3, email.calls)
		orderRepo.AssertExpectations(t)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		email := &flakyEmail{failures: 10}
		mailer := NewOrderMailer(email, orderRepo, config.MailerConfig{QueueSize: 4, MaxAttempts: 2})
		mailer.backoff = time.Millisecond

		order := newOrder()
		orderRepo.On("SetEmailStatus", mock.Anything, order.ID, models.EmailStatusFailed).Return(nil).Once()

		mailer.Start(context.Background())
		require.True(t, mailer.Enqueue(order))
		require.NoError(t, mailer.Stop(context.Background()))

		assert.Equal(t, 2, email.calls)
		orderRepo.AssertExpectations(t)
	})

	t.Run("stop deadline fails pending orders", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		email := &flakyEmail{failures: 10}
		mailer := NewOrderMailer(email, orderRepo, config.MailerConfig{QueueSize: 4, MaxAttempts: 3})
		mailer.backoff = time.Hour

		first, second := newOrder(), newOrder()
		orderRepo.On("SetEmailStatus", mock.Anything, first.ID, models.EmailStatusFailed).Return(nil).Once()
		orderRepo.On("SetEmailStatus", mock.Anything, second.ID, models.EmailStatusFailed).Return(nil).Once()

		require.True(t, mailer.Enqueue(first))
		require.True(t, mailer.Enqueue(second))
		mailer.Start(context.Background())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		start := time.Now()
		err := mailer.Stop(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, 1, email.calls)
		orderRepo.AssertExpectations(t)
	})

	t.Run("rejects when full or stopped", func(t *testing.T) {
		mailer := NewOrderMailer(&flakyEmail{}, new(MockOrderRepository), config.MailerConfig{QueueSize: 1, MaxAttempts: 1})

		assert.True(t, mailer.Enqueue(newOrder()))
		assert.False(t, mailer.Enqueue(newOrder()))

		orderRepo := new(MockOrderRepository)
		orderRepo.On("SetEmailStatus", mock.Anything, mock.Anything, models.EmailStatusSent).Return(nil)
		mailer.orders = orderRepo
		mailer.Start(context.Background())
		require.NoError(t, mailer.Stop(context.Background()))
		assert.False(t, mailer.Enqueue(newOrder()))
	})
}
