package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modshop/internal/metrics"
	"modshop/internal/models"
	"modshop/internal/repositories"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	GetOrders(ctx context.Context, status string) ([]models.Order, error)
	CountOrders(ctx context.Context, status string) (int64, error)
	GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateOrder(ctx context.Context, id primitive.ObjectID, update models.OrderUpdate) (*models.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) error
	ResendConfirmation(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	notifier    OrderNotifier
	now         func() time.Time
}

func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, notifier OrderNotifier) OrderService {
	return &orderService{orderRepo: orderRepo, productRepo: productRepo, notifier: notifier, now: time.Now}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// orderTotal sums price × quantity, rounded to cents.
func orderTotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100
}

// priceItems copies catalog name and price onto each item. Client-sent values are ignored.
func priceItems(items []models.OrderItem, products []models.Product) []models.OrderItem {
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]models.OrderItem, len(items))
	for i, item := range items {
		p := byID[item.ProductID]
		item.Name = p.Name
		item.Price = p.Price
		if item.Image == "" {
			item.Image = p.Image
		}
		out[i] = item
	}
	return out
}

func (s *orderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	req.Customer.Email = normalizeEmail(req.Customer.Email)
	log.Debug().Str("email", req.Customer.Email).Int("items", len(req.Items)).Msg("Attempting to place order")
	if len(req.Items) == 0 {
		log.Warn().Str("email", req.Customer.Email).Msg("Order without items rejected")
		return nil, invalidInput("items must contain at least 1 item(s)")
	}
	if err := validateInput(req); err != nil {
		return nil, err
	}

	seen := make(map[primitive.ObjectID]struct{}, len(req.Items))
	ids := make([]primitive.ObjectID, 0, len(req.Items))
	for _, item := range req.Items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load order products")
		return nil, err
	}
	if len(products) != len(ids) {
		log.Warn().Int("found", len(products)).Int("requested", len(ids)).Msg("Order references unknown products")
		return nil, invalidInput("order contains unknown products")
	}
	items := priceItems(req.Items, products)

	now := s.now().UTC()
	order := &models.Order{
		ID:          primitive.NewObjectID(),
		Customer:    req.Customer,
		Items:       items,
		Total:       orderTotal(items),
		Status:      models.OrderStatusPending,
		EmailStatus: models.EmailStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.orderRepo.Create(ctx, order); err != nil {
		log.Error().Err(err).Str("email", order.Customer.Email).Msg("Failed to insert order")
		return nil, err
	}
	metrics.OrdersPlacedTotal.Inc()
	log.Info().Str("order_id", order.ID.Hex()).Str("total", formatMoney(order.Total)).Msg("Order placed")

	s.queueConfirmation(ctx, order)
	return order, nil
}

// queueConfirmation hands the order to the mailer, marking the email failed when the queue is full.
func (s *orderService) queueConfirmation(ctx context.Context, order *models.Order) {
	if s.notifier.Enqueue(*order) {
		return
	}
	order.EmailStatus = models.EmailStatusFailed
	metrics.OrderEmailsTotal.WithLabelValues(models.EmailStatusFailed).Inc()
	if err := s.orderRepo.SetEmailStatus(ctx, order.ID, models.EmailStatusFailed); err != nil {
		log.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("Failed to record confirmation status")
	}
}

func (s *orderService) GetOrders(ctx context.Context, status string) ([]models.Order, error) {
	return s.orderRepo.Find(ctx, fieldFilter("status", status))
}

func (s *orderService) CountOrders(ctx context.Context, status string) (int64, error) {
	return s.orderRepo.Count(ctx, fieldFilter("status", status))
}

func (s *orderService) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return findOrNotFound[models.Order](ctx, s.orderRepo, id, "Order")
}

func (s *orderService) UpdateOrder(ctx context.Context, id primitive.ObjectID, update models.OrderUpdate) (*models.Order, error) {
	log.Debug().Str("order_id", id.Hex()).Msg("Attempting to update order")
	if update.Customer != nil {
		update.Customer.Email = normalizeEmail(update.Customer.Email)
	}
	if err := validateInput(update); err != nil {
		return nil, err
	}

	updateFields := bson.M{}
	if update.Status != nil {
		updateFields["status"] = *update.Status
	}
	if update.Customer != nil {
		updateFields["customer"] = *update.Customer
	}
	if len(updateFields) == 0 {
		return nil, invalidInput("no valid fields provided for update")
	}
	updateFields["updatedAt"] = s.now().UTC()

	result, err := s.orderRepo.Update(ctx, id, updateFields)
	if err != nil {
		log.Error().Err(err).Str("order_id", id.Hex()).Msg("Failed to update order")
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, notFound("Order not found")
	}
	log.Info().Str("order_id", id.Hex()).Msg("Order updated")
	return s.GetOrderByID(ctx, id)
}

func (s *orderService) DeleteOrder(ctx context.Context, id primitive.ObjectID) error {
	if err := deleteOrNotFound[models.Order](ctx, s.orderRepo, id, "Order"); err != nil {
		return err
	}
	log.Info().Str("order_id", id.Hex()).Msg("Order deleted")
	return nil
}

// ResendConfirmation queues the confirmation email again. The returned order carries
// emailStatus pending, or failed when the queue could not take it.
func (s *orderService) ResendConfirmation(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.SetEmailStatus(ctx, id, models.EmailStatusPending); err != nil {
		return nil, err
	}
	order.EmailStatus = models.EmailStatusPending
	s.queueConfirmation(ctx, order)
	log.Info().Str("order_id", id.Hex()).Str("email_status", order.EmailStatus).Msg("Order confirmation re-queued")
	return order, nil
}
