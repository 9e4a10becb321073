package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"modshop/internal/config"
	"modshop/internal/metrics"
	"modshop/internal/models"
	"modshop/internal/repositories"
)

// OrderNotifier accepts orders whose confirmation email should be sent.
type OrderNotifier interface {
	Enqueue(order models.Order) bool
}

// OrderMailer sends order confirmations from a single background worker. Each order gets up
// to maxAttempts sends with linear backoff, and the outcome is written back as the order's
// emailStatus.
type OrderMailer struct {
	email       EmailService
	orders      repositories.OrderRepository
	queue       chan models.Order
	maxAttempts int
	backoff     time.Duration

	mu     sync.RWMutex
	closed bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// failPendingTimeout bounds the status writes for orders abandoned at shutdown.
const failPendingTimeout = 5 * time.Second

func NewOrderMailer(email EmailService, orders repositories.OrderRepository, cfg config.MailerConfig) *OrderMailer {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &OrderMailer{
		email:       email,
		orders:      orders,
		queue:       make(chan models.Order, queueSize),
		maxAttempts: maxAttempts,
		backoff:     2 * time.Second,
	}
}

// Start launches the worker. It runs until Stop closes the queue, or until ctx is cancelled.
// Orders still queued on cancellation are marked failed so they can be resent.
func (m *OrderMailer) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				log.Warn().Int("pending", len(m.queue)).Msg("Order mailer stopped before draining queue")
				m.failPending()
				return
			case order, ok := <-m.queue:
				if !ok {
					log.Info().Msg("Order mailer drained and stopped")
					return
				}
				metrics.MailerQueueDepth.Set(float64(len(m.queue)))
				m.deliver(ctx, order)
			}
		}
	}()
}

// Enqueue hands the order to the worker without blocking. It reports false when the queue is
// full or the mailer has been stopped.
func (m *OrderMailer) Enqueue(order models.Order) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false
	}

	select {
	case m.queue <- order:
		metrics.MailerQueueDepth.Set(float64(len(m.queue)))
		return true
	default:
		log.Warn().Str("order_id", order.ID.Hex()).Msg("Order mailer queue full")
		return false
	}
}

// Stop closes the queue and waits for queued confirmations to be processed. When ctx ends
// first the worker is cancelled, the remaining orders are marked failed and ctx.Err() is
// returned.
func (m *OrderMailer) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	cancel := m.cancel
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}
		<-done
		return ctx.Err()
	}
}

// failPending marks every order left in the queue as failed without sending.
func (m *OrderMailer) failPending() {
	ctx, cancel := context.WithTimeout(context.Background(), failPendingTimeout)
	defer cancel()
	for {
		select {
		case order, ok := <-m.queue:
			if !ok {
				return
			}
			m.record(ctx, order, models.EmailStatusFailed)
		default:
			return
		}
	}
}

func (m *OrderMailer) deliver(ctx context.Context, order models.Order) {
	if ctx.Err() != nil {
		m.record(context.WithoutCancel(ctx), order, models.EmailStatusFailed)
		return
	}
	body, err := renderOrderEmail(&order)
	if err != nil {
		log.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("Failed to render order confirmation")
		m.record(ctx, order, models.EmailStatusFailed)
		return
	}
	subject := fmt.Sprintf("Order confirmation #%s", order.ID.Hex())

	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		err = m.email.SendEmail(order.Customer.Email, subject, body)
		if err == nil {
			m.record(ctx, order, models.EmailStatusSent)
			return
		}
		log.Warn().Err(err).Str("order_id", order.ID.Hex()).Int("attempt", attempt).Msg("Order confirmation send failed")
		if attempt == m.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			m.record(context.WithoutCancel(ctx), order, models.EmailStatusFailed)
			return
		case <-time.After(m.backoff * time.Duration(attempt)):
		}
	}

	log.Error().Err(err).Str("order_id", order.ID.Hex()).Str("email", order.Customer.Email).Msg("Giving up on order confirmation")
	m.record(context.WithoutCancel(ctx), order, models.EmailStatusFailed)
}

func (m *OrderMailer) record(ctx context.Context, order models.Order, status string) {
	metrics.OrderEmailsTotal.WithLabelValues(status).Inc()
	if err := m.orders.SetEmailStatus(ctx, order.ID, status); err != nil {
		log.Error().Err(err).Str("order_id", order.ID.Hex()).Str("email_status", status).Msg("Failed to record confirmation status")
	}
}
