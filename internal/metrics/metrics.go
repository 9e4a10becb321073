package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Customer activity
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_new_users_total",
		Help: "Total number of new user registrations.",
	})
	TotalUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "app_total_users",
		Help: "Total number of registered users in the application.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of login attempts (successful and failed).",
	}, []string{"kind", "status"}) // kind: "user" or "admin"; status: "success" or "failed"
	OTPSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_sent_total",
		Help: "Total number of registration OTP emails attempted.",
	}, []string{"status"})
	OTPVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_otp_verifications_total",
		Help: "Total number of OTP verification attempts by outcome.",
	}, []string{"result"})

	// Shop
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_orders_placed_total",
		Help: "Total number of orders placed.",
	})
	OrderEmailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_order_emails_total",
		Help: "Order confirmation emails by final delivery status.",
	}, []string{"status"})
	MailerQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "app_mailer_queue_depth",
		Help: "Order confirmation emails waiting to be sent.",
	})
	InquiriesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_inquiries_created_total",
		Help: "Total number of service inquiries submitted.",
	})
	ContactsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_contacts_created_total",
		Help: "Total number of contact messages submitted.",
	})
	CatalogWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_catalog_writes_total",
		Help: "Catalog and portfolio mutations by resource and operation.",
	}, []string{"resource", "operation"})
)
