package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"modshop/internal/config"
	"modshop/internal/database"
	"modshop/internal/middlewares"
	"modshop/internal/repositories"
	"modshop/internal/services"
	"modshop/internal/utils"
)

// mailerStopTimeout bounds how long shutdown waits for queued order confirmations.
const mailerStopTimeout = 10 * time.Second

type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	db         database.Service
	jwt        *utils.JWTManager
	limiter    *middlewares.RateLimiter
	prometheus *middlewares.PrometheusMiddleware
	mailer     *services.OrderMailer

	ctx    context.Context
	cancel context.CancelFunc

	otpService             services.OTPService
	userService            services.UserService
	adminService           services.AdminService
	productService         services.ProductService
	serviceService         services.ServiceService
	priorityServiceService services.PriorityServiceService
	inquiryService         services.InquiryService
	contactService         services.ContactService
	orderService           services.OrderService
	portfolioService       services.PortfolioService
	dashboardService       *services.DashboardService
}

// NewServer wires repositories, services and routes. HTTP metrics are registered on reg.
func NewServer(cfg *config.Config, db database.Service, reg prometheus.Registerer) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	userRepo := repositories.NewUserRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	productRepo := repositories.NewProductRepository(db)
	serviceRepo := repositories.NewServiceRepository(db)
	priorityRepo := repositories.NewPriorityServiceRepository(db)
	inquiryRepo := repositories.NewInquiryRepository(db)
	contactRepo := repositories.NewContactRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)

	jwtManager := utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL)
	emailService := services.NewEmailService(cfg.SMTP)
	otpService := services.NewOTPService(userRepo, otpRepo, emailService, cfg.Auth.OTPTTL)
	mailer := services.NewOrderMailer(emailService, orderRepo, cfg.Mailer)

	s := &Server{
		cfg:        cfg,
		db:         db,
		jwt:        jwtManager,
		limiter:    middlewares.NewRateLimiter(ctx, cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateBurst),
		prometheus: middlewares.NewPrometheusMiddleware(reg),
		mailer:     mailer,
		ctx:        ctx,
		cancel:     cancel,

		otpService:             otpService,
		userService:            services.NewUserService(userRepo, otpService, jwtManager),
		adminService:           services.NewAdminService(adminRepo, jwtManager),
		productService:         services.NewProductService(productRepo),
		serviceService:         services.NewServiceService(serviceRepo),
		priorityServiceService: services.NewPriorityServiceService(priorityRepo),
		inquiryService:         services.NewInquiryService(inquiryRepo, priorityRepo),
		contactService:         services.NewContactService(contactRepo),
		orderService:           services.NewOrderService(orderRepo, productRepo, mailer),
		portfolioService:       services.NewPortfolioService(portfolioRepo),
		dashboardService: &services.DashboardService{
			Products:         productRepo,
			Services:         serviceRepo,
			PriorityServices: priorityRepo,
			Inquiries:        inquiryRepo,
			Contacts:         contactRepo,
			Users:            userRepo,
			Orders:           orderRepo,
		},
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// BootstrapAdmin creates the configured admin account when none exists yet.
func (s *Server) BootstrapAdmin(ctx context.Context) error {
	return s.adminService.EnsureBootstrapAdmin(ctx, s.cfg.Admin.Username, s.cfg.Admin.Password)
}

// Start runs the order mailer and serves HTTP until the server is shut down.
func (s *Server) Start() error {
	s.mailer.Start(s.ctx)
	log.Info().Int("port", s.cfg.HTTP.Port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	mailerCtx, cancelMailer := context.WithTimeout(context.Background(), mailerStopTimeout)
	defer cancelMailer()
	if err := s.mailer.Stop(mailerCtx); err != nil {
		log.Warn().Err(err).Msg("Order mailer did not drain in time, pending confirmations marked failed")
	}
	s.cancel()

	log.Info().Msg("Server exiting")
	done <- true
}
