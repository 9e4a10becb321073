package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"modshop/internal/handlers"
	"modshop/internal/middlewares"
)

// accessLog attaches a request-scoped logger and logs one line per request.
func accessLog(next http.Handler) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(next)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	return hlog.NewHandler(log.Logger)(h)
}

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(accessLog)
	r.Use(middlewares.Cors(s.cfg.HTTP.AllowedOrigins))
	r.Use(s.prometheus.Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloWorldHandler).Methods("GET")
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.HTTP.UploadDir)))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	s.registerAuthRoutes(api)
	s.registerAdminRoutes(api)
	s.registerUserRoutes(api)
	s.registerCatalogRoutes(api)
	s.registerInquiryRoutes(api)
	s.registerOrderRoutes(api)
	s.registerPortfolioRoutes(api)

	return r
}

// authed wraps h with token authentication.
func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return middlewares.Auth(s.jwt)(h)
}

// admin wraps h with token authentication and the admin role check.
func (s *Server) admin(h http.HandlerFunc) http.Handler {
	return middlewares.Auth(s.jwt)(middlewares.AdminOnly(h))
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.otpService, s.userService)
	uh := handlers.NewUserHandler(s.userService, s.adminService)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.Use(s.limiter.Limit)

	auth.HandleFunc("/send-otp", ah.SendOTP).Methods("POST", "OPTIONS")
	auth.HandleFunc("/verify-otp", ah.VerifyOTP).Methods("POST", "OPTIONS")
	auth.HandleFunc("/register", ah.Register).Methods("POST", "OPTIONS")
	auth.HandleFunc("/login", ah.Login).Methods("POST", "OPTIONS")
	auth.Handle("/me", s.authed(uh.GetMyProfile)).Methods("GET", "OPTIONS")
	auth.Handle("/me", s.authed(uh.UpdateMyProfile)).Methods("PUT", "PATCH", "OPTIONS")
}

func (s *Server) registerAdminRoutes(r *mux.Router) {
	h := handlers.NewAdminHandler(s.adminService, s.dashboardService)

	r.Handle("/admins/login", s.limiter.Limit(http.HandlerFunc(h.Login))).Methods("POST", "OPTIONS")
	r.Handle("/admins/dashboard", s.admin(h.Dashboard)).Methods("GET", "OPTIONS")
	r.Handle("/admins/count", s.admin(h.CountAdmins)).Methods("GET", "OPTIONS")
	r.Handle("/admins", s.admin(h.CreateAdmin)).Methods("POST", "OPTIONS")
	r.Handle("/admins", s.admin(h.GetAdmins)).Methods("GET", "OPTIONS")
	r.Handle("/admins/{id}", s.admin(h.GetAdmin)).Methods("GET", "OPTIONS")
	r.Handle("/admins/{id}", s.admin(h.UpdateAdmin)).Methods("PUT", "OPTIONS")
	r.Handle("/admins/{id}", s.admin(h.DeleteAdmin)).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerUserRoutes(r *mux.Router) {
	h := handlers.NewUserHandler(s.userService, s.adminService)

	r.Handle("/users/count", s.admin(h.CountUsers)).Methods("GET", "OPTIONS")
	r.Handle("/users", s.admin(h.GetUsers)).Methods("GET", "OPTIONS")
	r.Handle("/users/{id}", s.admin(h.GetUser)).Methods("GET", "OPTIONS")
	r.Handle("/users/{id}", s.admin(h.DeleteUser)).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerCatalogRoutes(r *mux.Router) {
	ph := handlers.NewProductHandler(s.productService)
	r.HandleFunc("/products/count", ph.CountProducts).Methods("GET", "OPTIONS")
	r.HandleFunc("/products", ph.GetProducts).Methods("GET", "OPTIONS")
	r.Handle("/products", s.admin(ph.CreateProduct)).Methods("POST", "OPTIONS")
	r.HandleFunc("/products/{id}", ph.GetProductByID).Methods("GET", "OPTIONS")
	r.Handle("/products/{id}", s.admin(ph.ReplaceProduct)).Methods("PUT", "OPTIONS")
	r.Handle("/products/{id}", s.admin(ph.DeleteProduct)).Methods("DELETE", "OPTIONS")

	sh := handlers.NewServiceHandler(s.serviceService)
	r.HandleFunc("/services/count", sh.CountServices).Methods("GET", "OPTIONS")
	r.HandleFunc("/services", sh.GetServices).Methods("GET", "OPTIONS")
	r.Handle("/services", s.admin(sh.CreateService)).Methods("POST", "OPTIONS")
	r.HandleFunc("/services/{id}", sh.GetServiceByID).Methods("GET", "OPTIONS")
	r.Handle("/services/{id}", s.admin(sh.ReplaceService)).Methods("PUT", "OPTIONS")
	r.Handle("/services/{id}", s.admin(sh.DeleteService)).Methods("DELETE", "OPTIONS")

	psh := handlers.NewPriorityServiceHandler(s.priorityServiceService)
	r.HandleFunc("/priority-services/count", psh.CountPriorityServices).Methods("GET", "OPTIONS")
	r.HandleFunc("/priority-services", psh.GetPriorityServices).Methods("GET", "OPTIONS")
	r.Handle("/priority-services", s.admin(psh.CreatePriorityService)).Methods("POST", "OPTIONS")
	r.HandleFunc("/priority-services/{id}", psh.GetPriorityServiceByID).Methods("GET", "OPTIONS")
	r.Handle("/priority-services/{id}", s.admin(psh.ReplacePriorityService)).Methods("PUT", "OPTIONS")
	r.Handle("/priority-services/{id}", s.admin(psh.DeletePriorityService)).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerInquiryRoutes(r *mux.Router) {
	ih := handlers.NewInquiryHandler(s.inquiryService)
	r.HandleFunc("/inquiries", ih.CreateInquiry).Methods("POST", "OPTIONS")
	r.Handle("/inquiries/count", s.admin(ih.CountInquiries)).Methods("GET", "OPTIONS")
	r.Handle("/inquiries", s.admin(ih.GetInquiries)).Methods("GET", "OPTIONS")
	r.Handle("/inquiries/{id}", s.admin(ih.GetInquiryByID)).Methods("GET", "OPTIONS")
	r.Handle("/inquiries/{id}", s.admin(ih.ReplaceInquiry)).Methods("PUT", "OPTIONS")
	r.Handle("/inquiries/{id}", s.admin(ih.DeleteInquiry)).Methods("DELETE", "OPTIONS")

	ch := handlers.NewContactHandler(s.contactService)
	r.HandleFunc("/contact", ch.CreateContact).Methods("POST", "OPTIONS")
	r.Handle("/contact/count", s.admin(ch.CountContacts)).Methods("GET", "OPTIONS")
	r.Handle("/contact", s.admin(ch.GetContacts)).Methods("GET", "OPTIONS")
	r.Handle("/contact/{id}", s.admin(ch.GetContactByID)).Methods("GET", "OPTIONS")
	r.Handle("/contact/{id}", s.admin(ch.ReplaceContact)).Methods("PUT", "OPTIONS")
	r.Handle("/contact/{id}", s.admin(ch.DeleteContact)).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerOrderRoutes(r *mux.Router) {
	oh := handlers.NewOrderHandler(s.orderService)
	r.HandleFunc("/orders", oh.CreateOrder).Methods("POST", "OPTIONS")
	r.Handle("/orders/count", s.admin(oh.CountOrders)).Methods("GET", "OPTIONS")
	r.Handle("/orders", s.admin(oh.GetOrders)).Methods("GET", "OPTIONS")
	r.Handle("/orders/{id}", s.admin(oh.GetOrderByID)).Methods("GET", "OPTIONS")
	r.Handle("/orders/{id}", s.admin(oh.UpdateOrder)).Methods("PUT", "OPTIONS")
	r.Handle("/orders/{id}", s.admin(oh.DeleteOrder)).Methods("DELETE", "OPTIONS")
	r.Handle("/orders/{id}/resend-confirmation", s.admin(oh.ResendConfirmation)).Methods("POST", "OPTIONS")
}

func (s *Server) registerPortfolioRoutes(r *mux.Router) {
	ph := handlers.NewPortfolioHandler(s.portfolioService)
	r.HandleFunc("/portfolio", ph.GetPortfolio).Methods("GET", "OPTIONS")
	r.Handle("/portfolio/{section}", s.admin(ph.AddEntry)).Methods("POST", "OPTIONS")
	r.Handle("/portfolio/{section}/{ref}", s.admin(ph.UpdateEntry)).Methods("PUT", "OPTIONS")
	r.Handle("/portfolio/{section}/{ref}", s.admin(ph.DeleteEntry)).Methods("DELETE", "OPTIONS")
}
