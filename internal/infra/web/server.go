package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"profitscan-ai/internal/infra/redis"
	"profitscan-ai/internal/usecase"
)

// Server carries the use cases behind both HTTP surfaces: the public
// calculator API and the key-protected admin API.
type Server struct {
	calcUC    usecase.CalculationUseCase
	quotaUC   usecase.ScanQuotaUseCase
	accessUC  usecase.AccessUseCase
	pricingUC usecase.PricingUseCase
	mailUC    usecase.MailUseCase

	auth     *AuthManager
	adminKey string
	limiter  *redis.RateLimiter
	perMin   int
	log      *zerolog.Logger
}

func NewServer(
	calcUC usecase.CalculationUseCase,
	quotaUC usecase.ScanQuotaUseCase,
	accessUC usecase.AccessUseCase,
	pricingUC usecase.PricingUseCase,
	mailUC usecase.MailUseCase,
	auth *AuthManager,
	adminKey string,
	limiter *redis.RateLimiter,
	perMin int,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		calcUC:    calcUC,
		quotaUC:   quotaUC,
		accessUC:  accessUC,
		pricingUC: pricingUC,
		mailUC:    mailUC,
		auth:      auth,
		adminKey:  adminKey,
		limiter:   limiter,
		perMin:    perMin,
		log:       logger,
	}
}

// Routes builds the public API handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Get("/scan-cost", s.handleScanCost)
		r.Get("/access", s.handleAccessByEmail)

		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/scans", s.handleScanStatus)
			r.Post("/scans", s.handleEnroll)
			r.Post("/scans/consume", s.handleConsume)
			r.Get("/access", s.handleAccessByAccount)
			r.Post("/commentary", s.handleCommentary)
		})
	})

	return Chain(r,
		Recover(s.log),
		TraceID(),
		RequestLog(s.log),
		RateLimit(s.limiter, s.perMin, s.log),
		Timeout(60*time.Second),
	)
}

// AdminRoutes builds the admin handler, served on its own port.
func (s *Server) AdminRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/admin/login", s.handleAdminLogin)
	r.Post("/admin/logout", s.handleAdminLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/admin/smtp", s.handleGetSMTP)
		r.Put("/admin/smtp", s.handlePutSMTP)
		r.Post("/admin/smtp/test", s.handleSMTPTest)

		r.Get("/admin/templates", s.handleListTemplates)
		r.Get("/admin/templates/{name}", s.handleGetTemplate)
		r.Put("/admin/templates/{name}", s.handlePutTemplate)
		r.Delete("/admin/templates/{name}", s.handleDeleteTemplate)

		r.Get("/admin/pricing", s.handleListPricing)
		r.Put("/admin/pricing/{provider}", s.handlePutPricing)
		r.Delete("/admin/pricing/{provider}", s.handleDeletePricing)

		r.Post("/admin/access", s.handleGrantAccess)
		r.Get("/admin/accounts/{id}/events", s.handleScanHistory)
	})

	return Chain(r,
		Recover(s.log),
		TraceID(),
		RequestLog(s.log),
		Timeout(30*time.Second),
	)
}

// sessionMiddleware requires a valid admin JWT (cookie or bearer).
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
