// Package mockcore is an in-memory stand-in for the new-core onboarding
// service and its backoffice. It speaks the same HTTP contract as the real
// deployment, records every onboarding step per customer and exposes the
// records through a test-only snapshot endpoint.
package mockcore

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dedezuli/mocha-API-sub002/internal/environment"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/config"
	"github.com/Dedezuli/mocha-API-sub002/internal/platform/metrics"
	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

// Server is the fake backend. Build it with New and serve Handler().
type Server struct {
	store      *Store
	tokens     *TokenService
	otp        OTPStore
	publisher  Publisher
	apiKey     string
	apiSecret  string
	admin      config.BasicAuth
	otpCode    string
	bcryptCost int
	logger     *slog.Logger
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	now        func() time.Time
}

type Option func(s *Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithGatherer exposes the gatherer's metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithOTPStore replaces the in-memory OTP store, e.g. with RedisOTPStore.
func WithOTPStore(store OTPStore) Option {
	return func(s *Server) {
		s.otp = store
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Server) {
		s.publisher = p
	}
}

// WithBcryptCost lowers the password hashing cost in tests.
func WithBcryptCost(cost int) Option {
	return func(s *Server) {
		s.bcryptCost = cost
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New builds a Server from cfg.
func New(cfg config.MockCore, opts ...Option) *Server {
	s := &Server{
		store:      NewStore(),
		tokens:     NewTokenService(cfg.JWTSigningKey, cfg.TokenTTL),
		otp:        NewMemoryOTPStore(),
		publisher:  noopPublisher{},
		apiKey:     cfg.NewCore.Key,
		apiSecret:  cfg.NewCore.Secret,
		admin:      cfg.Backoffice,
		otpCode:    cfg.OTPCode,
		bcryptCost: bcrypt.DefaultCost,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the recorded customers to in-process tests.
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Post(environment.BackofficeLoginPath, s.handleLegacyLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSignature)
		r.Post(newcore.PathRegistration, s.handleRegistration)
		r.Post(newcore.PathBackofficeLogin, s.handleBackofficeLogin)
		r.Get(newcore.PathCustomerSnapshot, s.handleSnapshot)

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken(RoleBorrower))
			r.Post(newcore.PathOTPVerification, s.handleOTPVerification)
			r.Post(newcore.PathProductPreference, s.handleProductPreference)
			r.Put(newcore.PathUsername, s.handleUsername)
			r.Post(newcore.PathIdentification, s.handleIdentification)
			r.Post(newcore.PathPersonalData, s.handlePersonalData)
			r.Post(newcore.PathBusinessProfile, s.handleBusinessProfile)
			r.Post(newcore.PathLegalInformation, s.handleLegalInformation)
			r.Post(newcore.PathBankInformation, s.handleBankInformation)
			r.Post(newcore.PathEStatement, s.handleEStatement)
			r.Post(newcore.PathFinancialStatement, s.handleFinancialStatement)
			r.Post(newcore.PathEmergencyContact, s.handleEmergencyContact)
			r.Post(newcore.PathShareholder, s.handleShareholder)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken(RoleAdmin))
			r.Put(newcore.PathEmailVerification, s.handleEmailVerification)
		})
	})
	return r
}
