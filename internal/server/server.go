package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/autoapply"
	"github.com/jonathan/autoapply/internal/billing"
	"github.com/jonathan/autoapply/internal/db"
	"github.com/jonathan/autoapply/internal/server/middleware"
	"github.com/jonathan/autoapply/internal/server/ratelimit"
	"github.com/jonathan/autoapply/internal/types"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Store is the persistence the handlers use. *db.DB implements it.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	UpsertProfile(ctx context.Context, p *types.Profile) error

	GetJobListing(ctx context.Context, id uuid.UUID) (*types.JobListing, error)
	ListJobListings(ctx context.Context, filters db.JobListingFilters) ([]types.JobListing, error)
	CreateJobListing(ctx context.Context, j *types.JobListing) (*types.JobListing, error)
	UpdateJobListing(ctx context.Context, id uuid.UUID, j *types.JobListing) (*types.JobListing, error)
	ToggleJobListing(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteJobListing(ctx context.Context, id uuid.UUID) error

	GetOptimizedResume(ctx context.Context, id, userID uuid.UUID) (*types.OptimizedResumeRecord, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]db.PaymentTransaction, error)
	WalletBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	CreditWallet(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)

	GetUserRole(ctx context.Context, userID uuid.UUID) (types.Role, error)
	SetUserRole(ctx context.Context, userID uuid.UUID, role types.Role) error

	Ping(ctx context.Context) error
}

// AutoApplier runs auto-apply requests.
type AutoApplier interface {
	Run(ctx context.Context, req autoapply.Request) autoapply.Outcome
}

// Billing prices and creates orders.
type Billing interface {
	Catalog() *billing.Catalog
	Quote(ctx context.Context, userID uuid.UUID, in billing.QuoteInput) (*billing.Quote, error)
	Reconcile(ctx context.Context, userID uuid.UUID, req types.CreateOrderRequest) (*types.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, userID uuid.UUID, req types.VerifyPaymentRequest) (*db.PaymentTransaction, error)
}

// ArtifactLinker signs short-lived download links for stored resume artifacts.
type ArtifactLinker interface {
	PresignGet(key string, ttl time.Duration) (string, error)
}

// Config holds server configuration
type Config struct {
	Port int
}

// Deps are the collaborators of a Server.
type Deps struct {
	Store       Store
	AutoApply   AutoApplier
	Billing     Billing
	Tokens      middleware.TokenValidator
	Artifacts   ArtifactLinker     // nil serves the stored artifact URLs
	RateLimiter *ratelimit.Limiter // nil uses ratelimit.LoadConfig()
	OnShutdown  func()             // releases resources after the listener stops
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	autoApply   AutoApplier
	billing     Billing
	tokens      middleware.TokenValidator
	artifacts   ArtifactLinker
	rateLimiter *ratelimit.Limiter
	onShutdown  func()
}

// New creates a server and registers its routes.
func New(cfg Config, deps Deps) *Server {
	s := &Server{
		store:       deps.Store,
		autoApply:   deps.AutoApply,
		billing:     deps.Billing,
		tokens:      deps.Tokens,
		artifacts:   deps.Artifacts,
		rateLimiter: deps.RateLimiter,
		onShutdown:  deps.OnShutdown,
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // auto-apply streams run for minutes
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with CORS, logging and rate limiting.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /plans", s.handlePlans)
	mux.HandleFunc("POST /orders/quote", s.handleQuote)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)

	// Authenticated
	mux.Handle("GET /profile", s.authed(s.handleGetProfile))
	mux.Handle("PUT /profile", s.authed(s.handlePutProfile))
	mux.Handle("GET /profile/completeness", s.authed(s.handleProfileCompleteness))
	mux.Handle("POST /auto-apply", s.authed(s.handleAutoApply))
	mux.Handle("POST /auto-apply/stream", s.authed(s.handleAutoApplyStream))
	mux.Handle("GET /optimized-resumes/{id}", s.authed(s.handleGetOptimizedResume))
	mux.Handle("POST /orders", s.authed(s.handleCreateOrder))
	mux.Handle("POST /orders/verify", s.authed(s.handleVerifyPayment))
	mux.Handle("GET /orders", s.authed(s.handleListOrders))
	mux.Handle("GET /wallet", s.authed(s.handleGetWallet))

	// Admin
	mux.Handle("POST /admin/jobs", s.admin(s.handleCreateJob))
	mux.Handle("PUT /admin/jobs/{id}", s.admin(s.handleUpdateJob))
	mux.Handle("POST /admin/jobs/{id}/toggle", s.admin(s.handleToggleJob))
	mux.Handle("DELETE /admin/jobs/{id}", s.admin(s.handleDeleteJob))
	mux.Handle("PUT /admin/users/{id}/role", s.admin(s.handleSetUserRole))
	mux.Handle("POST /admin/users/{id}/wallet", s.admin(s.handleCreditWallet))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.release()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	log.Println("[server] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.release()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("[server] stopped")
	return nil
}

func (s *Server) release() {
	s.rateLimiter.Stop()
	if s.onShutdown != nil {
		s.onShutdown()
	}
}

func (s *Server) authed(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.tokens)(h)
}

func (s *Server) admin(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.tokens)(middleware.RequireRole(s.store, types.RoleAdmin)(h))
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			retry := int(info.RetryAfter.Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			log.Printf("[rate-limit] %s exceeded %d on %s %s", clientIP(r), info.Limit, r.Method, r.URL.Path)
			s.errorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the logging wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// clientIP returns the host part of RemoteAddr. Forwarded headers are not
// trusted.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth reports liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		log.Printf("[server] Warning: health check ping failed: %v", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] Error encoding JSON response: %v", err)
	}
}

// errorResponse writes {"error": code, "message": message}.
func (s *Server) errorResponse(w http.ResponseWriter, status int, code, message string) {
	s.jsonResponse(w, status, map[string]string{"error": code, "message": message})
}

// fail writes err with its mapped status and code. Server-side failures are
// logged and replaced with a generic message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	switch {
	case status == http.StatusBadGateway:
		log.Printf("[server] %s %s upstream failure: %v", r.Method, r.URL.Path, err)
		s.errorResponse(w, status, errorCode(err), "Payment gateway is unavailable. Please try again.")
	case status >= http.StatusInternalServerError:
		log.Printf("[server] %s %s failed: %v", r.Method, r.URL.Path, err)
		s.errorResponse(w, status, CodeInternal, "Internal server error")
	default:
		s.errorResponse(w, status, errorCode(err), err.Error())
	}
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is empty"}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// pathID parses the {name} path value as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a UUID"}
	}
	return id, nil
}

// mustUserID returns the authenticated user id. Routes using it are wrapped
// by AuthMiddleware, so a missing id is a wiring bug.
func mustUserID(r *http.Request) uuid.UUID {
	id, err := middleware.GetUserID(r)
	if err != nil {
		panic(err)
	}
	return id
}
