package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gamifyhq/gamify/internal/action"
	"github.com/gamifyhq/gamify/internal/audit"
	"github.com/gamifyhq/gamify/internal/auth"
	"github.com/gamifyhq/gamify/internal/database"
	"github.com/gamifyhq/gamify/internal/event"
	"github.com/gamifyhq/gamify/internal/handler"
	"github.com/gamifyhq/gamify/internal/logger"
	"github.com/gamifyhq/gamify/internal/metrics"
	"github.com/gamifyhq/gamify/internal/reward"
)

type Server struct {
	httpServer    *http.Server
	dbPool        database.Pool
	eventService  event.Service
	rewardService reward.Service
	actionService action.Service
	auditService  audit.Service
}

// NewServer creates a new Server instance
func NewServer(port int, rateLimit int, verifier *auth.Verifier, dbPool database.Pool, eventService event.Service, rewardService reward.Service, actionService action.Service, auditService audit.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	if rateLimit > 0 {
		r.Use(httprate.LimitByIP(rateLimit, time.Minute))
	}
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned, public)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes, all behind token auth
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Require(verifier))

		// Event registry routes
		r.Route("/events", func(r chi.Router) {
			r.With(auth.RequireRole(auth.RoleAdmin)).Post("/", handler.HandleCreateEvent(eventService))
			r.Get("/", handler.HandleListEvents(eventService))
			r.Get("/{eventID}", handler.HandleGetEvent(eventService))
			r.Get("/{eventID}/rewards", handler.HandleListEventRewards(rewardService))
		})

		r.Get("/conditions/{conditionID}", handler.HandleGetCondition(eventService))

		// Reward registry, grant workflow and history routes
		r.Route("/rewards", func(r chi.Router) {
			r.With(auth.RequireRole(auth.RoleAdmin)).Post("/", handler.HandleCreateReward(rewardService))
			r.Get("/", handler.HandleListRewards(rewardService))
			r.Post("/request", handler.HandleRequestReward(rewardService))
			r.Get("/history", handler.HandleGetRewardHistory(rewardService))
			r.Get("/{rewardID}", handler.HandleGetReward(rewardService))
		})

		// Action log routes
		r.Route("/actions", func(r chi.Router) {
			r.Post("/", handler.HandleRecordAction(actionService))
			r.Get("/", handler.HandleListUserActions(actionService))
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))
			r.Get("/audit", handler.HandleGetAuditEntries(auditService))
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:        dbPool,
		eventService:  eventService,
		rewardService: rewardService,
		actionService: actionService,
		auditService:  auditService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
