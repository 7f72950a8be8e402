// Package server wires the HTTP router, middleware and handlers.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/LevelUp_Go/internal/award"
	"github.com/osse101/LevelUp_Go/internal/database"
	"github.com/osse101/LevelUp_Go/internal/handler"
	"github.com/osse101/LevelUp_Go/internal/logger"
	"github.com/osse101/LevelUp_Go/internal/metrics"
	"github.com/osse101/LevelUp_Go/internal/reward"
	"github.com/osse101/LevelUp_Go/internal/ruleset"
)

// Options configure the listener and middleware
type Options struct {
	Port             int
	APIKey           string
	TrustedProxies   []string
	RequestSizeLimit int64
}

// Services are the collaborators the handlers call. DBPool is nil for
// in-memory storage.
type Services struct {
	DBPool   database.Pool
	Rulesets ruleset.Service
	Award    award.Service
	Rewards  reward.Checker
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	if opts.RequestSizeLimit <= 0 {
		opts.RequestSizeLimit = DefaultRequestSizeLimit
	}

	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(opts.RequestSizeLimit))
	r.Use(metrics.Middleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(svc.DBPool))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	xpHandlers := handler.NewXPHandlers(svc.Award)
	rulesetHandlers := handler.NewRulesetHandlers(svc.Rulesets)
	rewardHandlers := handler.NewRewardHandlers(svc.Rewards, svc.Award)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/xp", func(r chi.Router) {
			r.Post("/simulate", xpHandlers.HandleSimulate())
			r.Post("/quest", xpHandlers.HandleScoreQuest())
			r.Post("/event", xpHandlers.HandleScoreEvent())
		})
		r.Get("/level", xpHandlers.HandleGetLevel())

		r.Route("/rulesets", func(r chi.Router) {
			r.Get("/", rulesetHandlers.HandleList())
			r.Post("/", rulesetHandlers.HandleCreate())
			r.Get("/active", rulesetHandlers.HandleGetActive())
			r.Get("/defaults", rulesetHandlers.HandleDefaults())
			r.Post("/validate", rulesetHandlers.HandleValidate())
			r.Get("/{id}", rulesetHandlers.HandleGet())
			r.Put("/{id}", rulesetHandlers.HandleUpdate())
			r.Post("/{id}/activate", rulesetHandlers.HandleActivate())
		})

		r.Route("/rewards", func(r chi.Router) {
			r.Post("/eligibility", rewardHandlers.HandleCheckEligibility())
			r.Post("/prerequisites/validate", rewardHandlers.HandleValidatePrerequisite())
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		router: r,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
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

// loggingMiddleware tags each request with an ID (the caller's X-Request-ID
// when present) and logs start and completion
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		sanitized := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitized[k] = []string{RedactedValue}
			} else {
				sanitized[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitized)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
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
