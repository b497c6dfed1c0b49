package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ren-ben/HelikonProject/internal/logger"
	"github.com/ren-ben/HelikonProject/internal/telemetry"
	"github.com/ren-ben/HelikonProject/pkg/api/auth"
	"github.com/ren-ben/HelikonProject/pkg/api/handlers"
	apimiddleware "github.com/ren-ben/HelikonProject/pkg/api/middleware"
	"github.com/ren-ben/HelikonProject/pkg/authflow"
	"github.com/ren-ben/HelikonProject/pkg/llm"
	"github.com/ren-ben/HelikonProject/pkg/metrics"
	"github.com/ren-ben/HelikonProject/pkg/store"
)

// NewRouter creates and configures the chi router with all middleware and routes.
//
// The router is configured with:
//   - Request ID middleware for request tracking
//   - Real IP extraction for proper client identification
//   - Per-request server spans (no-op unless telemetry is enabled)
//   - Custom request logging using the internal logger
//   - Panic recovery to prevent server crashes
//   - Request timeout to prevent hung requests (generation routes excluded)
//   - Prometheus request metrics (no-op when metrics are disabled)
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /metrics - Prometheus scrape endpoint (404 when disabled)
//   - POST /api/v1/auth/register - Account registration
//   - POST /api/v1/auth/login - User authentication
//   - POST /api/v1/auth/refresh - Token refresh
//   - GET /api/v1/auth/me - Current user info
//   - GET /api/v1/clil/models - Available generation models
//   - POST /api/v1/clil/generate - CLIL material generation
//   - /api/v1/clil/materials/* - Saved material management
//   - /api/v1/clil/subjects/* - Subject management
//   - /api/v1/clil/documents/* - RAG document management
//   - /api/v1/clil/admin/* - Account administration (admin only)
func NewRouter(
	config APIConfig,
	s store.Store,
	tokens *auth.TokenService,
	flow *authflow.Service,
	ollama *llm.OllamaClient,
	rag *llm.RAGClient,
	httpMetrics *metrics.HTTPMetrics,
	authMetrics *metrics.AuthMetrics,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack - order matters
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(tracing)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(httpMetrics.Middleware)

	// Health check handlers
	healthHandler := handlers.NewHealthHandler(s)

	// Health routes - unauthenticated
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	// Prometheus scrape endpoint - unauthenticated, 404 when disabled
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	// Root redirect to health for convenience
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	// API handlers
	authHandler := handlers.NewAuthHandler(flow, s, authMetrics)
	materialHandler := handlers.NewMaterialHandler(s)
	subjectHandler := handlers.NewSubjectHandler(s)
	generateHandler := handlers.NewGenerateHandler(s, ollama, rag)
	documentHandler := handlers.NewDocumentHandler(s, rag, int64(config.MaxUploadSize))
	adminHandler := handlers.NewAdminHandler(s)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes - mostly unauthenticated
		r.Route("/auth", func(r chi.Router) {
			r.Use(chimiddleware.Timeout(30 * time.Second))

			// Public endpoints
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Authenticated endpoint
			r.Group(func(r chi.Router) {
				r.Use(apimiddleware.JWTAuth(tokens))
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes - require a valid access token
		r.Route("/clil", func(r chi.Router) {
			r.Use(apimiddleware.JWTAuth(tokens))

			// Generation routes have no request timeout; the upstream LLM
			// clients enforce their own.
			r.Get("/models", generateHandler.Models)
			r.Post("/generate", generateHandler.Generate)

			// Saved material management
			r.Route("/materials", func(r chi.Router) {
				r.Use(chimiddleware.Timeout(30 * time.Second))

				r.Get("/", materialHandler.List)
				r.Post("/", materialHandler.Create)
				r.Get("/{id}", materialHandler.Get)
				r.Put("/{id}", materialHandler.Update)
				r.Delete("/{id}", materialHandler.Delete)
			})

			// Subject management
			r.Route("/subjects", func(r chi.Router) {
				r.Use(chimiddleware.Timeout(30 * time.Second))

				r.Get("/", subjectHandler.List)
				r.Post("/", subjectHandler.Create)
				r.Delete("/{id}", subjectHandler.Delete)
			})

			// RAG document management - uploads and queries proxy to the
			// RAG service, which enforces its own timeouts.
			r.Route("/documents", func(r chi.Router) {
				r.Post("/upload", documentHandler.Upload)
				r.Get("/", documentHandler.List)
				r.Delete("/", documentHandler.Delete)
				r.Post("/query", documentHandler.Query)
			})

			// Account administration (admin only)
			r.Route("/admin", func(r chi.Router) {
				r.Use(chimiddleware.Timeout(30 * time.Second))
				r.Use(apimiddleware.RequireAdmin())

				r.Get("/users", adminHandler.ListUsers)
				r.Get("/users/{id}", adminHandler.GetUser)
				r.Put("/users/{id}/roles", adminHandler.UpdateUserRoles)
				r.Post("/users/{id}/approve", adminHandler.ApproveUser)
				r.Delete("/users/{id}", adminHandler.DeleteUser)
				r.Get("/stats", adminHandler.Stats)
			})
		})
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/") || path == "/metrics"
}

// tracing opens a server span per request. Health and metrics endpoints
// are not traced. The span records the method, route pattern and status code;
// 5xx responses mark the span as errored.
func tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isHealthPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := telemetry.StartSpan(r.Context(), "http "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(
			telemetry.HTTPMethod(r.Method),
			telemetry.ClientIP(r.RemoteAddr),
		)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		// The route pattern is known only after chi matched the request.
		if rctx := chi.RouteContext(ctx); rctx != nil {
			if route := rctx.RoutePattern(); route != "" {
				span.SetName(r.Method + " " + route)
				span.SetAttributes(telemetry.HTTPRoute(route))
			}
		}
		span.SetAttributes(telemetry.HTTPStatus(ww.Status()))
		if ww.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(ww.Status()))
		}
	})
}

// requestLogger is a custom middleware that logs requests using the internal logger.
//
// It attaches a request-scoped LogContext carrying the request ID and, when
// tracing is active, the trace/span IDs, so every *Ctx log call downstream
// correlates with the request and its trace.
//
// It logs:
//   - Request start (DEBUG level): method, path, remote addr
//   - Request completion (INFO level): status, bytes, duration
//   - Healthcheck and metrics requests are logged at DEBUG level to reduce noise
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		lc := logger.NewLogContext(r.Method, r.URL.Path, r.RemoteAddr).
			WithRequestID(chimiddleware.GetReqID(ctx)).
			WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
		ctx = logger.WithContext(ctx, lc)

		logger.DebugCtx(ctx, "API request started")

		// Wrap response writer to capture status code
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		duration := time.Since(start)

		logArgs := []any{
			logger.KeyStatus, ww.Status(),
			"bytes", ww.BytesWritten(),
			logger.KeyDurationMs, duration.Milliseconds(),
		}

		// Log healthcheck requests at DEBUG to avoid polluting logs in k8s
		if isHealthPath(r.URL.Path) {
			logger.DebugCtx(ctx, "API request completed", logArgs...)
		} else {
			logger.InfoCtx(ctx, "API request completed", logArgs...)
		}
	})
}
