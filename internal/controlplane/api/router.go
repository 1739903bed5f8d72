package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/nfs4state/internal/controlplane/api/auth"
	"github.com/marmos91/nfs4state/internal/controlplane/api/handlers"
	apiMiddleware "github.com/marmos91/nfs4state/internal/controlplane/api/middleware"
	"github.com/marmos91/nfs4state/internal/logger"
)

// NewRouter creates the chi router with all middleware and routes.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe
//   - GET /api/v1/grace - Grace period status
//   - GET /api/v1/clients - Client list
//   - GET /api/v1/clients/{id} - Client detail
//   - GET /api/v1/clients/{id}/sessions - Sessions of a client
//   - GET /api/v1/stateids/{stateid} - Client owning an XDR-encoded stateid
//   - DELETE /api/v1/clients/{id} - Evict a client (admin token)
//   - DELETE /api/v1/sessions/{sid} - Destroy a session (admin token)
//
// jwtService may be nil, in which case the mutating routes are not mounted.
func NewRouter(sm handlers.StateAuthority, jwtService *auth.JWTService) http.Handler {
	r := chi.NewRouter()

	// Order matters: the request id must exist before the logger runs.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(tracing)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(sm)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	clientHandler := handlers.NewClientHandler(sm)
	sessionHandler := handlers.NewSessionHandler(sm)
	graceHandler := handlers.NewGraceHandler(sm)
	stateidHandler := handlers.NewStateidHandler(sm)
	if clientHandler == nil {
		return r
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/grace", graceHandler.Status)
		r.Get("/stateids/{stateid}", stateidHandler.Resolve)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", clientHandler.List)
			r.Get("/{id}", clientHandler.Get)
			r.Get("/{id}/sessions", clientHandler.ListSessions)

			if jwtService != nil {
				r.With(apiMiddleware.JWTAuth(jwtService), apiMiddleware.RequireAdmin()).
					Delete("/{id}", clientHandler.Evict)
			}
		})

		if jwtService != nil {
			r.Route("/sessions", func(r chi.Router) {
				r.Use(apiMiddleware.JWTAuth(jwtService))
				r.Use(apiMiddleware.RequireAdmin())
				r.Delete("/{sid}", sessionHandler.Destroy)
			})
		}
	})

	return r
}

// isHealthPath returns true if the request path is a healthcheck endpoint.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestLogger logs every request through the internal logger and stores
// a LogContext so handlers can log with the request id attached.
// Healthchecks are logged at DEBUG to keep probe noise out of the logs.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lc := logger.NewLogContext(r.RemoteAddr)
		lc.RequestID = middleware.GetReqID(r.Context())
		lc = lc.WithOperation(r.Method + " " + r.URL.Path)
		r = r.WithContext(logger.WithContext(r.Context(), lc))

		logger.DebugCtx(r.Context(), "API request started")

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logArgs := []any{
			logger.KeyStatus, ww.Status(),
			"bytes", ww.BytesWritten(),
			logger.DurationMs(logger.Duration(start)),
		}

		if isHealthPath(r.URL.Path) {
			logger.DebugCtx(r.Context(), "API request completed", logArgs...)
		} else {
			logger.InfoCtx(r.Context(), "API request completed", logArgs...)
		}
	})
}
