package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/channel"
	"github.com/secmon-lab/ouvidoria/pkg/usecase"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

type Server struct {
	router             *chi.Mux
	uc                 *usecase.UseCases
	authn              Authenticator
	adapters           *channel.Registry
	slackSigningSecret string
	slackTenantID      types.TenantID
	gatherer           prometheus.Gatherer
}

type Options func(*Server)

// WithAuthenticator enables the case API. Without an authenticator only
// webhooks, health and metrics are served.
func WithAuthenticator(authn Authenticator) Options {
	return func(s *Server) {
		s.authn = authn
	}
}

func WithAdapters(adapters *channel.Registry) Options {
	return func(s *Server) {
		s.adapters = adapters
	}
}

// WithSlackWebhook enables the Slack Events API endpoint. Reports are filed under tenantID.
func WithSlackWebhook(signingSecret string, tenantID types.TenantID) Options {
	return func(s *Server) {
		s.slackSigningSecret = signingSecret
		s.slackTenantID = tenantID
	}
}

// WithMetrics exposes gatherer on /metrics
func WithMetrics(gatherer prometheus.Gatherer) Options {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		uc:       uc,
		adapters: channel.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	// External channel webhooks - no user auth, the channel is the caller
	r.Post("/api/webhooks/{channel}", NewWebhookHandler(s.adapters, uc.Ingest).ServeHTTP)

	if s.authn != nil {
		h := &caseHandler{uc: uc}
		r.Route("/api/cases", func(r chi.Router) {
			r.Use(authMiddleware(s.authn))

			r.Post("/", h.submit)
			r.Get("/", h.list)
			r.Route("/{caseID}", func(r chi.Router) {
				r.Get("/", h.get)
				r.Patch("/", h.patch)
				r.Post("/messages", h.appendMessage)
				r.Post("/assign", h.assign)
				r.Get("/identity", h.identity)
				r.Get("/tasks", h.listTasks)
				r.Post("/tasks/{taskID}/complete", h.completeTask)
				r.Post("/tasks/{taskID}/assign", h.assignTask)
			})
		})
	}

	// Slack webhook endpoint (if configured) - No auth required, uses signature verification
	if s.slackSigningSecret != "" {
		r.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.slackSigningSecret))
			r.Post("/event", NewSlackWebhookHandler(uc.Ingest, s.slackTenantID).ServeHTTP)
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
