// Package server exposes the wizard pages and the JSON API over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rvalen1123/msc-admin-assist-sub001/internal/auth"
	"github.com/rvalen1123/msc-admin-assist-sub001/internal/service"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/renderers/vanilla"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTheme applies resolved design tokens to every page.
func WithTheme(theme *render.ThemeConfig) Option {
	return func(s *Server) {
		s.theme = theme
	}
}

// WithTranslator localises pages. The "lang" query parameter overrides
// locale per request.
func WithTranslator(translator render.Translator, locale string) Option {
	return func(s *Server) {
		s.translator = translator
		s.locale = locale
	}
}

// WithPages replaces the HTML renderer.
func WithPages(pages *vanilla.Renderer) Option {
	return func(s *Server) {
		if pages != nil {
			s.pages = pages
		}
	}
}

// Server holds the HTTP handlers.
type Server struct {
	intake *service.Service
	auth   *auth.Service
	tokens *auth.Tokens
	pages  *vanilla.Renderer
	logger *zap.Logger

	theme      *render.ThemeConfig
	translator render.Translator
	locale     string
}

// New wires the intake and auth services.
func New(intake *service.Service, authSvc *auth.Service, tokens *auth.Tokens, options ...Option) (*Server, error) {
	if intake == nil || authSvc == nil || tokens == nil {
		return nil, errors.New("server: intake service, auth service and tokens are required")
	}
	s := &Server{
		intake: intake,
		auth:   authSvc,
		tokens: tokens,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.pages == nil {
		pages, err := vanilla.New()
		if err != nil {
			return nil, err
		}
		s.pages = pages
	}
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))

	r.Post("/auth/login", s.login)
	r.With(auth.Middleware(s.tokens)).Get("/auth/me", s.me)

	r.Route("/wizard/{templateID}", func(r chi.Router) {
		r.Get("/", s.startWizard)
		r.Get("/{sessionID}", s.showStep)
		r.Post("/{sessionID}", s.postStep)
	})

	records := s.intake.Records()
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(s.tokens))

		r.Get("/templates", s.listTemplates)
		r.Get("/templates/{id}", s.getTemplate)
		r.Get("/sessions/{id}", s.getSession)
		r.Get("/products", s.listProducts)

		r.Route("/sales-reps", newCRUD[store.SalesRep](records.SalesReps, s.logger).routes(nil))
		r.Route("/customers", newCRUD[store.Customer](records.Customers, s.logger).routes(nil))
		r.Route("/submissions", newCRUD[store.FormSubmission](records.Submissions, s.logger).routes(func(r chi.Router) {
			r.Get("/export.xlsx", s.exportSubmissions)
		}))

		r.Get("/orders", s.listOrders)
		r.Get("/orders/{id}", s.getOrder)
		r.Get("/orders/{id}/summary.pdf", s.orderSummary)
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.intake.SessionCount(),
	})
}
