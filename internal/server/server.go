package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mnfst/outreach/internal/auth"
	"github.com/mnfst/outreach/internal/automation"
	"github.com/mnfst/outreach/internal/config"
	"github.com/mnfst/outreach/internal/db"
	"github.com/mnfst/outreach/internal/handlers"
	"github.com/mnfst/outreach/internal/metrics"
	"github.com/mnfst/outreach/internal/middleware"
	"github.com/mnfst/outreach/internal/ws"
)

type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *db.DB
	hub    *ws.Hub
	http   *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	m := metrics.New()
	metrics.SetGlobal(m)

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	engineClient := automation.NewClient(cfg.Automation.WebhookURL, cfg.Automation.APIURL, cfg.Automation.APIKey)
	h := handlers.New(cfg, database, issuer, engineClient, logger)
	hub := ws.NewHub(h.ImportEngine(), h.Lists(), logger)

	s := &Server{
		cfg:    cfg,
		logger: logger,
		db:     database,
		hub:    hub,
	}

	s.http = &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      s.setupRoutes(h, m, issuer),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) setupRoutes(h *handlers.Handlers, m *metrics.Metrics, issuer *auth.TokenIssuer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logger(s.logger))
	r.Use(metrics.HTTPMiddleware)

	r.Get("/health", h.Health)
	if s.cfg.Metrics.Enabled {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, m.Handler())
	}

	// Progress channel; unauthenticated, tenant travels in the frames.
	r.Get("/ws", s.hub.ServeHTTP)

	// Engine callbacks; unauthenticated, correlation by job id.
	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/search/{jobID}", h.WebhookSearch)
		r.Post("/lists/{jobID}", h.WebhookList)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/signin", h.Signin)
		r.Post("/signout", h.Signout)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(issuer, s.logger))

		r.Route("/lists", func(r chi.Router) {
			r.Get("/", h.ListIndex)
			r.Post("/", h.ListCreate)
			r.Get("/{id}", h.ListGet)
			r.Put("/{id}", h.ListUpdate)
			r.Delete("/{id}", h.ListDelete)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", h.CampaignIndex)
			r.Post("/", h.CampaignCreate)
			r.Get("/{id}", h.CampaignGet)
			r.Put("/{id}", h.CampaignUpdate)
			r.Delete("/{id}", h.CampaignDelete)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.ContactIndex)
			r.Post("/", h.ContactCreate)
			r.Post("/batch", h.ContactBatch)
			r.Get("/{id}", h.ContactGet)
			r.Put("/{id}", h.ContactUpdate)
			r.Delete("/{id}", h.ContactDelete)
		})

		r.Route("/outreach", func(r chi.Router) {
			r.Post("/search", h.OutreachSearch)
			r.Post("/lists/add", h.OutreachListAdd)
		})

		r.Get("/workflows", h.WorkflowIndex)
		r.Get("/workflows/{id}", h.WorkflowGet)
		r.Get("/executions/{id}", h.ExecutionGet)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting server", "addr", s.cfg.Server.ListenAddr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
		}
		s.db.Close()
		return nil
	}
}
