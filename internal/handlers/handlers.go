package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mnfst/outreach/internal/auth"
	"github.com/mnfst/outreach/internal/automation"
	"github.com/mnfst/outreach/internal/config"
	"github.com/mnfst/outreach/internal/db"
	"github.com/mnfst/outreach/internal/importer"
	"github.com/mnfst/outreach/internal/middleware"
	"github.com/mnfst/outreach/internal/repository"
)

type Handlers struct {
	cfg        *config.Config
	logger     *slog.Logger
	issuer     *auth.TokenIssuer
	engine     *importer.Engine
	automation *automation.Client

	users     *repository.UserRepository
	lists     *repository.ListRepository
	campaigns *repository.CampaignRepository
	contacts  *repository.ContactRepository
	workflows *repository.WorkflowRepository
}

func New(cfg *config.Config, database *db.DB, issuer *auth.TokenIssuer, engineClient *automation.Client, logger *slog.Logger) *Handlers {
	contacts := repository.NewContactRepository(database.DB)
	return &Handlers{
		cfg:        cfg,
		logger:     logger,
		issuer:     issuer,
		engine:     importer.NewEngine(contacts, logger),
		automation: engineClient,
		users:      repository.NewUserRepository(database.DB),
		lists:      repository.NewListRepository(database.DB),
		campaigns:  repository.NewCampaignRepository(database.DB),
		contacts:   contacts,
		workflows:  repository.NewWorkflowRepository(database.DB),
	}
}

// Lists exposes the list repository for components that share it.
func (h *Handlers) Lists() *repository.ListRepository {
	return h.lists
}

// Contacts exposes the contact repository for components that share it.
func (h *Handlers) Contacts() *repository.ContactRepository {
	return h.contacts
}

// ImportEngine exposes the batch import engine.
func (h *Handlers) ImportEngine() *importer.Engine {
	return h.engine
}

// Health check
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// ErrorResponse is the error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends an error response
func (h *Handlers) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, ErrorResponse{Error: message})
}

// identity returns the authenticated caller; requests reach the
// handlers below only through the auth middleware, so a missing
// identity is a wiring bug.
func (h *Handlers) identity(r *http.Request) auth.Identity {
	identity, _ := middleware.IdentityFromContext(r.Context())
	return identity
}
