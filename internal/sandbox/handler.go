// Package sandbox is a local stand-in for the message template API. It
// validates submitted documents the way the real endpoint does at the
// structural level and answers with Graph-style bodies.
package sandbox

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/template-submitter/internal/domains/templates"
	"github.com/sangkips/template-submitter/internal/handlers"
)

const (
	codeInvalidParameter = 100
	codeInvalidToken     = 190
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// NewRouter returns the sandbox routes mounted on a fresh chi router.
func NewRouter(store *Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	h := NewHandler(store)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/{version}/{accountID}/message_templates", h.createTemplate)
	r.Get("/{version}/{accountID}/message_templates", h.listTemplates)
	r.Get("/health", h.Health)
}

// CreateTemplateResponse matches the API's answer to a template submission.
type CreateTemplateResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Category string `json:"category"`
}

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		handlers.RespondWithError(w, http.StatusUnauthorized, "OAuthException", codeInvalidToken, "Invalid OAuth access token.")
		return
	}

	var doc templates.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		handlers.RespondWithError(w, http.StatusBadRequest, "OAuthException", codeInvalidParameter, "Invalid request body: "+err.Error())
		return
	}

	if err := validateDocument(doc); err != nil {
		handlers.RespondWithError(w, http.StatusBadRequest, "OAuthException", codeInvalidParameter, err.Error())
		return
	}

	sub := Submission{
		ID:         uuid.New().String(),
		Version:    chi.URLParam(r, "version"),
		AccountID:  chi.URLParam(r, "accountID"),
		Document:   doc,
		ReceivedAt: time.Now(),
	}
	h.store.Add(sub)

	log.Info().Str("name", doc.Name).Str("id", sub.ID).Str("account_id", sub.AccountID).Msg("template received")

	handlers.RespondWithJSON(w, http.StatusOK, CreateTemplateResponse{
		ID:       sub.ID,
		Status:   "PENDING",
		Category: doc.Category,
	})
}

type templateSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	data := []templateSummary{}
	for _, sub := range h.store.List() {
		if sub.AccountID != accountID {
			continue
		}
		data = append(data, templateSummary{
			ID:       sub.ID,
			Name:     sub.Document.Name,
			Language: sub.Document.Language,
			Category: sub.Document.Category,
			Status:   "PENDING",
		})
	}

	handlers.RespondWithJSON(w, http.StatusOK, map[string]any{"data": data})
}

func validateDocument(doc templates.Document) error {
	if doc.Name == "" {
		return fmt.Errorf("Param name must be non-empty")
	}
	if doc.Language == "" {
		return fmt.Errorf("Param language must be non-empty")
	}
	if doc.Category == "" {
		return fmt.Errorf("Param category must be non-empty")
	}

	bodies := 0
	for i, c := range doc.Components {
		if c.Type == templates.ComponentBody {
			bodies++
			if i != 0 {
				return fmt.Errorf("BODY component must come first")
			}
		}
		if c.Text == "" {
			return fmt.Errorf("Param components[%d][text] must be non-empty", i)
		}
	}
	if bodies != 1 {
		return fmt.Errorf("template must have exactly one BODY component, got %d", bodies)
	}
	return nil
}
