package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vidyutmitra/internal/audit"
	"vidyutmitra/internal/auth"
	profile "vidyutmitra/internal/profile/domain"
)

// ProfileStore reads and writes user profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
	Put(ctx context.Context, userID string, p profile.Profile) error
}

// Handler serves the authenticated user's profile document.
type Handler struct {
	store  ProfileStore
	audit  audit.Logger
	logger *log.Logger
}

// NewHandler constructs a profile handler.
func NewHandler(store ProfileStore, auditLogger audit.Logger, logger *log.Logger) (*Handler, error) {
	if store == nil {
		return nil, errors.New("profile handler: nil store")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{store: store, audit: auditLogger, logger: logger}, nil
}

// ServeHTTP handles GET and PUT /api/v1/profile.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, userID)
	case http.MethodPut:
		h.put(w, r, userID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, userID string) {
	p, err := h.store.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		h.logger.Printf("profile get error: %v", err)
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request, userID string) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.Put(r.Context(), userID, p); err != nil {
		h.logger.Printf("profile put error: %v", err)
		http.Error(w, "failed to save profile", http.StatusInternalServerError)
		return
	}

	if h.audit != nil {
		meta, _ := json.Marshal(map[string]any{"provider": p.ElectricityProvider})
		if err := h.audit.Log(r.Context(), audit.Entry{
			Actor:        userID,
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       "profile.update",
			ResourceType: "user_profile",
			ResourceID:   userID,
			Metadata:     meta,
		}); err != nil {
			h.logger.Printf("profile put: audit error: %v", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
