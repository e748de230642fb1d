package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/tanimitra/procurement-service/internal/authz"
	"github.com/tanimitra/procurement-service/internal/models"
	"github.com/tanimitra/procurement-service/internal/settings"
	"github.com/tanimitra/procurement-service/internal/utils"
)

// SettingsHandler exposes the runtime settings holder. Updates are admin-only.
type SettingsHandler struct {
	Policy  authz.Policy
	Logger  *log.Logger
	Timeout time.Duration
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(policy authz.Policy, logger *log.Logger, timeout time.Duration) *SettingsHandler {
	return &SettingsHandler{
		Policy:  policy,
		Logger:  logger,
		Timeout: timeout,
	}
}

type settingsUpdateRequest struct {
	IntakePaused     *bool `json:"intakePaused,omitempty"`
	DefaultPageLimit *int  `json:"defaultPageLimit,omitempty"`
	MaxPageLimit     *int  `json:"maxPageLimit,omitempty"`
}

// Settings handles reads and admin updates of the runtime settings.
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(settings.Get()); err != nil {
			h.Logger.Println(err)
		}
	case http.MethodPut:
		h.update(w, r)
	default:
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET and PUT are allowed")
	}
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req settingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DefaultPageLimit != nil && *req.DefaultPageLimit <= 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "defaultPageLimit must be positive")
		return
	}
	if req.MaxPageLimit != nil && *req.MaxPageLimit <= 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "maxPageLimit must be positive")
		return
	}

	err := h.Policy.Evaluate(ctx, authz.Request{
		Resource: authz.ResourceSettings,
		Action:   authz.ActionEdit,
		Actor:    r.Header.Get(ActorHeader),
	})
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	updated := settings.Set(func(s *settings.Snapshot) {
		if req.IntakePaused != nil {
			s.IntakePaused = *req.IntakePaused
		}
		if req.DefaultPageLimit != nil {
			s.DefaultPageLimit = *req.DefaultPageLimit
		}
		if req.MaxPageLimit != nil {
			s.MaxPageLimit = *req.MaxPageLimit
		}
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		h.Logger.Println(err)
	}
}
