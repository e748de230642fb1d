package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/tanimitra/procurement-service/internal/models"
	"github.com/tanimitra/procurement-service/internal/services"
	"github.com/tanimitra/procurement-service/internal/utils"
)

// ApprovalHandler - structure for handling winner-selection HTTP requests.
type ApprovalHandler struct {
	Service *services.ApprovalService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewApprovalHandler creates a new ApprovalHandler instance.
func NewApprovalHandler(service *services.ApprovalService, logger *log.Logger, timeout time.Duration) *ApprovalHandler {
	return &ApprovalHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateApproval handles requests for selecting the winning offering.
func (h *ApprovalHandler) CreateApproval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var approvalReq models.ApprovalRequest
	err := json.NewDecoder(r.Body).Decode(&approvalReq)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	approval, err := h.Service.SubmitApproval(ctx, approvalReq, r.Header.Get(ActorHeader))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to submit approval")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(approval); err != nil {
		h.Logger.Println(err)
	}
}

// GetApproval handles requests for the approval of an assignment.
func (h *ApprovalHandler) GetApproval(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	approval, err := h.Service.GetApproval(ctx, r.PathValue("assignmentId"))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch approval")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(approval); err != nil {
		h.Logger.Println(err)
	}
}
