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

// EligibilityHandler - structure for handling delivery-eligibility HTTP
// requests from the distribution subsystem.
type EligibilityHandler struct {
	Service *services.EligibilityService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewEligibilityHandler creates a new EligibilityHandler instance.
func NewEligibilityHandler(service *services.EligibilityService, logger *log.Logger, timeout time.Duration) *EligibilityHandler {
	return &EligibilityHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetEligibility handles requests for the shipment eligibility of one
// assignment.
func (h *EligibilityHandler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	eligibility, err := h.Service.IsEligible(ctx, r.PathValue("assignmentId"))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to compute eligibility")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(eligibility); err != nil {
		h.Logger.Println(err)
	}
}

// GetEligibleAssignments handles requests for the list of assignments ready
// for delivery-document issuance.
func (h *EligibilityHandler) GetEligibleAssignments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	eligible, err := h.Service.ListEligibleAssignments(ctx, r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch eligible assignments")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(eligible); err != nil {
		h.Logger.Println(err)
	}
}
