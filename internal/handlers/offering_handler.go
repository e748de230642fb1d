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

// OfferingHandler - structure for handling offering HTTP requests.
type OfferingHandler struct {
	Service *services.OfferingService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewOfferingHandler creates a new OfferingHandler instance.
func NewOfferingHandler(service *services.OfferingService, logger *log.Logger, timeout time.Duration) *OfferingHandler {
	return &OfferingHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateOffering handles requests for submitting a partner offering.
func (h *OfferingHandler) CreateOffering(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var offeringReq models.OfferingRequest
	err := json.NewDecoder(r.Body).Decode(&offeringReq)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	offering, err := h.Service.SubmitOffering(ctx, offeringReq, r.Header.Get(ActorHeader))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to submit offering")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(offering); err != nil {
		h.Logger.Println(err)
	}
}

// GetAssignmentOfferings handles requests for listing the offerings of an
// assignment in submission order.
func (h *OfferingHandler) GetAssignmentOfferings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	offerings, err := h.Service.ListForAssignment(ctx, r.PathValue("assignmentId"), r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch offerings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(offerings); err != nil {
		h.Logger.Println(err)
	}
}

// GetPartnerOfferings handles requests for listing a partner's own offerings.
func (h *OfferingHandler) GetPartnerOfferings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	offerings, err := h.Service.ListForPartner(ctx, r.URL.Query().Get("partner_id"), r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch offerings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(offerings); err != nil {
		h.Logger.Println(err)
	}
}
