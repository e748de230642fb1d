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

// ActorHeader carries the pre-authenticated actor identity. Session handling
// lives in the platform gateway; the service still evaluates role capability.
const ActorHeader = "X-Actor"

// AssignmentHandler - structure for handling assignment HTTP requests.
type AssignmentHandler struct {
	Service *services.AssignmentService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewAssignmentHandler creates a new AssignmentHandler instance.
func NewAssignmentHandler(service *services.AssignmentService, logger *log.Logger, timeout time.Duration) *AssignmentHandler {
	return &AssignmentHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetAssignments handles requests for listing assignments.
func (h *AssignmentHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	filter := models.AssignmentFilter{
		Statuses: r.URL.Query()["status"],
		VisitID:  r.URL.Query().Get("visit_id"),
	}

	assignments, err := h.Service.ListAssignments(ctx, r.URL.Query().Get("limit"), r.URL.Query().Get("offset"), filter)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch assignments")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(assignments); err != nil {
		h.Logger.Println(err)
	}
}

// CreateAssignment handles requests for creating an assignment from a visit.
func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var assignmentReq models.AssignmentRequest
	err := json.NewDecoder(r.Body).Decode(&assignmentReq)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assignment, err := h.Service.CreateAssignment(ctx, assignmentReq, r.Header.Get(ActorHeader))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(assignment); err != nil {
		h.Logger.Println(err)
	}
}

// GetAssignment handles requests for a single assignment with its line items.
func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	assignment, err := h.Service.GetAssignment(ctx, r.PathValue("assignmentId"))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch assignment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(assignment); err != nil {
		h.Logger.Println(err)
	}
}

// GetAssignmentStatus handles requests for the status of an assignment.
func (h *AssignmentHandler) GetAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	status, err := h.Service.GetAssignmentStatus(ctx, r.PathValue("assignmentId"))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to fetch assignment status")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(status); err != nil {
		h.Logger.Println(err)
	}
}

// ReplaceLineItems handles whole-set replacement of requested line items.
func (h *AssignmentHandler) ReplaceLineItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var items []models.LineItem
	err := json.NewDecoder(r.Body).Decode(&items)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assignment, err := h.Service.ReplaceLineItems(ctx, r.PathValue("assignmentId"), items, r.Header.Get(ActorHeader))
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to replace line items")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err = json.NewEncoder(w).Encode(assignment); err != nil {
		h.Logger.Println(err)
	}
}
