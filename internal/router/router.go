package router

import (
	"net/http"

	"github.com/tanimitra/procurement-service/internal/handlers"
)

func InitRoutes(
	assignmentHandler *handlers.AssignmentHandler,
	offeringHandler *handlers.OfferingHandler,
	approvalHandler *handlers.ApprovalHandler,
	eligibilityHandler *handlers.EligibilityHandler,
	settingsHandler *handlers.SettingsHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("/api/assignments", assignmentHandler.GetAssignments)
	mux.HandleFunc("/api/assignments/new", assignmentHandler.CreateAssignment)
	mux.HandleFunc("GET /api/assignments/eligible", eligibilityHandler.GetEligibleAssignments)
	mux.HandleFunc("GET /api/assignments/{assignmentId}", assignmentHandler.GetAssignment)
	mux.HandleFunc("GET /api/assignments/{assignmentId}/status", assignmentHandler.GetAssignmentStatus)
	mux.HandleFunc("PUT /api/assignments/{assignmentId}/items", assignmentHandler.ReplaceLineItems)
	mux.HandleFunc("GET /api/assignments/{assignmentId}/eligibility", eligibilityHandler.GetEligibility)

	mux.HandleFunc("/api/offerings/new", offeringHandler.CreateOffering)
	mux.HandleFunc("/api/offerings/my", offeringHandler.GetPartnerOfferings)
	mux.HandleFunc("/api/offerings/{assignmentId}/list", offeringHandler.GetAssignmentOfferings)

	mux.HandleFunc("/api/approvals/new", approvalHandler.CreateApproval)
	mux.HandleFunc("GET /api/approvals/{assignmentId}", approvalHandler.GetApproval)

	mux.HandleFunc("/api/settings", settingsHandler.Settings)

	return mux
}
