package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/dashboard"
	"horizon/internal/shared/middleware"
)

// DashboardService is the slice of the dashboard the endpoints use.
type DashboardService interface {
	Overview(ctx context.Context, userID string) (*dashboard.Overview, error)
	Account(ctx context.Context, userID, bankRecordID string) (*dashboard.AccountDetail, error)
}

type DashboardHandler struct {
	dash DashboardService
}

func NewDashboardHandler(dash DashboardService) *DashboardHandler {
	return &DashboardHandler{dash: dash}
}

// HandleOverview returns every linked account plus balance totals for the
// session's user.
func (h *DashboardHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	usr, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	overview, err := h.dash.Overview(r.Context(), usr.ID)
	if err != nil {
		log.Printf("Error building overview for user %s: %v", usr.ID, err)
		http.Error(w, "Failed to load accounts", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overview)
}

// HandleBankByID returns one linked bank's live account data and recent
// transactions.
func (h *DashboardHandler) HandleBankByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	usr, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bankRecordID := r.PathValue("id")
	if bankRecordID == "" {
		http.Error(w, "Bank ID is required", http.StatusBadRequest)
		return
	}

	detail, err := h.dash.Account(r.Context(), usr.ID, bankRecordID)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrBankNotFound):
			http.Error(w, "Bank not found", http.StatusNotFound)
		case errors.Is(err, dashboard.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("Error loading bank %s for user %s: %v", bankRecordID, usr.ID, err)
			http.Error(w, "Failed to load bank", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}
