package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/user"
	"horizon/internal/shared/middleware"
)

// LinkService is the slice of the linking workflow the endpoints use.
type LinkService interface {
	CreateLinkToken(ctx context.Context, usr *user.User) (string, error)
	LinkAccount(ctx context.Context, usr *user.User, publicToken string) (*bankaccount.BankAccount, error)
}

type LinkHandler struct {
	links LinkService
}

func NewLinkHandler(links LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

type LinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type ExchangeRequest struct {
	PublicToken string `json:"publicToken"`
}

type ExchangeResponse struct {
	PublicTokenExchange string `json:"publicTokenExchange"`
}

// HandleCreateLinkToken issues a short-lived token the client uses to start
// the institution-selection flow.
func (h *LinkHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	usr, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := h.links.CreateLinkToken(r.Context(), usr)
	if err != nil {
		log.Printf("Error creating link token for user %s: %v", usr.ID, err)
		http.Error(w, "Failed to create link token", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LinkTokenResponse{LinkToken: token})
}

// HandleExchange runs the full linking chain for the public token in the
// request body.
func (h *LinkHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	usr, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.links.LinkAccount(r.Context(), usr, req.PublicToken); err != nil {
		writeLinkError(w, usr.ID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ExchangeResponse{PublicTokenExchange: "complete"})
}

// writeLinkError maps each linking step's failure to a status the client can
// act on.
func writeLinkError(w http.ResponseWriter, userID string, err error) {
	log.Printf("Error linking account for user %s: %v", userID, err)

	switch {
	case errors.Is(err, linking.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, linking.ErrNoAccountsFound):
		http.Error(w, "The linked institution reported no accounts", http.StatusUnprocessableEntity)
	case errors.Is(err, bankaccount.ErrAlreadyLinked):
		http.Error(w, "This account is already linked", http.StatusConflict)
	case errors.Is(err, linking.ErrPersistence):
		http.Error(w, "Failed to save the linked account", http.StatusInternalServerError)
	case errors.Is(err, linking.ErrAggregatorExchange),
		errors.Is(err, linking.ErrProcessorToken),
		errors.Is(err, linking.ErrFundingSource),
		errors.Is(err, linking.ErrUpstream):
		http.Error(w, "An upstream provider failed", http.StatusBadGateway)
	default:
		http.Error(w, "Failed to link account", http.StatusInternalServerError)
	}
}
