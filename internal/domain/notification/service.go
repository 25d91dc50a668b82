package notification

import (
	"context"
	"log"

	"horizon/internal/shared/messages"
)

// Service contains the business logic for push notifications
type Service struct {
	repo      Repository
	messenger Messenger
	texts     *messages.Messages
}

// NewService creates a new notification service. messenger may be nil when
// push is not configured; sends become no-ops.
func NewService(repo Repository, messenger Messenger, texts *messages.Messages) *Service {
	return &Service{repo: repo, messenger: messenger, texts: texts}
}

// RegisterDevice registers a device token for the authenticated user.
// If the token already belongs to another user, it is reassigned.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpsertDeviceToken(ctx, params)
}

// NotifyBankLinked pushes a "bank linked" notification to all of the user's
// active devices. Best-effort: failures are logged, never surfaced, so a
// completed linking workflow is not failed over a push hiccup.
func (s *Service) NotifyBankLinked(ctx context.Context, userID, bankName string) {
	if s.messenger == nil {
		return
	}

	tokens, err := s.repo.GetActiveTokensByUserID(ctx, userID)
	if err != nil {
		log.Printf("Failed to load device tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	text := s.texts.BankLinked
	data := map[string]string{"bankName": bankName}
	if err := s.messenger.SendMulticast(ctx, tokens, text.Title, text.Body, data); err != nil {
		log.Printf("Failed to push bank-linked notification for user %s: %v", userID, err)
	}
}
