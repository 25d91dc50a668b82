package main

import (
	"context"
	"log"

	"horizon/internal/domain/dashboard"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/notification"
	"horizon/internal/domain/session"
	"horizon/internal/infrastructure/appwrite"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/dwolla"
	"horizon/internal/infrastructure/firebase"
	"horizon/internal/infrastructure/local"
	"horizon/internal/infrastructure/plaid"
	"horizon/internal/infrastructure/postgres"
	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/config"
	"horizon/internal/shared/messages"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler         *httphandlers.AuthHandler
	UserHandler         *httphandlers.UserHandler
	LinkHandler         *httphandlers.LinkHandler
	DashboardHandler    *httphandlers.DashboardHandler
	NotificationHandler *httphandlers.NotificationHandler

	// SessionService backs the auth middleware
	SessionService *session.Service
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Crypto: encryptor for access tokens at rest, codec for sharable ids
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}
	codec, err := crypto.NewIDCodec(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	bankRepo := postgres.NewBankAccountRepository(db, encryptor)
	deviceRepo := postgres.NewDeviceRepository(db)

	// Identity provider: hosted when configured, in-process otherwise
	var identity appwrite.Gateway
	if cfg.Identity.Endpoint != "" {
		identity = appwrite.NewClient(cfg.Identity.Endpoint, cfg.Identity.ProjectID, cfg.Identity.APIKey)
	} else {
		log.Println("IDENTITY_ENDPOINT not set, using in-process identity backend")
		identity = local.NewIdentity()
	}

	// Provider clients
	plaidClient := plaid.NewClient(cfg.Plaid.BaseURL, cfg.Plaid.ClientID, cfg.Plaid.Secret)
	dwollaClient := dwolla.NewClient(cfg.Dwolla.BaseURL, cfg.Dwolla.Key, cfg.Dwolla.Secret)

	// Push messenger is optional: without Firebase credentials the linking
	// flow simply skips the notify step.
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcmClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, deviceRepo.DeactivateToken)
		if err != nil {
			log.Printf("Warning: Failed to initialize Firebase client: %v", err)
		} else {
			messenger = fcmClient
			log.Println("Push notifications enabled")
		}
	}

	texts, err := messages.Load(cfg.Notifications.MessagesPath)
	if err != nil {
		return nil, err
	}

	// Domain services
	sessionService := session.NewService(identity, userRepo, dwollaClient)
	dashboardService := dashboard.NewService(plaidClient, bankRepo)
	linkingService := linking.NewService(plaidClient, dwollaClient, codec, bankRepo, dashboardService, cfg.Plaid.ClientName)
	notificationService := notification.NewService(deviceRepo, messenger, texts)
	linkingService.SetNotifier(notificationService)

	return &Dependencies{
		DB:                  db,
		AuthHandler:         httphandlers.NewAuthHandler(sessionService),
		UserHandler:         httphandlers.NewUserHandler(),
		LinkHandler:         httphandlers.NewLinkHandler(linkingService),
		DashboardHandler:    httphandlers.NewDashboardHandler(dashboardService),
		NotificationHandler: httphandlers.NewNotificationHandler(notificationService),
		SessionService:      sessionService,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
