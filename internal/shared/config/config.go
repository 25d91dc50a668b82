package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Encryption    EncryptionConfig
	TLS           TLSConfig
	Identity      IdentityConfig
	Plaid         PlaidConfig
	Dwolla        DwollaConfig
	Firebase      FirebaseConfig
	Notifications NotificationsConfig
	Telemetry     TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type EncryptionConfig struct {
	Key string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

// IdentityConfig configures the hosted identity provider. When Endpoint is
// empty the server falls back to the in-process identity backend (dev mode).
type IdentityConfig struct {
	Endpoint  string
	ProjectID string
	APIKey    string
}

type PlaidConfig struct {
	BaseURL    string
	ClientID   string
	Secret     string
	ClientName string
}

type DwollaConfig struct {
	BaseURL string
	Key     string
	Secret  string
}

type FirebaseConfig struct {
	CredentialsFile string
}

type NotificationsConfig struct {
	MessagesPath string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	// Parse TLS configuration
	tlsEnabled := getBoolEnv("TLS_ENABLED", false)
	tlsCertPath := getEnv("TLS_CERT_PATH", "")
	tlsKeyPath := getEnv("TLS_KEY_PATH", "")
	tlsRedirectHTTP := getBoolEnv("TLS_REDIRECT_HTTP", false)

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "horizon"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "horizon"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		TLS: TLSConfig{
			Enabled:      tlsEnabled,
			CertPath:     tlsCertPath,
			KeyPath:      tlsKeyPath,
			RedirectHTTP: tlsRedirectHTTP,
		},
		Identity: IdentityConfig{
			Endpoint:  getEnv("IDENTITY_ENDPOINT", ""),
			ProjectID: getEnv("IDENTITY_PROJECT_ID", ""),
			APIKey:    getEnv("IDENTITY_API_KEY", ""),
		},
		Plaid: PlaidConfig{
			BaseURL:    getEnv("PLAID_BASE_URL", "https://sandbox.plaid.com"),
			ClientID:   getEnv("PLAID_CLIENT_ID", ""),
			Secret:     getEnv("PLAID_SECRET", ""),
			ClientName: getEnv("PLAID_CLIENT_NAME", "Horizon"),
		},
		Dwolla: DwollaConfig{
			BaseURL: getEnv("DWOLLA_BASE_URL", "https://api-sandbox.dwolla.com"),
			Key:     getEnv("DWOLLA_KEY", ""),
			Secret:  getEnv("DWOLLA_SECRET", ""),
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Notifications: NotificationsConfig{
			MessagesPath: getEnv("NOTIFICATION_MESSAGES_PATH", "configs/messages.json"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "horizon-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
	}

	// Validate required fields
	if cfg.Encryption.Key == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if len(cfg.Encryption.Key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}

	// The hosted identity provider needs full credentials once an endpoint is set
	if cfg.Identity.Endpoint != "" {
		if cfg.Identity.ProjectID == "" {
			return nil, fmt.Errorf("IDENTITY_PROJECT_ID is required when IDENTITY_ENDPOINT is set")
		}
		if cfg.Identity.APIKey == "" {
			return nil, fmt.Errorf("IDENTITY_API_KEY is required when IDENTITY_ENDPOINT is set")
		}
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
