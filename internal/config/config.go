package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv    string
	Port       string
	Database   DatabaseConfig
	Shopify    ShopifyConfig
	ANAF       ANAFConfig
	Oblio      OblioConfig
	Sameday    SamedayConfig
	Sender     SenderConfig
	Validation ValidationConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// ShopifyConfig holds storefront app credentials. The API secret signs
// session tokens and webhooks.
type ShopifyConfig struct {
	APIKey        string
	APISecret     string
	WebhookSecret string
	ShopDomain    string
}

// ANAFConfig holds company-registry lookup settings
type ANAFConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
	RPS            float64
}

// OblioConfig holds invoicing provider credentials
type OblioConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	CompanyCIF   string
	SeriesName   string
}

// SamedayConfig holds carrier API credentials
type SamedayConfig struct {
	BaseURL        string
	Username       string
	Password       string
	PickupPointID  string
	ServiceID      string
	TimeoutSeconds int
}

// SenderConfig is the warehouse address stamped on every AWB
type SenderConfig struct {
	Name     string
	Phone    string
	Email    string
	Address  string
	City     string
	County   string
	PostCode string
}

// ValidationConfig tunes the CIF validation workflow
type ValidationConfig struct {
	SettleMS         int
	IncludeInactive  bool
	CacheTTLMinutes  int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	shopifySecret := os.Getenv("SHOPIFY_API_SECRET")
	if shopifySecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_SECRET is required")
	}

	return &Config{
		NodeEnv: getEnv("NODE_ENV", "development"),
		Port:    getEnv("PORT", "3001"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "primesupplements"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Shopify: ShopifyConfig{
			APIKey:        os.Getenv("SHOPIFY_API_KEY"),
			APISecret:     shopifySecret,
			WebhookSecret: getEnv("SHOPIFY_WEBHOOK_SECRET", shopifySecret),
			ShopDomain:    os.Getenv("SHOPIFY_SHOP_DOMAIN"),
		},
		ANAF: ANAFConfig{
			BaseURL:        getEnv("ANAF_BASE_URL", "https://api.openapi.ro/v1"),
			APIKey:         os.Getenv("ANAF_API_KEY"),
			TimeoutSeconds: getEnvInt("ANAF_TIMEOUT_SECONDS", 10),
			RPS:            getEnvFloat("ANAF_RPS", 1),
		},
		Oblio: OblioConfig{
			BaseURL:      getEnv("OBLIO_BASE_URL", "https://www.oblio.eu/api"),
			ClientID:     os.Getenv("OBLIO_CLIENT_ID"),
			ClientSecret: os.Getenv("OBLIO_CLIENT_SECRET"),
			CompanyCIF:   os.Getenv("OBLIO_COMPANY_CIF"),
			SeriesName:   getEnv("OBLIO_SERIES_NAME", "FCT"),
		},
		Sameday: SamedayConfig{
			BaseURL:        getEnv("SAMEDAY_BASE_URL", "https://api.sameday.ro"),
			Username:       os.Getenv("SAMEDAY_USERNAME"),
			Password:       os.Getenv("SAMEDAY_PASSWORD"),
			PickupPointID:  os.Getenv("SAMEDAY_PICKUP_POINT_ID"),
			ServiceID:      getEnv("SAMEDAY_SERVICE_ID", "7"),
			TimeoutSeconds: getEnvInt("SAMEDAY_TIMEOUT_SECONDS", 30),
		},
		Sender: SenderConfig{
			Name:     getEnv("SENDER_NAME", "Prime Supplements SRL"),
			Phone:    os.Getenv("SENDER_PHONE"),
			Email:    os.Getenv("SENDER_EMAIL"),
			Address:  os.Getenv("SENDER_ADDRESS"),
			City:     getEnv("SENDER_CITY", "Bucuresti"),
			County:   getEnv("SENDER_COUNTY", "Bucuresti"),
			PostCode: os.Getenv("SENDER_POSTCODE"),
		},
		Validation: ValidationConfig{
			SettleMS:        getEnvInt("VALIDATION_SETTLE_MS", 500),
			IncludeInactive: getEnv("VALIDATION_INCLUDE_INACTIVE", "true") == "true",
			CacheTTLMinutes: getEnvInt("VALIDATION_CACHE_TTL_MINUTES", 1440),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
