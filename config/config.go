package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration parameters.
type Config struct {
	DatabaseURL string
	ServerPort  int

	// Public base URL of this API, used to build the MercadoPago
	// notification (webhook) URL.
	PublicBaseURL string
	// Frontend base URL, used for checkout back_urls.
	FrontBaseURL string
	// Frontend route segment for the match detail page (no slashes).
	FrontMatchRoute string

	MercadoPagoAccessToken string
	MercadoPagoBaseURL     string

	// IANA timezone used for enrollment cut-offs and date labels.
	TimeZone string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from the environment. A .env file is loaded
// first if present (local development); a missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	mpToken := os.Getenv("MERCADOPAGO_ACCESS_TOKEN")
	if mpToken == "" {
		return nil, fmt.Errorf("MERCADOPAGO_ACCESS_TOKEN environment variable is not set")
	}

	mpBaseURL := os.Getenv("MERCADOPAGO_BASE_URL")
	if mpBaseURL == "" {
		mpBaseURL = "https://api.mercadopago.com"
	}

	tz := os.Getenv("TIME_ZONE")
	if tz == "" {
		tz = "America/Lima"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", tz, err)
	}

	frontRoute := os.Getenv("FRONT_MATCH_ROUTE")
	if frontRoute == "" {
		frontRoute = "partido"
	}

	cfg := &Config{
		DatabaseURL:            dbURL,
		ServerPort:             port,
		PublicBaseURL:          os.Getenv("PUBLIC_BASE_URL"),
		FrontBaseURL:           os.Getenv("FRONT_BASE_URL"),
		FrontMatchRoute:        frontRoute,
		MercadoPagoAccessToken: mpToken,
		MercadoPagoBaseURL:     mpBaseURL,
		TimeZone:               tz,
		R2AccountID:            os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:          os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:      os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:           os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:        os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}
