package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("SCHOLARHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("SCHOLARHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "scholarhub"
	}

	dur := 24 * time.Hour
	if ttl := os.Getenv("SCHOLARHUB_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			dur = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: dur,
	}
}

type SheetConfig struct {
	SpreadsheetID string
	Range         string
	APIKey        string
}

func LoadSheetConfig() SheetConfig {
	rng := os.Getenv("SCHOLARHUB_SHEET_RANGE")
	if rng == "" {
		rng = "Scholarships!A:AZ"
	}
	return SheetConfig{
		SpreadsheetID: os.Getenv("SCHOLARHUB_SHEET_ID"),
		Range:         rng,
		APIKey:        os.Getenv("SCHOLARHUB_SHEETS_API_KEY"),
	}
}

type BootstrapConfig struct {
	Username string
	Email    string
	Password string
}

// LoadBootstrapConfig reads the first-operator credentials. All three
// must be set for bootstrap to run; otherwise the operators table is
// left alone.
func LoadBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{
		Username: os.Getenv("SCHOLARHUB_ADMIN_USER"),
		Email:    os.Getenv("SCHOLARHUB_ADMIN_EMAIL"),
		Password: os.Getenv("SCHOLARHUB_ADMIN_PASSWORD"),
	}
}
