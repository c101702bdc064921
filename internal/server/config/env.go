package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config with values from environment variables.
// Unset or malformed variables leave the current value untouched.
func parseEnv(cfg *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		cfg.EndpointAddr = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.AppEnv = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("ACCESS_TOKEN_SECRET"); v != "" {
		cfg.AccessTokenSecret = v
	}
	if v := os.Getenv("REFRESH_TOKEN_SECRET"); v != "" {
		cfg.RefreshTokenSecret = v
	}
	if d, ok := getEnvDuration("ACCESS_TOKEN_TTL"); ok {
		cfg.AccessTokenValidityDuration = d
	}
	if d, ok := getEnvDuration("REFRESH_TOKEN_TTL"); ok {
		cfg.RefreshTokenValidityDuration = d
	}
	if v := os.Getenv("TOKEN_ISSUER"); v != "" {
		cfg.TokenIssuer = v
	}
	if v := os.Getenv("TOKEN_AUDIENCE"); v != "" {
		cfg.TokenAudience = v
	}
	if v := os.Getenv("S3_ROOT_USER"); v != "" {
		cfg.S3RootUser = v
	}
	if v := os.Getenv("S3_ROOT_PASSWORD"); v != "" {
		cfg.S3RootPassword = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.S3Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		cfg.S3Region = v
	}
	if v := os.Getenv("S3_BASE_ENDPOINT"); v != "" {
		cfg.S3BaseEndpoint = v
	}
	if v := os.Getenv("TRANSCRIBER_BASE_URL"); v != "" {
		cfg.TranscriberBaseURL = v
	}
	if v := os.Getenv("TRANSCRIBER_API_KEY"); v != "" {
		cfg.TranscriberAPIKey = v
	}
	if n, ok := getEnvInt("RATE_LIMIT_ATTEMPTS"); ok && n > 0 {
		cfg.RateLimitAttempts = n
	}
	if d, ok := getEnvDuration("RATE_LIMIT_WINDOW"); ok {
		cfg.RateLimitWindow = d
	}
	if n, ok := getEnvInt64("MAX_UPLOAD_BYTES"); ok && n > 0 {
		cfg.MaxUploadBytes = n
	}
}

func getEnvInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getEnvInt64(key string) (int64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getEnvDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
