package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled reports whether archiving to R2 is configured.
func (c R2Config) Enabled() bool {
	return c.AccountID != ""
}

type Config struct {
	ServerPort            int
	DatabaseURL           string
	JWTSecretKey          string
	OrganizerPasswordHash string
	CORSAllowedOrigins    []string
	R2                    R2Config
}

// AuthEnabled reports whether mutating routes require an organizer token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecretKey != ""
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	portStr := getenv("SERVER_PORT")
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

	cfg := &Config{
		ServerPort:            port,
		DatabaseURL:           getenv("DATABASE_URL"),
		JWTSecretKey:          getenv("JWT_SECRET_KEY"),
		OrganizerPasswordHash: getenv("ORGANIZER_PASSWORD_HASH"),
		CORSAllowedOrigins:    splitList(getenv("CORS_ALLOWED_ORIGINS")),
		R2: R2Config{
			AccountID:       getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
		},
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if (cfg.JWTSecretKey == "") != (cfg.OrganizerPasswordHash == "") {
		return nil, errors.New("JWT_SECRET_KEY and ORGANIZER_PASSWORD_HASH must be set together")
	}

	r2 := cfg.R2
	set := 0
	for _, v := range []string{r2.AccountID, r2.AccessKeyID, r2.SecretAccessKey, r2.BucketName} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 4 {
		return nil, errors.New("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME must be set together")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
