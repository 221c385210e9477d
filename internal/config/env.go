package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort           = "8080"
	defaultRateLimit      = "60-M"
	defaultMaxUploadBytes = 20 << 20

	// local inference is slow; matches the generation client's own default
	defaultRequestTimeout = 600 * time.Second
)

// loads configuration from environment variables. nothing is required: the
// backend runs locally by default.
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - a .env file is optional
	}

	cfg := &Config{
		BackendURL:     os.Getenv("OPENKOMBAI_BACKEND_URL"),
		VisionModel:    os.Getenv("OPENKOMBAI_VISION_MODEL"),
		CodeModel:      os.Getenv("OPENKOMBAI_CODE_MODEL"),
		RequestTimeout: defaultRequestTimeout,
		Environment:    os.Getenv("ENVIRONMENT"),
		Port:           os.Getenv("PORT"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		RateLimit:      os.Getenv("OPENKOMBAI_RATE_LIMIT"),
		MaxUploadBytes: defaultMaxUploadBytes,
		RedisURL:       os.Getenv("OPENKOMBAI_REDIS_URL"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.RateLimit == "" {
		cfg.RateLimit = defaultRateLimit
	}

	if raw := os.Getenv("OPENKOMBAI_REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("OPENKOMBAI_REQUEST_TIMEOUT must be a positive duration, got %q", raw)
		}

		cfg.RequestTimeout = d
	}

	if raw := os.Getenv("OPENKOMBAI_MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("OPENKOMBAI_MAX_UPLOAD_BYTES must be a positive integer, got %q", raw)
		}

		cfg.MaxUploadBytes = n
	}

	return cfg, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
