package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"rats-server/engine"
	"rats-server/models"
)

const (
	usage         = "Usage: ./ratsserver maxconns message [portnum]"
	maxNumberSize = 5
)

var ErrUsage = errors.New("invalid arguments")

type Config struct {
	MaxConns int
	Message  string
	Port     string
	DealMode models.DealMode
	LogLevel string

	// Admin API; disabled when AdminAddr is empty.
	AdminAddr      string
	AdminRPS       float64
	AdminBurst     int
	AllowedOrigins []string

	History bool
}

// LoadConfig reads .env and the RATS_* environment, then applies the
// positional arguments "maxconns message [portnum]" on top. Arguments may
// be omitted only when RATS_MESSAGE is set.
func LoadConfig(args []string) (Config, error) {
	godotenv.Load()

	cfg := Config{
		Port:           getEnv("RATS_PORT", "0"),
		Message:        getEnv("RATS_MESSAGE", ""),
		DealMode:       models.DealMode(getEnv("RATS_DEAL_MODE", string(models.DealShared))),
		LogLevel:       getEnv("RATS_LOG_LEVEL", "warn"),
		AdminAddr:      getEnv("RATS_ADMIN_ADDR", ""),
		AllowedOrigins: splitList(getEnv("RATS_ALLOWED_ORIGINS", "")),
		History:        getEnv("RATS_HISTORY", "true") == "true",
	}
	if !cfg.DealMode.Valid() {
		return cfg, fmt.Errorf("%w: RATS_DEAL_MODE %q", ErrUsage, cfg.DealMode)
	}

	var err error
	if cfg.AdminRPS, err = strconv.ParseFloat(getEnv("RATS_ADMIN_RPS", "10"), 64); err != nil {
		return cfg, fmt.Errorf("%w: RATS_ADMIN_RPS: %v", ErrUsage, err)
	}
	if cfg.AdminBurst, err = strconv.Atoi(getEnv("RATS_ADMIN_BURST", "20")); err != nil {
		return cfg, fmt.Errorf("%w: RATS_ADMIN_BURST: %v", ErrUsage, err)
	}

	maxConns := getEnv("RATS_MAX_CONNS", "0")
	switch {
	case len(args) == 0 && cfg.Message != "":
	case len(args) == 2 || len(args) == 3:
		for _, arg := range args {
			if arg == "" {
				return cfg, fmt.Errorf("%w: empty argument", ErrUsage)
			}
		}
		maxConns = args[0]
		cfg.Message = args[1]
		if len(args) == 3 {
			cfg.Port = args[2]
		}
	default:
		return cfg, fmt.Errorf("%w: expected 2 or 3 arguments, got %d", ErrUsage, len(args))
	}

	if cfg.MaxConns, err = parseMaxConns(maxConns); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parseMaxConns accepts up to five digits with an optional leading '+'.
// 0 selects the default limit.
func parseMaxConns(s string) (int, error) {
	if !isNumber(s) {
		return 0, fmt.Errorf("%w: maxconns %q", ErrUsage, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > engine.DefaultMaxConnections {
		return 0, fmt.Errorf("%w: maxconns %q out of range", ErrUsage, s)
	}
	return n, nil
}

func isNumber(s string) bool {
	if len(s) == 0 || len(s) > maxNumberSize {
		return false
	}
	for i, r := range s {
		if i == 0 && r == '+' {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != "+"
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
