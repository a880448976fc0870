package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rats-server/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RATS_MAX_CONNS", "RATS_MESSAGE", "RATS_PORT", "RATS_DEAL_MODE", "RATS_LOG_LEVEL",
		"RATS_ADMIN_ADDR", "RATS_ADMIN_RPS", "RATS_ADMIN_BURST", "RATS_ALLOWED_ORIGINS", "RATS_HISTORY",
	} {
		t.Setenv(key, "")
	}
}

func TestIsNumber(t *testing.T) {
	tests := map[string]bool{
		"0":      true,
		"10000":  true,
		"+5":     true,
		"":       false,
		"+":      false,
		"-1":     false,
		"12a":    false,
		"123456": false,
		"1 2":    false,
	}
	for input, want := range tests {
		assert.Equal(t, want, isNumber(input), "isNumber(%q)", input)
	}
}

func TestParseMaxConns(t *testing.T) {
	n, err := parseMaxConns("+25")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	n, err = parseMaxConns("0")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = parseMaxConns("10001")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = parseMaxConns("ten")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestLoadConfig_PositionalArguments(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig([]string{"4", "Welcome to rats", "4321"})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxConns)
	assert.Equal(t, "Welcome to rats", cfg.Message)
	assert.Equal(t, "4321", cfg.Port)
	assert.Equal(t, models.DealShared, cfg.DealMode)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.History)
	assert.Empty(t, cfg.AdminAddr)
	assert.Equal(t, 10.0, cfg.AdminRPS)
	assert.Equal(t, 20, cfg.AdminBurst)

	cfg, err = LoadConfig([]string{"0", "hi"})
	require.NoError(t, err)
	assert.Equal(t, "0", cfg.Port)
}

func TestLoadConfig_RejectsBadArguments(t *testing.T) {
	clearEnv(t)

	cases := [][]string{
		nil,
		{"4"},
		{"4", "hi", "1", "extra"},
		{"", "hi"},
		{"4", ""},
		{"4", "hi", ""},
		{"x", "hi"},
		{"99999", "hi"},
	}
	for _, args := range cases {
		_, err := LoadConfig(args)
		assert.ErrorIs(t, err, ErrUsage, "args %q", args)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATS_MAX_CONNS", "12")
	t.Setenv("RATS_MESSAGE", "from env")
	t.Setenv("RATS_PORT", "5000")
	t.Setenv("RATS_DEAL_MODE", "per-seat")
	t.Setenv("RATS_ADMIN_ADDR", ":8080")
	t.Setenv("RATS_ALLOWED_ORIGINS", "http://a, http://b,")
	t.Setenv("RATS_HISTORY", "false")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.MaxConns)
	assert.Equal(t, "from env", cfg.Message)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, models.DealPerSeat, cfg.DealMode)
	assert.Equal(t, ":8080", cfg.AdminAddr)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.AllowedOrigins)
	assert.False(t, cfg.History)

	// Arguments win over the environment.
	cfg, err = LoadConfig([]string{"3", "from args"})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxConns)
	assert.Equal(t, "from args", cfg.Message)
	assert.Equal(t, "5000", cfg.Port)
}

func TestLoadConfig_RejectsBadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATS_DEAL_MODE", "random")
	_, err := LoadConfig([]string{"1", "hi"})
	assert.ErrorIs(t, err, ErrUsage)

	clearEnv(t)
	t.Setenv("RATS_ADMIN_BURST", "lots")
	_, err = LoadConfig([]string{"1", "hi"})
	assert.ErrorIs(t, err, ErrUsage)
}
