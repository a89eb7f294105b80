package config_test

import (
	"testing"

	"github.com/amirasaad/bankledger/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("testdata/missing.env")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, 3, cfg.Ledger.MaxConflictRetries)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BANKLEDGER_DB_URL", "postgres://localhost:5432/ledger")
	t.Setenv("BANKLEDGER_HTTP_ADDR", ":8080")
	t.Setenv("BANKLEDGER_LEDGER_MAX_CONFLICT_RETRIES", "5")

	cfg, err := config.Load("testdata/missing.env")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/ledger", cfg.DB.Url)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5, cfg.Ledger.MaxConflictRetries)
}
