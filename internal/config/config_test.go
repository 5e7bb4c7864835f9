package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_SSLMODE",
		"JWT_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_FromPostgresVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "orders")
	t.Setenv("JWT_SECRET", "jwt-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "app", cfg.PostgresUser)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, "disable", cfg.PostgresSSLMode)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_DatabaseURLSkipsPostgresVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/orders")
	t.Setenv("JWT_SECRET", "jwt-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:secret@db:5432/orders", cfg.DatabaseURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "jwt-secret")

	//DATABASE_URLなしではPOSTGRES_*が必須
	_, err := Load()
	assert.Error(t, err)

	//JWT_SECRETは常に必須
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/orders")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_BadPostgresPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/orders")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("POSTGRES_PORT", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
