package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_MODE", "DB_DRIVER", "DEV_JWT_SECRET", "DEV_JWT_REFRESH_SECRET",
		"PROD_JWT_SECRET", "PROD_JWT_REFRESH_SECRET", "KAFKA_BROKERS", "SEED_DEMO",
		"ACCESS_TOKEN_MINUTES", "REFRESH_TOKEN_DAYS", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestDevModeFallsBackToLabelledSecret(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.True(t, cfg.JWT.UsingDevSecret)
	assert.Equal(t, DevJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, DevJWTRefreshSecret, cfg.JWT.RefreshSecret)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestProdModeRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_MODE", "prod")

	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	t.Setenv("PROD_JWT_SECRET", "s3cret")
	_, err = FromEnv()
	assert.ErrorIs(t, err, ErrMissingJWTSecret, "refresh secret is required too")

	t.Setenv("PROD_JWT_REFRESH_SECRET", "r3fresh")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.JWT.UsingDevSecret)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestInvalidModeAndDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_MODE", "staging")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "mongo")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestKafkaBrokersParsing(t *testing.T) {
	clearEnv(t)
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestSeedDemoOnlyInDev(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEED_DEMO", "true")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.SeedDemo)

	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_JWT_SECRET", "a")
	t.Setenv("PROD_JWT_REFRESH_SECRET", "b")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.SeedDemo)
}
