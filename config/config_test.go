package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LEETCODE_API_URL", "")
	t.Setenv("CHECK_CONCURRENCY", "")
	t.Setenv("TIMEZONE", "")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "https://leetcode-api-pied.vercel.app", cfg.LeetCodeAPIURL)
	assert.Equal(t, 4, cfg.CheckConcurrency)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 20, cfg.SubmissionLimit)
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CHECK_CONCURRENCY", "8")
	t.Setenv("API_TIMEOUT_SECONDS", "3")
	t.Setenv("API_MAX_RETRIES", "5")
	t.Setenv("API_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("SUBMISSION_LIMIT", "50")
	t.Setenv("TIMEZONE", "Asia/Kolkata")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.CheckConcurrency)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, uint64(5), cfg.APIMaxRetries)
	assert.Equal(t, 2.5, cfg.APIRequestsPerSecond)
	assert.Equal(t, 50, cfg.SubmissionLimit)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"CHECK_CONCURRENCY":       "0",
		"API_TIMEOUT_SECONDS":     "soon",
		"API_REQUESTS_PER_SECOND": "-1",
		"TIMEZONE":                "Mars/Olympus",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "test")
			t.Setenv(key, value)

			_, err := load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_RequiresTokenOutsideTests(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost")

	_, err := load()
	assert.ErrorContains(t, err, "DISCORD_TOKEN")
}

func TestSetTestConfig(t *testing.T) {
	defer ResetConfig()

	testCfg := NewTestConfig()
	SetTestConfig(testCfg)

	assert.Same(t, testCfg, Get())
}
