package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Setting environment variables.
func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for key, value := range vars {
		err := os.Setenv(key, value)
		require.NoError(t, err, "failed to set env var %s", key)

		// Ensure that the env vars are cleared after the test
		t.Cleanup(func() {
			os.Unsetenv(key)
		})
	}
}

func TestConfigTelegramEnv(t *testing.T) {
	setEnvVars(t, map[string]string{
		"TELEGRAM_TOKEN":   "123",
		"TELEGRAM_TIMEOUT": "10s",
	})

	actual, err := MustLoadConfig()
	require.NoError(t, err)
	require.NotNil(t, actual)
	require.Equal(t, "123", actual.Telegram.Token)
	require.Equal(t, 10*time.Second, actual.Telegram.Timeout)
}

func TestConfigFilterEnv(t *testing.T) {
	expected := FilterConfig{
		AllowedChats: []int64{100, 200},
		BlockedUsers: []int64{7},
		Keywords:     []string{"urgent", "asap"},
		FlagWords:    []string{"alarm"},
	}

	setEnvVars(t, map[string]string{
		"TELEGRAM_TOKEN":       "123",
		"FILTER_ALLOWED_CHATS": "100,200",
		"FILTER_BLOCKED_USERS": "7",
		"FILTER_KEYWORDS":      "urgent,asap",
		"FILTER_FLAG_WORDS":    "alarm",
	})

	actual, err := MustLoadConfig()
	require.NoError(t, err)
	require.NotNil(t, actual)
	require.Equal(t, expected.AllowedChats, actual.Filter.AllowedChats)
	require.Equal(t, expected.BlockedUsers, actual.Filter.BlockedUsers)
	require.Equal(t, expected.Keywords, actual.Filter.Keywords)
	require.Equal(t, expected.FlagWords, actual.Filter.FlagWords)
}

func TestConfigDefaults(t *testing.T) {
	setEnvVars(t, map[string]string{
		"TELEGRAM_TOKEN": "123",
	})

	actual, err := MustLoadConfig()
	require.NoError(t, err)
	require.Equal(t, "sqlite3", actual.Database.Driver)
	require.Equal(t, ":memory:", actual.Database.Connection)
	require.Equal(t, "info", actual.Verbose)
	require.Empty(t, actual.Filter.AllowedChats)
}
