package config

import (
	"os"
	"testing"

	"github.com/fitsync/fitsync/internal/errors"
	"github.com/stretchr/testify/require"
)

func setAllCredentials(t *testing.T) {
	t.Helper()
	t.Setenv(EnvFitbitClientID, "23ABCD")
	t.Setenv(EnvFitbitClientSecret, "0123456789abcdef")
	t.Setenv(EnvFitbitRefreshToken, "9f8e7d6c5b4a39281706f5e4d3c2b1a09f8e7d6c5b4a39281706f5e4d3c2b1a0")
	t.Setenv(EnvNotionToken, "secret_abc123")
	t.Setenv(EnvNotionDatabaseID, "a1b2c3d4e5f60718293a4b5c6d7e8f90")
}

func TestLoadCredentialsStoresAllValues(t *testing.T) {
	setAllCredentials(t)

	creds, err := LoadCredentials()
	require.NoError(t, err)
	require.Equal(t, "23ABCD", creds.FitbitClientID)
	require.Equal(t, "0123456789abcdef", creds.FitbitClientSecret)
	require.Equal(t, "9f8e7d6c5b4a39281706f5e4d3c2b1a09f8e7d6c5b4a39281706f5e4d3c2b1a0", creds.FitbitRefreshToken)
	require.Equal(t, "secret_abc123", creds.NotionToken)
	require.Equal(t, "a1b2c3d4e5f60718293a4b5c6d7e8f90", creds.NotionDatabaseID)
}

func TestLoadCredentialsKeepsValuesVerbatim(t *testing.T) {
	setAllCredentials(t)
	t.Setenv(EnvFitbitClientSecret, "  0123456789abcdef ")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	require.Equal(t, "  0123456789abcdef ", creds.FitbitClientSecret)
}

func TestLoadCredentialsMissingVariable(t *testing.T) {
	for _, missing := range []string{
		EnvFitbitClientID,
		EnvFitbitClientSecret,
		EnvFitbitRefreshToken,
		EnvNotionToken,
		EnvNotionDatabaseID,
	} {
		t.Run(missing, func(t *testing.T) {
			setAllCredentials(t)
			t.Setenv(missing, "")

			_, err := LoadCredentials()
			require.Error(t, err)

			var missingErr *errors.ErrMissingCredential
			require.ErrorAs(t, err, &missingErr)
			require.Equal(t, missing, missingErr.Variable)
		})
	}
}

func TestLoadCredentialsWhitespaceIsEmpty(t *testing.T) {
	setAllCredentials(t)
	t.Setenv(EnvNotionToken, "   ")

	_, err := LoadCredentials()
	var missingErr *errors.ErrMissingCredential
	require.ErrorAs(t, err, &missingErr)
	require.Equal(t, EnvNotionToken, missingErr.Variable)
}

func TestLoadCredentialsImplausibleRefreshToken(t *testing.T) {
	setAllCredentials(t)
	t.Setenv(EnvFitbitRefreshToken, `"quoted token!"`)

	_, err := LoadCredentials()
	var malformedErr *errors.ErrMalformedCredential
	require.ErrorAs(t, err, &malformedErr)
	require.Equal(t, EnvFitbitRefreshToken, malformedErr.Variable)
}

func TestPlausibleToken(t *testing.T) {
	require.True(t, plausibleToken("9f8e7d6c5b4a3928-_=.ABC"))
	require.False(t, plausibleToken("short"))
	require.False(t, plausibleToken("has spaces in the middle"))
	require.False(t, plausibleToken("curly{braces}everywhere"))
}

func TestEnvTokenSinkStoresToken(t *testing.T) {
	t.Setenv(EnvFitbitRefreshToken, "old")

	require.NoError(t, EnvTokenSink{}.StoreRefreshToken("rotated-token-value"))
	require.Equal(t, "rotated-token-value", os.Getenv(EnvFitbitRefreshToken))
}
