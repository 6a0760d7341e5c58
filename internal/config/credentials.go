package config

import (
	"os"
	"strings"

	"github.com/fitsync/fitsync/internal/errors"
	"github.com/spf13/viper"
)

// Environment variable names for the five required secrets.
const (
	EnvFitbitClientID     = "FITSYNC_FITBIT_CLIENT_ID"
	EnvFitbitClientSecret = "FITSYNC_FITBIT_CLIENT_SECRET"
	EnvFitbitRefreshToken = "FITSYNC_FITBIT_REFRESH_TOKEN"
	EnvNotionToken        = "FITSYNC_NOTION_TOKEN"
	EnvNotionDatabaseID   = "FITSYNC_NOTION_DATABASE_ID"
)

// Credentials holds the five secrets the job needs. All are opaque strings,
// all required, validated non-empty before any network call is made.
type Credentials struct {
	FitbitClientID     string
	FitbitClientSecret string
	FitbitRefreshToken string
	NotionToken        string
	NotionDatabaseID   string
}

// LoadCredentials reads the secrets from the process environment.
// The first missing or empty variable fails the load, naming the variable.
func LoadCredentials() (*Credentials, error) {
	v := viper.New()
	v.SetEnvPrefix("FITSYNC")
	v.AutomaticEnv()

	// Values are stored exactly as found; TrimSpace guards only against
	// variables set to pure whitespace.
	read := func(key, envName string) (string, error) {
		value := v.GetString(key)
		if strings.TrimSpace(value) == "" {
			return "", &errors.ErrMissingCredential{Variable: envName}
		}
		return value, nil
	}

	creds := &Credentials{}
	var err error

	if creds.FitbitClientID, err = read("fitbit_client_id", EnvFitbitClientID); err != nil {
		return nil, err
	}
	if creds.FitbitClientSecret, err = read("fitbit_client_secret", EnvFitbitClientSecret); err != nil {
		return nil, err
	}
	if creds.FitbitRefreshToken, err = read("fitbit_refresh_token", EnvFitbitRefreshToken); err != nil {
		return nil, err
	}
	if creds.NotionToken, err = read("notion_token", EnvNotionToken); err != nil {
		return nil, err
	}
	if creds.NotionDatabaseID, err = read("notion_database_id", EnvNotionDatabaseID); err != nil {
		return nil, err
	}

	if !plausibleToken(creds.FitbitRefreshToken) {
		return nil, &errors.ErrMalformedCredential{
			Variable: EnvFitbitRefreshToken,
			Reason:   "does not look like a provider-issued token",
		}
	}

	return creds, nil
}

// plausibleToken checks that a refresh token is long enough and drawn from
// the URL-safe alphabet providers issue tokens in. It catches pasting
// accidents (quotes, whitespace, truncation) before the first network call.
func plausibleToken(token string) bool {
	if len(token) < 16 {
		return false
	}
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '=' || r == '.':
		default:
			return false
		}
	}
	return true
}

// EnvTokenSink writes a rotated refresh token back to the process
// environment. The write is non-durable; persisting it as a real secret is
// the execution environment's job, this just keeps the current process
// consistent after rotation.
type EnvTokenSink struct{}

// StoreRefreshToken records the rotated token in the environment.
func (EnvTokenSink) StoreRefreshToken(token string) error {
	return os.Setenv(EnvFitbitRefreshToken, token)
}
