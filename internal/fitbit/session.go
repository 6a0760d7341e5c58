package fitbit

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fitsync/fitsync/internal/errors"
	"github.com/fitsync/fitsync/internal/logging"
	"github.com/sethvargo/go-retry"
)

// DefaultTokenURL is the Fitbit OAuth token endpoint.
const DefaultTokenURL = "https://api.fitbit.com/oauth2/token"

// TokenSink receives rotated refresh tokens. The provider may invalidate the
// old token the moment it issues a new one, so whoever owns durable secret
// storage must hear about rotation before the process exits.
type TokenSink interface {
	StoreRefreshToken(token string) error
}

// SessionOptions configures a Session.
type SessionOptions struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	HTTPClient   *http.Client
	// RetryAttempts is the total number of attempts for transient refresh
	// failures. Default: 3
	RetryAttempts int
	// RetryDelay is the fixed delay between attempts. Default: 5s
	RetryDelay time.Duration
	Sink       TokenSink
	Logger     *logging.Logger
	// OnRefresh is called after every successful refresh, if set.
	OnRefresh func()
}

// Session owns the credential lifecycle for one run: it holds the current
// access and refresh tokens and is the only thing allowed to mutate them.
type Session struct {
	clientID     string
	clientSecret string
	refreshToken string
	accessToken  string
	tokenURL     string
	client       *http.Client
	attempts     int
	delay        time.Duration
	sink         TokenSink
	logger       *logging.Logger
	onRefresh    func()
}

// NewSession creates a Session. The access token starts empty; call Refresh
// before issuing any metrics request.
func NewSession(opts SessionOptions) *Session {
	if opts.TokenURL == "" {
		opts.TokenURL = DefaultTokenURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger()
	}

	return &Session{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		refreshToken: opts.RefreshToken,
		tokenURL:     opts.TokenURL,
		client:       opts.HTTPClient,
		attempts:     opts.RetryAttempts,
		delay:        opts.RetryDelay,
		sink:         opts.Sink,
		logger:       opts.Logger,
		onRefresh:    opts.OnRefresh,
	}
}

// AccessToken returns the current bearer token, empty until the first
// successful Refresh.
func (s *Session) AccessToken() string {
	return s.accessToken
}

// Invalidate discards the current access token.
func (s *Session) Invalidate() {
	s.accessToken = ""
}

// Refresh exchanges the refresh token for a new access token. Transient
// failures are retried up to the configured attempt count with a fixed delay
// between attempts. invalid_grant and invalid_client fail immediately:
// retrying a dead refresh token or misconfigured client cannot succeed.
func (s *Session) Refresh(ctx context.Context) error {
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(s.attempts-1), retry.NewConstant(s.delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := s.refreshOnce(ctx)
		if err == nil {
			return nil
		}

		var perm *errors.ErrPermanentAuth
		if stderrors.As(err, &perm) {
			return err
		}

		s.logger.Warn("token refresh attempt failed",
			"attempt", attempt,
			"error", err.Error(),
		)
		return retry.RetryableError(err)
	})
	if err == nil {
		if s.onRefresh != nil {
			s.onRefresh()
		}
		return nil
	}

	var perm *errors.ErrPermanentAuth
	if stderrors.As(err, &perm) {
		return err
	}
	return &errors.ErrTokenRefresh{Attempts: attempt, Err: err}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type tokenErrorResponse struct {
	Errors []struct {
		ErrorType string `json:"errorType"`
		Message   string `json:"message"`
	} `json:"errors"`
}

func (s *Session) refreshOnce(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.clientID, s.clientSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var parsed tokenErrorResponse
		if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
			errorType := parsed.Errors[0].ErrorType
			if errors.IsPermanentAuth(errorType) {
				return &errors.ErrPermanentAuth{ErrorType: errorType}
			}
			return fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, errorType)
		}
		return fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return err
	}
	if parsed.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}

	s.accessToken = parsed.AccessToken
	if parsed.RefreshToken != "" && parsed.RefreshToken != s.refreshToken {
		s.rotate(parsed.RefreshToken)
	}

	return nil
}

func (s *Session) rotate(token string) {
	s.refreshToken = token
	s.logger.Info("refresh token rotated by provider")

	if s.sink == nil {
		return
	}
	if err := s.sink.StoreRefreshToken(token); err != nil {
		s.logger.Warn("failed to persist rotated refresh token", "error", err.Error())
	}
}
