package fitbit

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitsync/fitsync/internal/errors"
	"github.com/fitsync/fitsync/internal/logging"
	"github.com/stretchr/testify/require"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.WithOutput(&bytes.Buffer{}), logging.WithLevel(logging.LevelError))
}

type recordingSink struct {
	tokens []string
}

func (r *recordingSink) StoreRefreshToken(token string) error {
	r.tokens = append(r.tokens, token)
	return nil
}

func newTestSession(t *testing.T, handler http.HandlerFunc, sink TokenSink) (*Session, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	session := NewSession(SessionOptions{
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
		RefreshToken:  "refresh-token-original",
		TokenURL:      srv.URL,
		HTTPClient:    srv.Client(),
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
		Sink:          sink,
		Logger:        testLogger(),
	})
	return session, srv
}

func TestRefreshSuccess(t *testing.T) {
	var calls int
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, http.MethodPost, r.Method)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client-id", user)
		require.Equal(t, "client-secret", pass)

		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		require.Equal(t, "refresh-token-original", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-1"}`))
	}, nil)

	require.NoError(t, session.Refresh(context.Background()))
	require.Equal(t, "access-1", session.AccessToken())
	require.Equal(t, 1, calls)
}

func TestRefreshInvalidGrantFailsImmediately(t *testing.T) {
	var calls int
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"errorType":"invalid_grant","message":"Refresh token invalid"}]}`))
	}, nil)

	err := session.Refresh(context.Background())
	require.Error(t, err)

	var perm *errors.ErrPermanentAuth
	require.ErrorAs(t, err, &perm)
	require.Equal(t, "invalid_grant", perm.ErrorType)
	require.Equal(t, 1, calls, "permanent auth failure must not retry")
}

func TestRefreshInvalidClientFailsImmediately(t *testing.T) {
	var calls int
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"errorType":"invalid_client","message":"Invalid client"}]}`))
	}, nil)

	err := session.Refresh(context.Background())

	var perm *errors.ErrPermanentAuth
	require.ErrorAs(t, err, &perm)
	require.Equal(t, 1, calls)
}

func TestRefreshRetriesTransientFailures(t *testing.T) {
	var calls int
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"errors":[{"errorType":"server_error","message":"boom"}]}`))
			return
		}
		w.Write([]byte(`{"access_token":"access-3"}`))
	}, nil)

	require.NoError(t, session.Refresh(context.Background()))
	require.Equal(t, "access-3", session.AccessToken())
	require.Equal(t, 3, calls, "expected success on the third attempt")
}

func TestRefreshExhaustsRetries(t *testing.T) {
	var calls int
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errors":[{"errorType":"server_error","message":"boom"}]}`))
	}, nil)

	err := session.Refresh(context.Background())
	require.Error(t, err)

	var exhausted *errors.ErrTokenRefresh
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 3, exhausted.Attempts)
	require.Equal(t, 3, calls)
}

func TestRefreshRotationReachesSink(t *testing.T) {
	sink := &recordingSink{}
	requests := 0
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.NoError(t, r.ParseForm())
		if requests == 1 {
			require.Equal(t, "refresh-token-original", r.PostForm.Get("refresh_token"))
			w.Write([]byte(`{"access_token":"access-1","refresh_token":"refresh-token-rotated"}`))
			return
		}
		// Second refresh must present the rotated token.
		require.Equal(t, "refresh-token-rotated", r.PostForm.Get("refresh_token"))
		w.Write([]byte(`{"access_token":"access-2"}`))
	}, sink)

	require.NoError(t, session.Refresh(context.Background()))
	require.Equal(t, []string{"refresh-token-rotated"}, sink.tokens)

	require.NoError(t, session.Refresh(context.Background()))
	require.Len(t, sink.tokens, 1, "unrotated refresh must not re-notify the sink")
}

func TestRefreshMissingAccessTokenIsTransient(t *testing.T) {
	var calls int
	session, _ := newTestSession(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}, nil)

	err := session.Refresh(context.Background())

	var exhausted *errors.ErrTokenRefresh
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, 3, calls)
}
