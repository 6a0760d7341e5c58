package fitbit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fitsync/fitsync/internal/errors"
	"github.com/fitsync/fitsync/internal/logging"
)

// DefaultAPIBase is the Fitbit web API base for the authorized user.
const DefaultAPIBase = "https://api.fitbit.com/1/user/-"

// ClientOptions configures a Client.
type ClientOptions struct {
	Session    *Session
	APIBase    string
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client issues authenticated reads against the metrics API. On an expired
// access token it refreshes once and retries the same request once; a second
// consecutive 401 propagates rather than looping.
type Client struct {
	session *Session
	base    string
	client  *http.Client
	logger  *logging.Logger
}

// NewClient creates a metrics client bound to a session.
func NewClient(opts ClientOptions) *Client {
	if opts.APIBase == "" {
		opts.APIBase = DefaultAPIBase
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger()
	}

	return &Client{
		session: opts.Session,
		base:    opts.APIBase,
		client:  opts.HTTPClient,
		logger:  opts.Logger,
	}
}

// getJSON fetches base+path and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.get(ctx, path)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()

		c.logger.Info("access token rejected, refreshing once", "path", path)
		c.session.Invalidate()
		if err := c.session.Refresh(ctx); err != nil {
			return err
		}

		resp, err = c.get(ctx, path)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			return &errors.ErrUnauthorized{Endpoint: path}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.ErrMetricsFetch{Endpoint: path, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	req.Header.Set("Accept", "application/json")

	return c.client.Do(req)
}
