package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fitsync/fitsync/internal/errors"
	"github.com/fitsync/fitsync/internal/logging"
	"github.com/fitsync/fitsync/internal/models"
)

// DefaultAPIBase is the Notion API base URL.
const DefaultAPIBase = "https://api.notion.com/v1"

// apiVersion is the Notion-Version header value pinned by this client.
const apiVersion = "2022-06-28"

// dateProperty is the name of the database property that keys records.
const dateProperty = "Date"

// ClientOptions configures a Client.
type ClientOptions struct {
	Token      string
	DatabaseID string
	APIBase    string
	HTTPClient *http.Client
	Logger     *logging.Logger
	// OnQueryFailure is called whenever an existence query fails open, if set.
	OnQueryFailure func()
}

// Client talks to the destination database: it answers which dates already
// have a page and creates new pages. It never updates existing pages.
type Client struct {
	token          string
	databaseID     string
	base           string
	client         *http.Client
	logger         *logging.Logger
	onQueryFailure func()
}

// NewClient creates a destination client.
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
		token:          opts.Token,
		databaseID:     opts.DatabaseID,
		base:           opts.APIBase,
		client:         opts.HTTPClient,
		logger:         opts.Logger,
		onQueryFailure: opts.OnQueryFailure,
	}
}

// Unrecorded returns the subset of dates that have no page yet, preserving
// input order. On any query failure it fails open: every input date is
// reported as unrecorded, trading possible duplicate pages for the certainty
// that nothing is silently skipped.
func (c *Client) Unrecorded(ctx context.Context, dates []string) []string {
	if len(dates) == 0 {
		return nil
	}

	recorded, err := c.queryDates(ctx, dates)
	if err != nil {
		c.logger.Warn("destination query failed, treating all dates as unrecorded",
			"error", err.Error(),
			"dates", len(dates),
		)
		if c.onQueryFailure != nil {
			c.onQueryFailure()
		}
		return dates
	}

	var missing []string
	for _, d := range dates {
		if !recorded[d] {
			missing = append(missing, d)
		}
	}
	return missing
}

// queryDates asks the database which of the given dates already have a page,
// using an OR of per-date equality predicates on the date property.
func (c *Client) queryDates(ctx context.Context, dates []string) (map[string]bool, error) {
	or := make([]map[string]interface{}, 0, len(dates))
	for _, d := range dates {
		or = append(or, map[string]interface{}{
			"property": dateProperty,
			"date":     map[string]string{"equals": d},
		})
	}

	body := map[string]interface{}{
		"filter": map[string]interface{}{"or": or},
	}

	var parsed struct {
		Results []struct {
			Properties map[string]struct {
				Date *struct {
					Start string `json:"start"`
				} `json:"date"`
			} `json:"properties"`
		} `json:"results"`
	}

	path := fmt.Sprintf("/databases/%s/query", c.databaseID)
	if err := c.postJSON(ctx, path, body, &parsed); err != nil {
		return nil, &errors.ErrDestinationQuery{Err: err}
	}

	recorded := make(map[string]bool)
	for _, page := range parsed.Results {
		prop, ok := page.Properties[dateProperty]
		if !ok || prop.Date == nil {
			continue
		}
		// Date-range starts may carry a time component; only the calendar
		// date matters here.
		start := prop.Date.Start
		if len(start) > 10 {
			start = start[:10]
		}
		recorded[start] = true
	}
	return recorded, nil
}

// CreatePage writes one page for a daily record: the date property plus the
// flattened numeric properties of every present category.
func (c *Client) CreatePage(ctx context.Context, record *models.DailyRecord) error {
	properties := map[string]interface{}{
		dateProperty: map[string]interface{}{
			"date": map[string]string{"start": record.Date},
		},
	}
	for label, value := range record.Flatten() {
		properties[label] = map[string]interface{}{"number": value}
	}

	body := map[string]interface{}{
		"parent":     map[string]string{"database_id": c.databaseID},
		"properties": properties,
	}

	if err := c.postJSON(ctx, "/pages", body, nil); err != nil {
		payload, _ := json.Marshal(body)
		return &errors.ErrRecordWrite{Date: record.Date, Payload: string(payload), Err: err}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("notion %s status %d: %s", path, resp.StatusCode, string(msg))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
