// Package datasource reads the TrackOdds schema from the hosted REST store and
// builds the repository set for the configured store driver.
package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackodds/internal/metrics"
)

const (
	restPath    = "/rest/v1/"
	maxErrBody  = 4096
	headerKey   = "apikey"
	selectParam = "select"
)

// PostgREST codes reported when a relation is missing
var missingRelationCodes = []string{"42P01", "PGRST205"}

// StoreError is returned when the hosted store rejects a query
type StoreError struct {
	Query   string
	Status  int
	Code    string
	Message string
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store query %s failed (status %d, code %s): %s", e.Query, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("store query %s failed (status %d): %s", e.Query, e.Status, e.Message)
}

// IsMissingRelation reports whether the error says the table does not exist
func (e *StoreError) IsMissingRelation() bool {
	if e.Status == http.StatusNotFound {
		return true
	}
	for _, c := range missingRelationCodes {
		if e.Code == c {
			return true
		}
	}
	return false
}

// restErrorBody is the error document returned by the store
type restErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// RESTClient queries tables over the hosted store's REST interface
type RESTClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Entry
}

// NewRESTClient creates a client for the store at baseURL
func NewRESTClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, log *logrus.Logger) (*RESTClient, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid store url %q", baseURL)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("store api key is required")
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	return &RESTClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     log.WithField("component", "rest_store"),
	}, nil
}

// Select reads rows of table matching params into dest, which must point to a slice.
// Every column is selected.
func (c *RESTClient) Select(ctx context.Context, table string, params url.Values, dest any) error {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set(selectParam, "*")

	endpoint := c.baseURL + restPath + url.PathEscape(table) + "?" + q.Encode()

	header := http.Header{}
	header.Set(headerKey, c.apiKey)
	header.Set("Authorization", "Bearer "+c.apiKey)
	header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Get(ctx, endpoint, header)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer resp.Body.Close()

	metrics.RecordStoreRequest(table, resp.StatusCode)
	c.logger.WithFields(logrus.Fields{
		"table":       table,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Store request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStoreError(table, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode %s rows: %w", table, err)
	}
	return nil
}

func decodeStoreError(table string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))

	storeErr := &StoreError{Query: table, Status: resp.StatusCode}
	var doc restErrorBody
	if json.Unmarshal(body, &doc) == nil && (doc.Message != "" || doc.Code != "") {
		storeErr.Code = doc.Code
		storeErr.Message = doc.Message
	} else {
		storeErr.Message = strings.TrimSpace(string(body))
	}
	if storeErr.Message == "" {
		storeErr.Message = http.StatusText(resp.StatusCode)
	}
	return storeErr
}

// SampleRow reads one row of table as raw columns. It returns nil when the table is empty.
func (c *RESTClient) SampleRow(ctx context.Context, table string) (map[string]json.RawMessage, error) {
	var rows []map[string]json.RawMessage
	if err := c.Select(ctx, table, url.Values{"limit": {"1"}}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// TableExists probes table with a one-row read
func (c *RESTClient) TableExists(ctx context.Context, table string) (bool, error) {
	_, err := c.SampleRow(ctx, table)
	if err == nil {
		return true, nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) && storeErr.IsMissingRelation() {
		return false, nil
	}
	return false, err
}

// eq builds a PostgREST equality filter
func eq(v string) string {
	return "eq." + v
}

// inList builds a PostgREST membership filter with quoted values
func inList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}
