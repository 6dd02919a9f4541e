package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/alex-user-go/travel/internal/obs"
	"github.com/alex-user-go/travel/internal/search/types"
)

// maxBodyBytes caps how much of a vendor response is read.
const maxBodyBytes = 8 << 20

type endpoints struct {
	production string
	sandbox    string
}

// vendorClient performs JSON calls against one vendor. It owns the
// connection pool of its *http.Client and is safe for concurrent use.
type vendorClient struct {
	id         types.ProviderID
	baseURL    string
	headers    http.Header
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *obs.Metrics
}

func newVendorClient(id types.ProviderID, cfg Config, ep endpoints, headers map[string]string, logger *zap.Logger, metrics *obs.Metrics) *vendorClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = ep.production
		if cfg.Environment == Sandbox {
			baseURL = ep.sandbox
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	h := make(http.Header, len(headers)+2)
	for k, v := range headers {
		h.Set(k, v)
	}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")

	return &vendorClient{
		id:         id,
		baseURL:    strings.TrimRight(baseURL, "/"),
		headers:    h,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger.With(zap.String("provider", string(id))),
		metrics:    metrics,
	}
}

// call sends a request and decodes the JSON answer into out after checking it
// against schema. body is JSON-encoded when non-nil.
func (c *vendorClient) call(ctx context.Context, method, path string, query url.Values, body any, schema *gojsonschema.Schema, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range c.headers {
		req.Header[k] = vs
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, truncate(string(raw), 256))
	}

	if schema != nil {
		if err := validatePayload(schema, raw); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// fail records an absorbed vendor failure.
func (c *vendorClient) fail(op string, err error) {
	c.logger.Warn("provider call failed",
		zap.String("operation", op),
		zap.Error(err),
	)
	c.metrics.IncProviderErrors(string(c.id), op)
}

// drop records a vendor record rejected during normalization.
func (c *vendorClient) drop(op string, err error) {
	c.logger.Debug("dropping vendor record",
		zap.String("operation", op),
		zap.Error(err),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func formatDate(t time.Time) string {
	return t.Format(types.DateLayout)
}

// formatOptionalDate returns nil for a missing date so it encodes as JSON null.
func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}
