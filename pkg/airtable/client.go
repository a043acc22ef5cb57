// Package airtable is a minimal client for the Airtable REST API, limited to
// what the job sync needs: listing active records and writing back a sync
// acknowledgement. Requests share one token-bucket limiter and retry on 429/503.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.airtable.com/v0"

	// ActiveFormula selects the records the sync treats as live
	ActiveFormula = "{Status}='Active'"

	FieldSyncStatus = "Sync Status"
	FieldLastSynced = "Last Synced"

	pageSize = 100
)

var ErrNotConfigured = errors.New("airtable: api key and base id are required")

type Config struct {
	APIKey            string
	BaseID            string
	Table             string
	View              string
	RequestsPerSecond float64
	BaseURL           string
	MaxRetries        int
	RetryBaseDelay    time.Duration
	HTTPClient        *http.Client
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Table == "" {
		c.Table = "Jobs"
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 5
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBaseDelay == 0 {
		c.RetryBaseDelay = time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

type Client struct {
	cfg     Config
	limiter *rate.Limiter
}

// APIError is a non-2xx response from Airtable.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("airtable: %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable: %d %s", e.StatusCode, e.Type)
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.BaseID == "" {
		return nil, ErrNotConfigured
	}
	cfg = cfg.withDefaults()

	return &Client{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

type listResponse struct {
	Records []domain.ExternalJobRecord `json:"records"`
	Offset  string                     `json:"offset"`
}

// ListActive pages through every record whose Status is Active.
func (c *Client) ListActive(ctx context.Context) ([]domain.ExternalJobRecord, error) {
	var (
		all    []domain.ExternalJobRecord
		offset string
	)

	for {
		q := url.Values{}
		q.Set("filterByFormula", ActiveFormula)
		q.Set("pageSize", strconv.Itoa(pageSize))
		if c.cfg.View != "" {
			q.Set("view", c.cfg.View)
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		body, err := c.do(ctx, http.MethodGet, c.tableURL()+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}

		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("airtable: decode list response: %w", err)
		}
		all = append(all, page.Records...)

		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// AcknowledgeSync writes the sync status and timestamp back onto the record.
func (c *Client) AcknowledgeSync(ctx context.Context, recordID, status string) error {
	payload, err := json.Marshal(map[string]any{
		"fields": map[string]any{
			FieldSyncStatus: status,
			FieldLastSynced: time.Now().UTC().Format(time.RFC3339),
		},
		"typecast": true,
	})
	if err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodPatch, c.tableURL()+"/"+url.PathEscape(recordID), payload)
	return err
}

func (c *Client) tableURL() string {
	return c.cfg.BaseURL + "/" + url.PathEscape(c.cfg.BaseID) + "/" + url.PathEscape(c.cfg.Table)
}

// do sends one logical request, waiting on the limiter before every attempt.
func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return nil, fmt.Errorf("airtable: build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.cfg.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("airtable: request failed: %w", err)
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("airtable: read response: %w", readErr)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable
		if !retryable || attempt >= c.cfg.MaxRetries {
			return nil, parseError(resp.StatusCode, data)
		}

		wait := c.backoff(attempt, resp.Header.Get("Retry-After"))
		logger.Log.Warn("Airtable request throttled, retrying",
			"status", resp.StatusCode,
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"wait", wait.String(),
		)

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *Client) backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return c.cfg.RetryBaseDelay * time.Duration(1<<uint(attempt))
}

// parseError understands both {"error":"NOT_FOUND"} and {"error":{"type":..,"message":..}}.
func parseError(status int, data []byte) error {
	apiErr := &APIError{StatusCode: status, Type: http.StatusText(status)}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Error) == 0 {
		return apiErr
	}

	var detailed struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detailed); err == nil {
		if detailed.Type != "" {
			apiErr.Type = detailed.Type
		}
		apiErr.Message = detailed.Message
		return apiErr
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil && code != "" {
		apiErr.Type = code
	}
	return apiErr
}
