package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:            "key123",
		BaseID:            "appBase",
		Table:             "Jobs",
		View:              "Grid view",
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		RetryBaseDelay:    time.Millisecond,
	})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{BaseID: "app"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestListActivePaginates(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/appBase/Jobs", r.URL.Path)
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		assert.Equal(t, ActiveFormula, r.URL.Query().Get("filterByFormula"))
		assert.Equal(t, "Grid view", r.URL.Query().Get("view"))

		switch r.URL.Query().Get("offset") {
		case "":
			_, _ = io.WriteString(w, `{"records":[{"id":"rec1","fields":{"Title":"Go Dev","Salary Min":50000}}],"offset":"itr2"}`)
		case "itr2":
			_, _ = io.WriteString(w, `{"records":[{"id":"rec2","fields":{"Title":"SRE"}}]}`)
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	})

	recs, err := c.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "rec1", recs[0].ID)
	assert.Equal(t, "Go Dev", recs[0].Fields["Title"])
	assert.Equal(t, 50000.0, recs[0].Fields["Salary Min"])
	assert.Equal(t, "rec2", recs[1].ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestListActiveRetriesOnThrottle(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, `{"records":[]}`)
	})

	recs, err := c.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestListActiveGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.ListActive(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls), "initial attempt plus three retries")
}

func TestListActiveDoesNotRetryAuthErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"type":"AUTHENTICATION_REQUIRED","message":"Authentication required"}}`)
	})

	_, err := c.ListActive(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", apiErr.Type)
	assert.Equal(t, "Authentication required", apiErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAcknowledgeSync(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appBase/Jobs/rec42", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Synced", body.Fields[FieldSyncStatus])
		assert.NotEmpty(t, body.Fields[FieldLastSynced])

		_, _ = io.WriteString(w, `{"id":"rec42","fields":{}}`)
	})

	assert.NoError(t, c.AcknowledgeSync(context.Background(), "rec42", "Synced"))
}

func TestAcknowledgeSyncNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"NOT_FOUND"}`)
	})

	err := c.AcknowledgeSync(context.Background(), "missing", "Synced")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_FOUND", apiErr.Type)
}

func TestRequestHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c.cfg.RetryBaseDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ListActive(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
