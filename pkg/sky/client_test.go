package sky

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alum-office/crmsync-cli/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Multiplier:     1.0,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("sub-key", StaticTokenSource("test-token"),
		WithBaseURL(srv.URL),
		WithRetry(fastRetry()),
	)
}

func TestListEmailAddresses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/constituent/v1/constituents/597736/emailaddresses", r.URL.Path)
		assert.Equal(t, "sub-key", r.Header.Get("Bb-Api-Subscription-Key"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"count": 2,
			"value": [
				{"id": "11", "address": "a@example.com", "type": "Email", "primary": true},
				{"id": "12", "address": "b@example.com", "type": "Email"}
			]
		}`))
	})

	emails, err := client.ListEmailAddresses(context.Background(), "597736")
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "a@example.com", emails[0].Address)
	assert.True(t, emails[0].Primary)
	assert.Equal(t, "12", emails[1].ID)
}

func TestGetConstituent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/constituent/v1/constituents/597736", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "597736", "title": "Dr.", "first": "A", "middle": "P", "last": "Sharma", "name": "Dr. A P Sharma"}`))
	})

	c, err := client.GetConstituent(context.Background(), "597736")
	require.NoError(t, err)
	assert.Equal(t, "Sharma", c.Last)
	assert.Equal(t, "Dr.", c.Title)
}

func TestPostSendsPayload(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EmailAddressesPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id": "99"}`))
	})

	err := client.Post(context.Background(), EmailAddressesPath, map[string]any{
		"address":        "new@example.com",
		"constituent_id": "597736",
		"primary":        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got["address"])
}

func TestRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"count": 0, "value": []}`))
	})

	phones, err := client.ListPhones(context.Background(), "597736")
	require.NoError(t, err)
	assert.Empty(t, phones)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "invalid constituent"}`))
	})

	err := client.Patch(context.Background(), PhonePath("5"), map[string]any{"primary": true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryExhaustionIsHardFailure(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.ListAddresses(context.Background(), "597736")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}
