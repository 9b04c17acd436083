package clients

import (
	"GlobalpingCLI/internal/cli/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const finishedMeasurement = `{
	"id": "abc123",
	"type": "ping",
	"status": "finished",
	"createdAt": "2024-01-01T00:00:00.000Z",
	"updatedAt": "2024-01-01T00:00:01.000Z",
	"results": [{
		"probe": {"continent": "EU", "region": "Western Europe", "country": "DE", "city": "Berlin", "asn": 3320, "longitude": 13.4, "latitude": 52.5, "network": "Deutsche Telekom AG", "resolvers": ["private"]},
		"result": {"rawOutput": "PING example.com"}
	}]
}`

type mapCache struct {
	mu      sync.Mutex
	entries map[string][2]string
}

func (m *mapCache) Get(_ context.Context, id string) (string, []byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return "", nil, false
	}
	return e[0], []byte(e[1]), true
}

func (m *mapCache) Put(_ context.Context, id, etag string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[string][2]string{}
	}
	m.entries[id] = [2]string{etag, string(body)}
	return nil
}

func newTestClient(url string, cache ResponseCache) *APIClient {
	return NewAPIClient(Config{
		BaseURL:   url,
		Token:     "secret",
		UserAgent: "globalping-cli/test",
		Cache:     cache,
		Logger:    zerolog.Nop(),
	})
}

func TestSubmit(t *testing.T) {
	t.Run("posts the request as JSON", func(t *testing.T) {
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/measurements", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "globalping-cli/test", r.Header.Get("User-Agent"))
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			assert.Equal(t, "br", r.Header.Get("Accept-Encoding"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte(`{"id":"abc123","probesCount":1}`))
		}))
		defer server.Close()

		packets := 3
		handle, err := newTestClient(server.URL+"/v1", nil).Submit(context.Background(), &domain.MeasurementRequest{
			Type:      domain.PingCommand,
			Target:    "example.com",
			Limit:     1,
			Locations: []domain.Location{{Magic: "Berlin"}},
			Options:   &domain.PingOptions{Packets: &packets},
		})
		require.NoError(t, err)
		assert.Equal(t, &domain.MeasurementHandle{ID: "abc123", ProbesCount: 1}, handle)
		assert.Equal(t, map[string]any{"packets": float64(3)}, gotBody["measurementOptions"])
	})

	t.Run("maps a 400 onto an APIError listing params", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Parameters validation failed.","type":"validation_error","params":{"target":"\"target\" does not match any of the allowed types","limit":"\"limit\" must be less than or equal to 500"}}}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, nil).Submit(context.Background(), &domain.MeasurementRequest{Type: domain.PingCommand, Options: &domain.PingOptions{}})

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, string(apiErr.Body), "validation_error")
		assert.Equal(t, "invalid parameters\n - \"limit\" must be less than or equal to 500\n - \"target\" does not match any of the allowed types", apiErr.Message)
	})

	t.Run("maps well known statuses", func(t *testing.T) {
		cases := map[int]string{
			http.StatusUnauthorized:        "unauthorized: token expired",
			http.StatusUnprocessableEntity: "no suitable probes found - please choose a different location",
			http.StatusTooManyRequests:     "rate limit exceeded - you can wait 2 minutes for the rate limit to reset",
			http.StatusInternalServerError: "internal server error - please try again later",
			http.StatusBadGateway:          "unexpected response status 502: bad_gateway",
		}
		for status, message := range cases {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Reset", "120")
				w.WriteHeader(status)
				w.Write([]byte(`{"error":{"message":"token expired","type":"bad_gateway"}}`))
			}))

			_, err := newTestClient(server.URL, nil).Submit(context.Background(), &domain.MeasurementRequest{Type: domain.PingCommand, Options: &domain.PingOptions{}})
			server.Close()

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), status)
			assert.Equal(t, status, apiErr.StatusCode)
			assert.Equal(t, message, apiErr.Message)
		}
	})

	t.Run("404 points at the endpoint, not a measurement", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := newTestClient(server.URL+"/wrong", nil).Submit(context.Background(), &domain.MeasurementRequest{Type: domain.PingCommand, Options: &domain.PingOptions{}})

		assert.NotErrorIs(t, err, ErrMeasurementNotFound)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "api endpoint not found, check api.url: "+server.URL+"/wrong/measurements", apiErr.Message)
	})

	t.Run("transport failure is an APIError without status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := newTestClient(url, nil).Submit(context.Background(), &domain.MeasurementRequest{Type: domain.PingCommand, Options: &domain.PingOptions{}})

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Zero(t, apiErr.StatusCode)
		assert.Error(t, apiErr.Err)
	})

	t.Run("response without id is invalid", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, nil).Submit(context.Background(), &domain.MeasurementRequest{Type: domain.PingCommand, Options: &domain.PingOptions{}})
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestFetch(t *testing.T) {
	t.Run("decodes the measurement and keeps the raw body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/measurements/abc123", r.URL.Path)
			w.Write([]byte(finishedMeasurement))
		}))
		defer server.Close()

		result, err := newTestClient(server.URL, nil).Fetch(context.Background(), "abc123")
		require.NoError(t, err)
		assert.True(t, result.IsTerminal())
		require.Len(t, result.Results, 1)
		assert.Equal(t, "Berlin", result.Results[0].Probe.City)
		assert.Equal(t, 3320, result.Results[0].Probe.ASN)
		assert.Equal(t, "PING example.com", result.Results[0].Result.RawOutput)
		assert.JSONEq(t, finishedMeasurement, string(result.Raw))
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		_, err := newTestClient(server.URL, nil).Fetch(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrMeasurementNotFound)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})

	t.Run("decodes brotli bodies", func(t *testing.T) {
		var compressed bytes.Buffer
		bw := brotli.NewWriter(&compressed)
		_, err := io.WriteString(bw, finishedMeasurement)
		require.NoError(t, err)
		require.NoError(t, bw.Close())

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "br")
			w.Write(compressed.Bytes())
		}))
		defer server.Close()

		result, err := newTestClient(server.URL, nil).Fetch(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, "abc123", result.ID)
	})

	t.Run("revalidates with the cached etag", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if r.Header.Get("If-None-Match") == `"v1"` {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("ETag", `"v1"`)
			w.Write([]byte(finishedMeasurement))
		}))
		defer server.Close()

		client := newTestClient(server.URL, &mapCache{})
		first, err := client.Fetch(context.Background(), "abc123")
		require.NoError(t, err)
		second, err := client.Fetch(context.Background(), "abc123")
		require.NoError(t, err)

		assert.Equal(t, 2, calls)
		assert.Equal(t, first.Results, second.Results)
	})

	t.Run("304 without a cached body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotModified)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, nil).Fetch(context.Background(), "abc123")
		assert.ErrorIs(t, err, ErrNotModifiedUncached)
	})

	t.Run("invalid body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, nil).Fetch(context.Background(), "abc123")
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(finishedMeasurement))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestClient(server.URL, nil).Fetch(ctx, "abc123")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "1 second", formatSeconds(1))
	assert.Equal(t, "45 seconds", formatSeconds(45))
	assert.Equal(t, "1 minute", formatSeconds(60))
	assert.Equal(t, "2 hours", formatSeconds(7200))
}
