package weather

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/city-management-api/config"
	"github.com/FACorreiaa/city-management-api/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.WeatherConfig{
		BaseURL: srv.URL + "/data/2.5/weather",
		APIKey:  apiKey,
		Units:   "metric",
		Timeout: time.Second,
	}
	return NewClient(cfg, srv.Client(), discardLogger())
}

func TestClient_GetWeather(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns the payload verbatim", func(t *testing.T) {
		payload := `{"name":"Paris","main":{"temp":18.2},"weather":[{"main":"Clouds"}]}`
		client := newTestClient(t, "key-123", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/data/2.5/weather", r.URL.Path)
			assert.Equal(t, "Paris", r.URL.Query().Get("q"))
			assert.Equal(t, "key-123", r.URL.Query().Get("appid"))
			assert.Equal(t, "metric", r.URL.Query().Get("units"))
			_, _ = w.Write([]byte(payload + "\n"))
		})

		got := client.GetWeather(ctx, "Paris")
		assert.Equal(t, types.WeatherOK, got.Status)
		assert.JSONEq(t, payload, string(got.Payload))
	})

	t.Run("missing api key is not configured without calling upstream", func(t *testing.T) {
		called := false
		client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		got := client.GetWeather(ctx, "Paris")
		assert.Equal(t, types.WeatherFailure(ReasonNotConfigured), got)
		assert.False(t, called)
	})

	t.Run("non-success status is data not available", func(t *testing.T) {
		client := newTestClient(t, "key-123", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		})

		got := client.GetWeather(ctx, "Atlantis")
		assert.Equal(t, types.WeatherFailure(ReasonNoData), got)
	})

	t.Run("unparsable body is service unavailable", func(t *testing.T) {
		client := newTestClient(t, "key-123", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>gateway</html>`))
		})

		got := client.GetWeather(ctx, "Paris")
		assert.Equal(t, types.WeatherFailure(ReasonUnavailable), got)
	})

	t.Run("null body yields no weather", func(t *testing.T) {
		client := newTestClient(t, "key-123", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`null`))
		})

		got := client.GetWeather(ctx, "Paris")
		assert.False(t, got.Available())
	})

	t.Run("transport failure yields no weather", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		baseURL := srv.URL
		srv.Close()

		client := NewClient(config.WeatherConfig{BaseURL: baseURL, APIKey: "key-123", Timeout: time.Second}, nil, discardLogger())

		got := client.GetWeather(ctx, "Paris")
		assert.Equal(t, types.WeatherUnavailable, got.Status)
	})

	t.Run("timeout yields no weather", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)

		client := NewClient(config.WeatherConfig{BaseURL: srv.URL, APIKey: "key-123", Timeout: 50 * time.Millisecond}, srv.Client(), discardLogger())

		got := client.GetWeather(ctx, "Paris")
		assert.Equal(t, types.WeatherUnavailable, got.Status)
	})
}

func TestClient_Endpoint(t *testing.T) {
	client := NewClient(config.WeatherConfig{
		BaseURL: "https://api.openweathermap.org/data/2.5/weather",
		APIKey:  "abc",
		Units:   "metric",
	}, nil, discardLogger())

	endpoint, err := client.endpoint("São Paulo")
	require.NoError(t, err)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/weather?appid=abc&q=S%C3%A3o+Paulo&units=metric", endpoint)
}
