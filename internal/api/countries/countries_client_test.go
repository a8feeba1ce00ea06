package countries

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/city-management-api/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(config.CountriesConfig{BaseURL: srv.URL + "/v3.1/name", Timeout: time.Second}, srv.Client(), logger)
}

func TestClient_GetCountryInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("success uses first country and first currency", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v3.1/name/France", r.URL.Path)
			assert.Equal(t, "cca2,cca3,currencies", r.URL.Query().Get("fields"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"cca2":"FR","cca3":"FRA","currencies":{"EUR":{"name":"Euro","symbol":"€"}}},
				{"cca2":"PF","cca3":"PYF","currencies":{"XPF":{"name":"CFP franc"}}}
			]`))
		})

		info := client.GetCountryInfo(ctx, "France")
		require.NotNil(t, info)
		assert.Equal(t, "FR", info.Country2Code)
		assert.Equal(t, "FRA", info.Country3Code)
		assert.Equal(t, "EUR", info.CurrencyCode)
	})

	t.Run("currency order follows the document", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"cca2":"ZW","cca3":"ZWE","currencies":{"ZWL":{},"BWP":{},"USD":{}}}]`))
		})

		info := client.GetCountryInfo(ctx, "Zimbabwe")
		require.NotNil(t, info)
		assert.Equal(t, "ZWL", info.CurrencyCode)
	})

	t.Run("no currencies leaves the code empty", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"cca2":"AQ","cca3":"ATA","currencies":{}}]`))
		})

		info := client.GetCountryInfo(ctx, "Antarctica")
		require.NotNil(t, info)
		assert.Equal(t, "AQ", info.Country2Code)
		assert.Empty(t, info.CurrencyCode)
	})

	t.Run("country names are path escaped", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v3.1/name/United%20Kingdom", r.URL.EscapedPath())
			_, _ = w.Write([]byte(`[{"cca2":"GB","cca3":"GBR","currencies":{"GBP":{}}}]`))
		})

		info := client.GetCountryInfo(ctx, "United Kingdom")
		require.NotNil(t, info)
		assert.Equal(t, "GBP", info.CurrencyCode)
	})

	t.Run("404 is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 404, "message": "Not Found"})
		})

		assert.Nil(t, client.GetCountryInfo(ctx, "Narnia"))
	})

	t.Run("server error is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		assert.Nil(t, client.GetCountryInfo(ctx, "France"))
	})

	t.Run("malformed body is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"an array"`))
		})

		assert.Nil(t, client.GetCountryInfo(ctx, "France"))
	})

	t.Run("empty array is not found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		assert.Nil(t, client.GetCountryInfo(ctx, "France"))
	})

	t.Run("slow upstream hits the per-call timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)
		client := NewClient(config.CountriesConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))

		assert.Nil(t, client.GetCountryInfo(ctx, "France"))
	})

	t.Run("transport failure is not found", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		baseURL := srv.URL
		srv.Close()
		client := NewClient(config.CountriesConfig{BaseURL: baseURL, Timeout: time.Second}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

		assert.Nil(t, client.GetCountryInfo(ctx, "France"))
	})

	t.Run("blank name skips the call", func(t *testing.T) {
		called := false
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		assert.Nil(t, client.GetCountryInfo(ctx, "  "))
		assert.False(t, called)
	})
}

func TestFirstCurrencyCode(t *testing.T) {
	assert.Equal(t, "EUR", firstCurrencyCode(json.RawMessage(`{"EUR":{"name":"Euro"}}`)))
	assert.Empty(t, firstCurrencyCode(nil))
	assert.Empty(t, firstCurrencyCode(json.RawMessage(`null`)))
	assert.Empty(t, firstCurrencyCode(json.RawMessage(`{}`)))
	assert.Empty(t, firstCurrencyCode(json.RawMessage(`["EUR"]`)))
}
