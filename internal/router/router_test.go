package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/city-management-api/config"
	"github.com/FACorreiaa/city-management-api/internal/api/city"
)

func setupRouterTest() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Only requests rejected before reaching the store are exercised here.
	service := city.NewCityService(nil, nil, nil, config.SearchConfig{}, logger)
	return SetupRouter(&Config{CityHandler: city.NewCityHandler(service, logger)})
}

func TestSetupRouter(t *testing.T) {
	router := setupRouterTest()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"ping", http.MethodGet, "/ping", http.StatusOK},
		{"search without name", http.MethodGet, "/api/v1/cities/search", http.StatusBadRequest},
		{"search with blank name", http.MethodGet, "/api/v1/cities/search?name=%20%20", http.StatusBadRequest},
		{"get with bad id", http.MethodGet, "/api/v1/cities/abc", http.StatusBadRequest},
		{"delete with bad id", http.MethodDelete, "/api/v1/cities/0", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v2/cities", http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/api/v1/cities/1", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestSetupRouter_CORSPreflight(t *testing.T) {
	router := setupRouterTest()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cities/search", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "http://example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}
