package countries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/city-management-api/app/observability/metrics"
	"github.com/FACorreiaa/city-management-api/config"
	"github.com/FACorreiaa/city-management-api/internal/types"
)

const providerName = "restcountries"

var _ Provider = (*Client)(nil)

// Provider looks up country metadata by display name. It never fails: a nil
// result means the country could not be resolved for whatever reason.
type Provider interface {
	GetCountryInfo(ctx context.Context, countryName string) *types.CountryInfo
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// country is one element of the restcountries response, restricted to the
// fields we request.
type country struct {
	Cca2       string          `json:"cca2"`
	Cca3       string          `json:"cca3"`
	Currencies json.RawMessage `json:"currencies"`
}

func NewClient(cfg config.CountriesConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) GetCountryInfo(ctx context.Context, countryName string) *types.CountryInfo {
	ctx, span := otel.Tracer("CountriesClient").Start(ctx, "GetCountryInfo", trace.WithAttributes(
		attribute.String("country.name", countryName),
	))
	defer span.End()

	l := c.logger.With(slog.String("provider", providerName), slog.String("country", countryName))
	start := time.Now()

	info, outcome, err := c.fetch(ctx, countryName)
	record(ctx, outcome, time.Since(start))

	if err != nil {
		l.WarnContext(ctx, "Country info unavailable", slog.String("outcome", outcome), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Country lookup failed")
		return nil
	}
	if info == nil {
		l.InfoContext(ctx, "Country not found upstream")
		span.SetStatus(codes.Ok, "Country not found")
		return nil
	}

	span.SetAttributes(attribute.String("country.cca2", info.Country2Code))
	span.SetStatus(codes.Ok, "Country info retrieved")
	return info
}

func (c *Client) fetch(ctx context.Context, countryName string) (*types.CountryInfo, string, error) {
	if strings.TrimSpace(countryName) == "" {
		return nil, "not_found", nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := fmt.Sprintf("%s/%s?fields=cca2,cca3,currencies", c.baseURL, url.PathEscape(countryName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "error", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "error", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "not_found", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "error", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var found []country
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		return nil, "error", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(found) == 0 {
		return nil, "not_found", nil
	}

	first := found[0]
	return &types.CountryInfo{
		Country2Code: first.Cca2,
		Country3Code: first.Cca3,
		CurrencyCode: firstCurrencyCode(first.Currencies),
	}, "ok", nil
}

// firstCurrencyCode returns the first key of the currencies object in
// document order, which a map decode would lose.
func firstCurrencyCode(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return ""
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ""
	}
	if !dec.More() {
		return ""
	}
	tok, err = dec.Token()
	if err != nil {
		return ""
	}
	code, _ := tok.(string)
	return code
}

func record(ctx context.Context, outcome string, elapsed time.Duration) {
	m := metrics.Get()
	attrs := metric.WithAttributes(
		attribute.String("provider", providerName),
		attribute.String("outcome", outcome),
	)
	m.ExternalRequestsTotal.Add(ctx, 1, attrs)
	m.ExternalDurationSeconds.Record(ctx, elapsed.Seconds(), attrs)
}
