package weather

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
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

const providerName = "openweathermap"

// Reasons carried by the error-indicator payload.
const (
	ReasonNotConfigured = "service not configured"
	ReasonNoData        = "data not available"
	ReasonUnavailable   = "service unavailable"
)

const maxPayloadBytes = 1 << 20

var _ Provider = (*Client)(nil)

// Provider returns the current weather for a city name. The result is one of
// three outcomes (see types.Weather) and a lookup never fails outright.
type Provider interface {
	GetWeather(ctx context.Context, cityName string) types.Weather
}

type Client struct {
	baseURL    string
	apiKey     string
	units      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.WeatherConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		units:      cfg.Units,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) GetWeather(ctx context.Context, cityName string) types.Weather {
	ctx, span := otel.Tracer("WeatherClient").Start(ctx, "GetWeather", trace.WithAttributes(
		attribute.String("city.name", cityName),
	))
	defer span.End()

	l := c.logger.With(slog.String("provider", providerName), slog.String("city", cityName))

	if c.apiKey == "" {
		l.WarnContext(ctx, "OpenWeatherMap API key not configured")
		record(ctx, "not_configured", 0)
		span.SetStatus(codes.Error, "Weather provider not configured")
		return types.WeatherFailure(ReasonNotConfigured)
	}

	start := time.Now()
	w, err := c.fetch(ctx, cityName)
	record(ctx, w.Status.String(), time.Since(start))

	if err != nil {
		l.WarnContext(ctx, "Weather lookup degraded",
			slog.String("outcome", w.Status.String()),
			slog.String("reason", w.Reason),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Weather lookup failed")
		return w
	}

	span.SetStatus(codes.Ok, "Weather retrieved")
	return w
}

// fetch maps every failure to its outcome: no response at all is
// Unavailable, anything received but unusable is an error indicator.
func (c *Client) fetch(ctx context.Context, cityName string) (types.Weather, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint, err := c.endpoint(cityName)
	if err != nil {
		return types.WeatherFailure(ReasonUnavailable), err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.WeatherFailure(ReasonUnavailable), fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error repeats the request URL, which carries the api key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return types.NoWeather(), fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		return types.WeatherFailure(ReasonNoData), fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return types.WeatherFailure(ReasonUnavailable), fmt.Errorf("failed to read response: %w", err)
	}
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return types.WeatherFailure(ReasonUnavailable), errors.New("response is not valid JSON")
	}
	if bytes.Equal(body, []byte("null")) {
		return types.NoWeather(), errors.New("response body is null")
	}

	return types.WeatherSuccess(json.RawMessage(body)), nil
}

func (c *Client) endpoint(cityName string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid weather base url: %w", err)
	}
	q := u.Query()
	q.Set("q", cityName)
	q.Set("appid", c.apiKey)
	if c.units != "" {
		q.Set("units", c.units)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func record(ctx context.Context, outcome string, elapsed time.Duration) {
	m := metrics.Get()
	attrs := metric.WithAttributes(
		attribute.String("provider", providerName),
		attribute.String("outcome", outcome),
	)
	m.ExternalRequestsTotal.Add(ctx, 1, attrs)
	if elapsed > 0 {
		m.ExternalDurationSeconds.Record(ctx, elapsed.Seconds(), attrs)
	}
}
