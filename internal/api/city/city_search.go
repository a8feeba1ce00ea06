package city

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/city-management-api/app/observability/metrics"
	"github.com/FACorreiaa/city-management-api/internal/models"
	"github.com/FACorreiaa/city-management-api/internal/types"
)

const (
	branchLocal    = "local"
	branchExternal = "external"
)

func (s *ServiceImpl) SearchCities(ctx context.Context, query string) ([]types.CityResponse, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "SearchCities", trace.WithAttributes(
		attribute.String("search.query", query),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SearchCities"), slog.String("query", query))

	if strings.TrimSpace(query) == "" {
		span.SetStatus(codes.Error, "Empty query")
		return nil, fmt.Errorf("%w: name parameter is required", ErrInvalidArgument)
	}

	start := time.Now()
	matches, err := s.repo.FindByNameSubstring(ctx, query)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search local cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Local search failed")
		return nil, fmt.Errorf("error searching cities: %w", err)
	}

	var results []types.CityResponse
	branch := branchLocal
	if len(matches) > 0 {
		results = s.enrichLocal(ctx, query, matches)
		l.InfoContext(ctx, "Found local cities", slog.Int("count", len(matches)))
	} else {
		branch = branchExternal
		results = s.searchExternal(ctx, query)
		l.InfoContext(ctx, "No local cities found, returned external data only", slog.Int("count", len(results)))
	}

	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("branch", branch))
	m.SearchRequestsTotal.Add(ctx, 1, attrs)
	m.SearchDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)

	span.SetAttributes(attribute.String("search.branch", branch), attribute.Int("search.results", len(results)))
	span.SetStatus(codes.Ok, "Search completed")
	return results, nil
}

// enrichLocal looks up country and weather data for every match. Results
// keep the store order whatever order the lookups finish in.
func (s *ServiceImpl) enrichLocal(ctx context.Context, query string, cities []models.City) []types.CityResponse {
	results := make([]types.CityResponse, len(cities))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrentLookups)
	for i, city := range cities {
		g.Go(func() error {
			results[i] = s.enrichCity(ctx, query, city)
			return nil
		})
	}
	// lookups never return errors
	_ = g.Wait()

	return results
}

func (s *ServiceImpl) enrichCity(ctx context.Context, query string, city models.City) types.CityResponse {
	var (
		info *types.CountryInfo
		w    types.Weather
		g    errgroup.Group
	)
	g.Go(func() error {
		info = s.countries.GetCountryInfo(ctx, city.Country)
		return nil
	})
	g.Go(func() error {
		w = s.weather.GetWeather(ctx, city.Name)
		return nil
	})
	_ = g.Wait()

	l := s.logger.With(
		slog.String("query", query),
		slog.Int64("cityID", city.ID),
		slog.String("city", city.Name),
	)
	if info == nil {
		l.WarnContext(ctx, "Country info missing for city", slog.String("provider", "countries"), slog.String("country", city.Country))
	}
	if w.Status != types.WeatherOK {
		l.WarnContext(ctx, "Weather degraded for city", slog.String("provider", "weather"),
			slog.String("outcome", w.Status.String()), slog.String("reason", w.Reason))
	}

	return types.NewCityResponse(city).WithCountryInfo(info).WithWeather(w)
}

// searchExternal treats the query as a city name. An error indicator still
// produces a result; only a lookup with no response at all yields none.
func (s *ServiceImpl) searchExternal(ctx context.Context, query string) []types.CityResponse {
	w := s.weather.GetWeather(ctx, query)
	if !w.Available() {
		s.logger.WarnContext(ctx, "No weather for external-only search",
			slog.String("query", query), slog.String("provider", "weather"))
		return []types.CityResponse{}
	}
	return []types.CityResponse{types.NewExternalCityResponse(query, w)}
}
