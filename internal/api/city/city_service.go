package city

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/city-management-api/config"
	"github.com/FACorreiaa/city-management-api/internal/api/countries"
	"github.com/FACorreiaa/city-management-api/internal/api/weather"
	"github.com/FACorreiaa/city-management-api/internal/models"
	"github.com/FACorreiaa/city-management-api/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for city operations.
type Service interface {
	// SearchCities returns stored cities whose name contains query, enriched
	// with country and weather data, or a single external-only result when
	// nothing is stored under that name.
	SearchCities(ctx context.Context, query string) ([]types.CityResponse, error)

	CreateCity(ctx context.Context, req types.CreateCityRequest) (*types.CityResponse, error)
	GetCity(ctx context.Context, id int64) (*types.CityResponse, error)
	UpdateCity(ctx context.Context, id int64, req types.UpdateCityRequest) (*types.CityResponse, error)
	DeleteCity(ctx context.Context, id int64) error
}

type ServiceImpl struct {
	logger               *slog.Logger
	repo                 CityRepository
	countries            countries.Provider
	weather              weather.Provider
	maxConcurrentLookups int
}

func NewCityService(repo CityRepository,
	countryProvider countries.Provider,
	weatherProvider weather.Provider,
	cfg config.SearchConfig,
	logger *slog.Logger) *ServiceImpl {
	limit := cfg.MaxConcurrentLookups
	if limit <= 0 {
		limit = 8
	}
	return &ServiceImpl{
		logger:               logger,
		repo:                 repo,
		countries:            countryProvider,
		weather:              weatherProvider,
		maxConcurrentLookups: limit,
	}
}

func (s *ServiceImpl) CreateCity(ctx context.Context, req types.CreateCityRequest) (*types.CityResponse, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "CreateCity", trace.WithAttributes(
		attribute.String("city.name", req.Name),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateCity"), slog.String("name", req.Name))

	if err := validateCreate(req); err != nil {
		l.InfoContext(ctx, "Rejected invalid city", slog.Any("error", err))
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	city := models.NewCity(strings.TrimSpace(req.Name), strings.TrimSpace(req.State), strings.TrimSpace(req.Country),
		req.TouristRating, req.DateEstablished, req.EstimatedPopulation)

	id, err := s.repo.Insert(ctx, *city)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create city")
		return nil, fmt.Errorf("error creating city: %w", err)
	}
	city.ID = id

	l.InfoContext(ctx, "Created city", slog.Int64("cityID", id))
	span.SetStatus(codes.Ok, "City created")
	resp := types.NewCityResponse(*city)
	return &resp, nil
}

func (s *ServiceImpl) GetCity(ctx context.Context, id int64) (*types.CityResponse, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCity", trace.WithAttributes(
		attribute.Int64("city.id", id),
	))
	defer span.End()

	city, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.ErrorContext(ctx, "Failed to fetch city", slog.Int64("cityID", id), slog.Any("error", err))
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "Failed to fetch city")
		return nil, fmt.Errorf("error fetching city %d: %w", id, err)
	}

	span.SetStatus(codes.Ok, "City fetched")
	resp := types.NewCityResponse(*city)
	return &resp, nil
}

func (s *ServiceImpl) UpdateCity(ctx context.Context, id int64, req types.UpdateCityRequest) (*types.CityResponse, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "UpdateCity", trace.WithAttributes(
		attribute.Int64("city.id", id),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateCity"), slog.Int64("cityID", id))

	if err := validateUpdate(req); err != nil {
		l.InfoContext(ctx, "Rejected invalid city update", slog.Any("error", err))
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	city, err := s.repo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.WarnContext(ctx, "City not found")
		} else {
			l.ErrorContext(ctx, "Failed to update city", slog.Any("error", err))
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "Failed to update city")
		return nil, fmt.Errorf("error updating city: %w", err)
	}

	l.InfoContext(ctx, "Updated city", slog.String("name", city.Name))
	span.SetStatus(codes.Ok, "City updated")
	resp := types.NewCityResponse(*city)
	return &resp, nil
}

func (s *ServiceImpl) DeleteCity(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("CityService").Start(ctx, "DeleteCity", trace.WithAttributes(
		attribute.Int64("city.id", id),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "DeleteCity"), slog.Int64("cityID", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			l.WarnContext(ctx, "City not found")
		} else {
			l.ErrorContext(ctx, "Failed to delete city", slog.Any("error", err))
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, "Failed to delete city")
		return fmt.Errorf("error deleting city: %w", err)
	}

	l.InfoContext(ctx, "Deleted city")
	span.SetStatus(codes.Ok, "City deleted")
	return nil
}
