package city

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/city-management-api/internal/api"
	"github.com/FACorreiaa/city-management-api/internal/types"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewCityHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// SearchCities godoc
// @Summary      Search for cities
// @Description  Search for cities by name. Returns local data supplemented with country and weather data, or external-only data if no local city matches.
// @Tags         Cities
// @Produce      json
// @Param        name query string true "Case-insensitive substring of the city name"
// @Success      200 {array} types.CityResponse "Matching cities (possibly empty)"
// @Failure      400 {object} api.Response "Missing name"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities/search [get]
func (h *Handler) SearchCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "SearchCities", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchCities"))
	name := r.URL.Query().Get("name")

	results, err := h.service.SearchCities(ctx, name)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			l.InfoContext(ctx, "Rejected search without name")
			span.SetStatus(codes.Error, "Missing name")
			api.ErrorResponse(w, r, http.StatusBadRequest, "Name parameter is required")
			return
		}
		l.ErrorContext(ctx, "Failed to search cities", slog.String("name", name), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "An error occurred while searching for cities")
		return
	}

	span.SetAttributes(attribute.Int("results.count", len(results)))
	span.SetStatus(codes.Ok, "Cities searched")
	api.WriteJSONResponse(w, r, http.StatusOK, results)
}

// CreateCity godoc
// @Summary      Create a new city
// @Description  Creates a new city record in the database
// @Tags         Cities
// @Accept       json
// @Produce      json
// @Param        city body types.CreateCityRequest true "City to create"
// @Success      201 {object} types.CityResponse "Created city"
// @Failure      400 {object} api.ValidationProblem "Validation problem"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /cities [post]
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "CreateCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreateCity"))

	var req types.CreateCityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateCity(ctx, req)
	if err != nil {
		h.writeServiceError(w, r, span, l, err, "An error occurred while creating the city")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/cities/%d", *created.ID))
	span.SetStatus(codes.Ok, "City created")
	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// GetCity godoc
// @Summary      Get a city
// @Description  Returns a stored city by id
// @Tags         Cities
// @Produce      json
// @Param        id path int true "City ID"
// @Success      200 {object} types.CityResponse "City"
// @Failure      400 {object} api.Response "Invalid id"
// @Failure      404 {object} api.Response "City not found"
// @Router       /cities/{id} [get]
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "GetCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetCity"))

	id, ok := h.cityID(w, r, span, l)
	if !ok {
		return
	}

	city, err := h.service.GetCity(ctx, id)
	if err != nil {
		h.writeServiceError(w, r, span, l, err, "An error occurred while fetching the city")
		return
	}

	span.SetStatus(codes.Ok, "City fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, city)
}

// UpdateCity godoc
// @Summary      Update an existing city
// @Description  Updates tourist rating, date established, and estimated population of an existing city
// @Tags         Cities
// @Accept       json
// @Produce      json
// @Param        id path int true "City ID"
// @Param        city body types.UpdateCityRequest true "Mutable fields"
// @Success      200 {object} types.CityResponse "Updated city"
// @Failure      400 {object} api.ValidationProblem "Validation problem"
// @Failure      404 {object} api.Response "City not found"
// @Router       /cities/{id} [put]
func (h *Handler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "UpdateCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdateCity"))

	id, ok := h.cityID(w, r, span, l)
	if !ok {
		return
	}

	var req types.UpdateCityRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.UpdateCity(ctx, id, req)
	if err != nil {
		h.writeServiceError(w, r, span, l, err, "An error occurred while updating the city")
		return
	}

	span.SetStatus(codes.Ok, "City updated")
	api.WriteJSONResponse(w, r, http.StatusOK, updated)
}

// DeleteCity godoc
// @Summary      Delete a city
// @Description  Removes a city record from the database
// @Tags         Cities
// @Param        id path int true "City ID"
// @Success      204 "No Content"
// @Failure      404 {object} api.Response "City not found"
// @Router       /cities/{id} [delete]
func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "DeleteCity", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/cities/{id}"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "DeleteCity"))

	id, ok := h.cityID(w, r, span, l)
	if !ok {
		return
	}

	if err := h.service.DeleteCity(ctx, id); err != nil {
		h.writeServiceError(w, r, span, l, err, "An error occurred while deleting the city")
		return
	}

	span.SetStatus(codes.Ok, "City deleted")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}

func (h *Handler) cityID(w http.ResponseWriter, r *http.Request, span trace.Span, l *slog.Logger) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		l.WarnContext(r.Context(), "Invalid city ID in URL path", slog.String("id", idStr))
		span.SetStatus(codes.Error, "Invalid city ID")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid city ID")
		return 0, false
	}
	span.SetAttributes(attribute.Int64("city.id", id))
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, span trace.Span, l *slog.Logger, err error, fallback string) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		span.SetStatus(codes.Error, "Validation failed")
		api.ValidationErrorResponse(w, r, validationErr.Fields)
	case errors.Is(err, ErrNotFound):
		span.SetStatus(codes.Error, "City not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "City not found")
	default:
		l.ErrorContext(r.Context(), "Service operation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service operation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
	}
}
