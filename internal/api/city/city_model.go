package city

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/FACorreiaa/city-management-api/internal/types"
)

var ErrNotFound = errors.New("city not found")
var ErrInvalidArgument = errors.New("invalid argument")
var ErrValidation = errors.New("validation failed")

const maxTextLength = 100

// ValidationError lists every invalid field of a request, keyed by its JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validateCreate(req types.CreateCityRequest) error {
	fields := map[string]string{}
	requireText(fields, "name", req.Name)
	requireText(fields, "state", req.State)
	requireText(fields, "country", req.Country)
	validateMutable(fields, req.TouristRating, req.DateEstablished.IsZero(), req.EstimatedPopulation)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateUpdate(req types.UpdateCityRequest) error {
	fields := map[string]string{}
	validateMutable(fields, req.TouristRating, req.DateEstablished.IsZero(), req.EstimatedPopulation)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func requireText(fields map[string]string, name, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		fields[name] = "is required"
	case utf8.RuneCountInString(value) > maxTextLength:
		fields[name] = fmt.Sprintf("must be at most %d characters", maxTextLength)
	}
}

func validateMutable(fields map[string]string, rating int, dateMissing bool, population int64) {
	if rating < 1 || rating > 5 {
		fields["touristRating"] = "must be between 1 and 5"
	}
	if dateMissing {
		fields["dateEstablished"] = "is required"
	}
	if population < 0 {
		fields["estimatedPopulation"] = "must not be negative"
	}
}
