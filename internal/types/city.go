package types

import (
	"time"

	"github.com/FACorreiaa/city-management-api/internal/models"
)

// UnknownCountry is reported for external-only search results, which have
// no stored record to take the country from.
const UnknownCountry = "Unknown"

// CreateCityRequest is the body of POST /cities.
type CreateCityRequest struct {
	Name                string    `json:"name" example:"Paris"`
	State               string    `json:"state" example:"Ile-de-France"`
	Country             string    `json:"country" example:"France"`
	TouristRating       int       `json:"touristRating" example:"5"`
	DateEstablished     time.Time `json:"dateEstablished" example:"0508-01-01T00:00:00Z"`
	EstimatedPopulation int64     `json:"estimatedPopulation" example:"2100000"`
}

// UpdateCityRequest is the body of PUT /cities/{id}. Name, state and country
// cannot change after creation.
type UpdateCityRequest struct {
	TouristRating       int       `json:"touristRating" example:"4"`
	DateEstablished     time.Time `json:"dateEstablished" example:"0508-01-01T00:00:00Z"`
	EstimatedPopulation int64     `json:"estimatedPopulation" example:"2150000"`
}

// CityResponse is returned by the CRUD endpoints and is the element type of
// search results. Pointer fields are absent for external-only results.
type CityResponse struct {
	ID                  *int64     `json:"id,omitempty"`
	Name                string     `json:"name"`
	State               *string    `json:"state,omitempty"`
	Country             string     `json:"country"`
	TouristRating       *int       `json:"touristRating,omitempty"`
	DateEstablished     *time.Time `json:"dateEstablished,omitempty"`
	EstimatedPopulation *int64     `json:"estimatedPopulation,omitempty"`
	Country2Code        *string    `json:"country2Code,omitempty"`
	Country3Code        *string    `json:"country3Code,omitempty"`
	CurrencyCode        *string    `json:"currencyCode,omitempty"`
	Weather             *Weather   `json:"weather,omitempty"`
}

// NewCityResponse copies every stored field of city into a response.
func NewCityResponse(city models.City) CityResponse {
	id := city.ID
	state := city.State
	rating := city.TouristRating
	established := city.DateEstablished
	population := city.EstimatedPopulation
	return CityResponse{
		ID:                  &id,
		Name:                city.Name,
		State:               &state,
		Country:             city.Country,
		TouristRating:       &rating,
		DateEstablished:     &established,
		EstimatedPopulation: &population,
	}
}

// WithCountryInfo attaches country codes and currency. A nil info leaves the
// fields absent.
func (r CityResponse) WithCountryInfo(info *CountryInfo) CityResponse {
	if info == nil {
		return r
	}
	c2, c3, currency := info.Country2Code, info.Country3Code, info.CurrencyCode
	r.Country2Code = &c2
	r.Country3Code = &c3
	r.CurrencyCode = &currency
	return r
}

// WithWeather attaches the outcome of a weather lookup.
func (r CityResponse) WithWeather(w Weather) CityResponse {
	r.Weather = &w
	return r
}

// NewExternalCityResponse builds a result with no backing stored city.
func NewExternalCityResponse(name string, w Weather) CityResponse {
	return CityResponse{
		Name:    name,
		Country: UnknownCountry,
	}.WithWeather(w)
}

// CountryInfo is what the country metadata provider knows about a country.
// Each field may independently be empty.
type CountryInfo struct {
	Country2Code string `json:"country2Code"`
	Country3Code string `json:"country3Code"`
	CurrencyCode string `json:"currencyCode"`
}
