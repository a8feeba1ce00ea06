package models

import (
	"time"
)

// City represents a city in the catalog
type City struct {
	ID                  int64     `json:"id" db:"id"`
	Name                string    `json:"name" db:"name"`
	State               string    `json:"state" db:"state"`
	Country             string    `json:"country" db:"country"`
	TouristRating       int       `json:"touristRating" db:"tourist_rating"`
	DateEstablished     time.Time `json:"dateEstablished" db:"date_established"`
	EstimatedPopulation int64     `json:"estimatedPopulation" db:"estimated_population"`
}

// NewCity creates a city that has not been persisted yet (ID is zero)
func NewCity(name, state, country string, touristRating int, dateEstablished time.Time, estimatedPopulation int64) *City {
	return &City{
		Name:                name,
		State:               state,
		Country:             country,
		TouristRating:       touristRating,
		DateEstablished:     dateEstablished,
		EstimatedPopulation: estimatedPopulation,
	}
}
