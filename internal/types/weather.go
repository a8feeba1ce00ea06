package types

import (
	"encoding/json"
)

// WeatherStatus tells which outcome a weather lookup produced.
type WeatherStatus int

const (
	// WeatherUnavailable means no response was obtained at all.
	WeatherUnavailable WeatherStatus = iota
	// WeatherOK carries the provider payload untouched.
	WeatherOK
	// WeatherError is a reachable but unsuccessful lookup, or an unconfigured provider.
	WeatherError
)

func (s WeatherStatus) String() string {
	switch s {
	case WeatherOK:
		return "ok"
	case WeatherError:
		return "error"
	default:
		return "unavailable"
	}
}

// Weather is the outcome of a current-weather lookup. The payload schema is
// owned by the provider and is never interpreted here.
type Weather struct {
	Status  WeatherStatus
	Payload json.RawMessage
	Reason  string
}

func WeatherSuccess(payload json.RawMessage) Weather {
	return Weather{Status: WeatherOK, Payload: payload}
}

func WeatherFailure(reason string) Weather {
	return Weather{Status: WeatherError, Reason: reason}
}

func NoWeather() Weather {
	return Weather{Status: WeatherUnavailable}
}

// Available reports whether the lookup produced something worth returning,
// including an error indicator.
func (w Weather) Available() bool {
	return w.Status != WeatherUnavailable
}

// MarshalJSON writes the raw payload, an {"error": reason} object or null.
func (w Weather) MarshalJSON() ([]byte, error) {
	switch w.Status {
	case WeatherOK:
		if len(w.Payload) == 0 {
			return []byte("null"), nil
		}
		return w.Payload, nil
	case WeatherError:
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: w.Reason})
	default:
		return []byte("null"), nil
	}
}
