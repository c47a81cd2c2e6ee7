package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Unit is the temperature unit requested by a caller. It is part of the cache
// key, so the same city in different units is cached independently.
type Unit string

const (
	UnitCentigrade Unit = "centigrade"
	UnitFahrenheit Unit = "fahrenheit"
	UnitKelvin     Unit = "kelvin"
)

// providerUnits maps our unit names onto the OpenWeather "units" parameter.
var providerUnits = map[Unit]string{
	UnitCentigrade: "metric",
	UnitFahrenheit: "imperial",
	UnitKelvin:     "standard",
}

// ParseUnit normalizes and validates a unit string.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := providerUnits[u]; !ok {
		return "", fmt.Errorf("unknown unit %q (want centigrade, fahrenheit or kelvin)", s)
	}
	return u, nil
}

// MaxCityLen bounds the accepted city name length.
const MaxCityLen = 100

var (
	ErrEmptyCity   = errors.New("weather: city must not be empty")
	ErrCityTooLong = errors.New("weather: city name too long")
)

// Key derives the cache key for a city/unit pair. Case and surrounding
// whitespace are normalized away so "London", "london" and " LONDON " share
// one entry per unit.
func Key(city string, unit Unit) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + string(unit)
}

// Report is the trimmed view of a provider payload that the service returns.
// Reports are immutable once built; they are shared between concurrent
// readers straight out of the cache.
type Report struct {
	City    string          `json:"city"`
	Country string          `json:"country,omitempty"`
	Unit    Unit            `json:"unit"`
	Weather Conditions      `json:"weather"`
	Main    Readings        `json:"main"`
	Wind    *Wind           `json:"wind,omitempty"`
	Sys     *Sys            `json:"sys,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// Conditions is the short weather summary block.
type Conditions struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Readings holds the numeric observations, in the requested unit.
type Readings struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int64   `json:"pressure"`
	Humidity  int64   `json:"humidity"`
}

type Wind struct {
	Speed float64 `json:"speed"`
	Deg   *int64  `json:"deg,omitempty"`
}

type Sys struct {
	Country string `json:"country,omitempty"`
	Sunrise int64  `json:"sunrise,omitempty"`
	Sunset  int64  `json:"sunset,omitempty"`
}
