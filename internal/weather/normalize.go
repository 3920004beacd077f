package weather

import (
	"errors"
	"math"
	"time"

	"github.com/chadmayfield/weatherd/internal/openweather"
)

// ErrMalformedPayload indicates the provider response is missing a
// field the normalizer requires (main, weather, or coord).
var ErrMalformedPayload = errors.New("malformed provider payload")

// Normalize maps a raw provider payload to the stable Report shape.
// Pure: now is injected so the day/night flag is deterministic.
//
// Conversions: temperatures round to the nearest whole °C, wind speed
// converts from m/s to km/h rounded, visibility truncates meters to km.
func Normalize(c *openweather.Conditions, now time.Time) (Report, error) {
	if c == nil || c.Main == nil || len(c.Weather) == 0 || c.Coord == nil {
		return Report{}, ErrMalformedPayload
	}

	location := c.Name
	if location == "" {
		location = "Unknown Location"
	}

	var windKMH int
	if c.Wind != nil {
		windKMH = int(math.Round(c.Wind.Speed * 3.6))
	}

	var country string
	sunrise, sunset := now.Unix(), now.Unix()
	if c.Sys != nil {
		country = c.Sys.Country
		// Missing sunrise/sunset default to now, so the daytime
		// check is vacuously true.
		if c.Sys.Sunrise != 0 {
			sunrise = c.Sys.Sunrise
		}
		if c.Sys.Sunset != 0 {
			sunset = c.Sys.Sunset
		}
	}

	return Report{
		Location:    location,
		Temperature: int(math.Round(c.Main.Temp)),
		FeelsLike:   int(math.Round(c.Main.FeelsLike)),
		Description: c.Weather[0].Description,
		Humidity:    c.Main.Humidity,
		WindSpeed:   windKMH,
		Pressure:    c.Main.Pressure,
		Condition:   ConditionFromCode(c.Weather[0].ID),
		IsDay:       IsDaytime(sunrise, sunset, now.Unix()),
		Visibility:  c.Visibility / 1000,
		Country:     country,
		Coord:       Coord{Lat: c.Coord.Lat, Lon: c.Coord.Lon},
	}, nil
}
