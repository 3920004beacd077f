package weather

import (
	"errors"
	"testing"
	"time"

	"github.com/chadmayfield/weatherd/internal/openweather"
)

func fullConditions() *openweather.Conditions {
	return &openweather.Conditions{
		Name:  "London",
		Coord: &openweather.Coord{Lat: 51.51, Lon: -0.13},
		Main: &openweather.Main{
			Temp:      18.46,
			FeelsLike: 17.92,
			Pressure:  1012,
			Humidity:  72,
		},
		Weather: []openweather.Weather{
			{ID: 803, Main: "Clouds", Description: "broken clouds"},
		},
		Wind:       &openweather.Wind{Speed: 10.0},
		Visibility: 10000,
		Sys: &openweather.Sys{
			Country: "GB",
			Sunrise: 1000,
			Sunset:  100000,
		},
	}
}

func TestNormalize(t *testing.T) {
	now := time.Unix(50000, 0)

	rep, err := Normalize(fullConditions(), now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if rep.Location != "London" {
		t.Errorf("location = %q, want %q", rep.Location, "London")
	}
	if rep.Temperature != 18 {
		t.Errorf("temperature = %d, want 18", rep.Temperature)
	}
	if rep.FeelsLike != 18 {
		t.Errorf("feels_like = %d, want 18", rep.FeelsLike)
	}
	if rep.WindSpeed != 36 {
		t.Errorf("wind_speed = %d, want 36 (10 m/s in km/h)", rep.WindSpeed)
	}
	if rep.Visibility != 10 {
		t.Errorf("visibility = %d, want 10 (10000 m in km)", rep.Visibility)
	}
	if rep.Condition != ConditionClouds {
		t.Errorf("condition = %q, want clouds", rep.Condition)
	}
	if !rep.IsDay {
		t.Error("is_day = false, want true (now between sunrise and sunset)")
	}
	if rep.Country != "GB" {
		t.Errorf("country = %q, want GB", rep.Country)
	}
	if rep.Coord.Lat != 51.51 || rep.Coord.Lon != -0.13 {
		t.Errorf("coord = %+v, want {51.51 -0.13}", rep.Coord)
	}
	if rep.Humidity != 72 || rep.Pressure != 1012 {
		t.Errorf("humidity/pressure = %d/%d, want 72/1012", rep.Humidity, rep.Pressure)
	}
}

func TestNormalize_RoundsHalfUp(t *testing.T) {
	c := fullConditions()
	c.Main.Temp = 18.5
	c.Wind.Speed = 2.5 // 9 km/h exactly

	rep, err := Normalize(c, time.Unix(50000, 0))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Temperature != 19 {
		t.Errorf("temperature = %d, want 19", rep.Temperature)
	}
	if rep.WindSpeed != 9 {
		t.Errorf("wind_speed = %d, want 9", rep.WindSpeed)
	}
}

func TestNormalize_TruncatesVisibility(t *testing.T) {
	c := fullConditions()
	c.Visibility = 9999

	rep, err := Normalize(c, time.Unix(50000, 0))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Visibility != 9 {
		t.Errorf("visibility = %d, want 9 (truncating)", rep.Visibility)
	}
}

func TestNormalize_OptionalFieldDefaults(t *testing.T) {
	c := fullConditions()
	c.Wind = nil
	c.Visibility = 0
	c.Sys = nil
	c.Name = ""

	now := time.Unix(50000, 0)
	rep, err := Normalize(c, now)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if rep.WindSpeed != 0 {
		t.Errorf("wind_speed = %d, want 0", rep.WindSpeed)
	}
	if rep.Visibility != 0 {
		t.Errorf("visibility = %d, want 0", rep.Visibility)
	}
	if rep.Country != "" {
		t.Errorf("country = %q, want empty", rep.Country)
	}
	if rep.Location != "Unknown Location" {
		t.Errorf("location = %q, want %q", rep.Location, "Unknown Location")
	}
	// Missing sunrise/sunset default to now, making the check
	// vacuously true.
	if !rep.IsDay {
		t.Error("is_day = false, want true when sunrise/sunset are absent")
	}
}

func TestNormalize_NightOutsideSunWindow(t *testing.T) {
	c := fullConditions()

	rep, err := Normalize(c, time.Unix(999, 0)) // one second before sunrise
	if err != nil {
		t.Fatal(err)
	}
	if rep.IsDay {
		t.Error("is_day = true, want false before sunrise")
	}
}

func TestNormalize_MalformedPayload(t *testing.T) {
	now := time.Unix(50000, 0)

	cases := map[string]*openweather.Conditions{
		"nil payload": nil,
		"missing main": func() *openweather.Conditions {
			c := fullConditions()
			c.Main = nil
			return c
		}(),
		"empty weather list": func() *openweather.Conditions {
			c := fullConditions()
			c.Weather = nil
			return c
		}(),
		"missing coord": func() *openweather.Conditions {
			c := fullConditions()
			c.Coord = nil
			return c
		}(),
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Normalize(c, now); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("err = %v, want ErrMalformedPayload", err)
			}
		})
	}
}
