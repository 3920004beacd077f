package store

import (
	"context"
	"time"
)

// Store defines the interface for cached weather storage.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	// FindByCity retrieves the cached reading for a normalized
	// (trimmed, lowercased) city name. Returns nil, nil when absent.
	FindByCity(ctx context.Context, city string) (*CityWeather, error)

	// Upsert stores a reading, keyed by the unique city column.
	// Existing rows are overwritten in place and last_updated is
	// refreshed.
	Upsert(ctx context.Context, w *CityWeather) error

	// ListCities retrieves every cached reading, ordered by city.
	ListCities(ctx context.Context) ([]CityWeather, error)

	// Close closes the database connection.
	Close() error
}

// CityWeather is the database model for one cached city reading.
// City is the normalized lookup key; Location preserves the display
// name the provider reported. Sunrise and Sunset are epoch seconds so
// the day/night flag can be recomputed at serve time.
type CityWeather struct {
	ID          int64
	City        string
	Location    string
	Description string
	Temperature int
	FeelsLike   int
	Humidity    int
	WindSpeed   int
	Pressure    int
	Condition   string
	Visibility  int
	Country     string
	Lat         float64
	Lon         float64
	Sunrise     int64
	Sunset      int64
	LastUpdated time.Time
}
