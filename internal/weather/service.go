package weather

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chadmayfield/weatherd/internal/openweather"
	"github.com/chadmayfield/weatherd/internal/store"
)

// ErrInvalidQuery indicates a request carried neither a city name nor
// a full coordinate pair.
var ErrInvalidQuery = errors.New("either 'city' or both 'lat' and 'lon' parameters are required")

// DefaultTTL is the freshness window for cached city readings.
const DefaultTTL = time.Hour

// Fetcher issues current-weather requests against the upstream
// provider. Satisfied by openweather.Client and openweather.RateLimited.
type Fetcher interface {
	CurrentByCity(ctx context.Context, city string) (*openweather.Conditions, error)
	CurrentByCoords(ctx context.Context, lat, lon float64) (*openweather.Conditions, error)
}

// Query identifies a place, by name or by coordinates. City takes
// priority when both are present.
type Query struct {
	City string
	Lat  *float64
	Lon  *float64
}

// Service orchestrates cache lookups, provider fetches, and
// persistence. Cache faults never fail a request: lookup and upsert
// errors are logged and the request proceeds with live data.
type Service struct {
	store  store.Store
	client Fetcher
	ttl    time.Duration
	logger *slog.Logger

	now func() time.Time // injected in tests
}

// NewService creates a Service. ttl <= 0 falls back to DefaultTTL.
func NewService(s store.Store, client Fetcher, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, client: client, ttl: ttl, logger: logger, now: time.Now}
}

// NormalizeCity returns the canonical cache key for a place name.
func NormalizeCity(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetWeather resolves a query to a normalized report. Name-based
// queries are served from the cache while fresh; coordinate-based
// queries always hit the provider and are never persisted.
func (s *Service) GetWeather(ctx context.Context, q Query) (Report, error) {
	switch {
	case strings.TrimSpace(q.City) != "":
		return s.byCity(ctx, q.City)
	case q.Lat != nil && q.Lon != nil:
		return s.byCoords(ctx, *q.Lat, *q.Lon)
	default:
		return Report{}, ErrInvalidQuery
	}
}

func (s *Service) byCity(ctx context.Context, city string) (Report, error) {
	key := NormalizeCity(city)

	rec, err := s.store.FindByCity(ctx, key)
	if err != nil {
		// A broken cache must not fail the request; fall through
		// to a live fetch.
		s.logger.Error("cache lookup failed", "city", key, "error", err)
		rec = nil
	}

	now := s.now().UTC()
	if rec != nil && now.Sub(rec.LastUpdated) <= s.ttl {
		return s.reportFromRecord(rec, now), nil
	}

	return s.Refresh(ctx, city)
}

func (s *Service) byCoords(ctx context.Context, lat, lon float64) (Report, error) {
	cond, err := s.client.CurrentByCoords(ctx, lat, lon)
	if err != nil {
		return Report{}, err
	}
	return Normalize(cond, s.now().UTC())
}

// Refresh fetches a city's weather from the provider unconditionally,
// persists it, and returns the normalized report. Persistence failures
// are logged and swallowed.
func (s *Service) Refresh(ctx context.Context, city string) (Report, error) {
	cond, err := s.client.CurrentByCity(ctx, strings.TrimSpace(city))
	if err != nil {
		return Report{}, err
	}

	now := s.now().UTC()
	rep, err := Normalize(cond, now)
	if err != nil {
		return Report{}, err
	}

	key := NormalizeCity(city)
	if err := s.store.Upsert(ctx, recordFromReport(key, rep, cond, now)); err != nil {
		s.logger.Error("cache upsert failed", "city", key, "error", err)
	}
	return rep, nil
}

// ListCities returns the abbreviated shape of every cached reading.
func (s *Service) ListCities(ctx context.Context) ([]CitySummary, error) {
	rows, err := s.store.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]CitySummary, 0, len(rows))
	for _, w := range rows {
		result = append(result, CitySummary{
			City:        w.City,
			Temperature: w.Temperature,
			Description: w.Description,
		})
	}
	return result, nil
}

// reportFromRecord rebuilds the normalized shape from a cached row.
// The day/night flag is recomputed against the current time: from the
// stored sunrise/sunset when present, otherwise from the wall-clock
// hour (day is 06:00-18:00).
func (s *Service) reportFromRecord(rec *store.CityWeather, now time.Time) Report {
	location := rec.Location
	if location == "" {
		location = cases.Title(language.English).String(rec.City)
	}

	var isDay bool
	if rec.Sunrise > 0 && rec.Sunset > 0 {
		isDay = IsDaytime(rec.Sunrise, rec.Sunset, now.Unix())
	} else {
		h := now.Local().Hour()
		isDay = h >= 6 && h < 18
	}

	return Report{
		Location:    location,
		Temperature: rec.Temperature,
		FeelsLike:   rec.FeelsLike,
		Description: rec.Description,
		Humidity:    rec.Humidity,
		WindSpeed:   rec.WindSpeed,
		Pressure:    rec.Pressure,
		Condition:   Condition(rec.Condition),
		IsDay:       isDay,
		Visibility:  rec.Visibility,
		Country:     rec.Country,
		Coord:       Coord{Lat: rec.Lat, Lon: rec.Lon},
	}
}

func recordFromReport(key string, rep Report, cond *openweather.Conditions, now time.Time) *store.CityWeather {
	rec := &store.CityWeather{
		City:        key,
		Location:    rep.Location,
		Description: rep.Description,
		Temperature: rep.Temperature,
		FeelsLike:   rep.FeelsLike,
		Humidity:    rep.Humidity,
		WindSpeed:   rep.WindSpeed,
		Pressure:    rep.Pressure,
		Condition:   string(rep.Condition),
		Visibility:  rep.Visibility,
		Country:     rep.Country,
		Lat:         rep.Coord.Lat,
		Lon:         rep.Coord.Lon,
		LastUpdated: now,
	}
	if cond.Sys != nil {
		rec.Sunrise = cond.Sys.Sunrise
		rec.Sunset = cond.Sys.Sunset
	}
	return rec
}
