package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "weather_test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRow(city string, updated time.Time) *CityWeather {
	return &CityWeather{
		City:        city,
		Location:    "London",
		Description: "broken clouds",
		Temperature: 18,
		FeelsLike:   18,
		Humidity:    72,
		WindSpeed:   15,
		Pressure:    1012,
		Condition:   "clouds",
		Visibility:  10,
		Country:     "GB",
		Lat:         51.51,
		Lon:         -0.13,
		Sunrise:     1000,
		Sunset:      100000,
		LastUpdated: updated,
	}
}

func TestSQLiteStore_FindByCity_Missing(t *testing.T) {
	s := newTestStore(t)

	w, err := s.FindByCity(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("FindByCity: %v", err)
	}
	if w != nil {
		t.Errorf("expected nil for an uncached city, got %+v", w)
	}
}

func TestSQLiteStore_UpsertAndFind(t *testing.T) {
	s := newTestStore(t)
	updated := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	if err := s.Upsert(context.Background(), testRow("london", updated)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	w, err := s.FindByCity(context.Background(), "london")
	if err != nil {
		t.Fatalf("FindByCity: %v", err)
	}
	if w == nil {
		t.Fatal("expected a row, got nil")
	}
	if w.ID == 0 {
		t.Error("expected an assigned row id")
	}
	if w.Location != "London" || w.Temperature != 18 || w.Condition != "clouds" {
		t.Errorf("unexpected row: %+v", w)
	}
	if w.Sunrise != 1000 || w.Sunset != 100000 {
		t.Errorf("sunrise/sunset = %d/%d, want 1000/100000", w.Sunrise, w.Sunset)
	}
	if !w.LastUpdated.Equal(updated) {
		t.Errorf("last_updated = %v, want %v", w.LastUpdated, updated)
	}
}

func TestSQLiteStore_UpsertReplacesExistingRow(t *testing.T) {
	s := newTestStore(t)
	first := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	second := first.Add(90 * time.Minute)

	if err := s.Upsert(context.Background(), testRow("london", first)); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	updated := testRow("london", second)
	updated.Temperature = 22
	updated.Description = "clear sky"
	updated.Condition = "clear"
	if err := s.Upsert(context.Background(), updated); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	cities, err := s.ListCities(context.Background())
	if err != nil {
		t.Fatalf("ListCities: %v", err)
	}
	if len(cities) != 1 {
		t.Fatalf("expected one row after conflicting upsert, got %d", len(cities))
	}

	w := cities[0]
	if w.Temperature != 22 || w.Description != "clear sky" || w.Condition != "clear" {
		t.Errorf("row not replaced: %+v", w)
	}
	if !w.LastUpdated.Equal(second) {
		t.Errorf("last_updated = %v, want refreshed %v", w.LastUpdated, second)
	}
}

func TestSQLiteStore_ListCitiesOrdered(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	for _, city := range []string{"tokyo", "berlin", "london"} {
		if err := s.Upsert(context.Background(), testRow(city, now)); err != nil {
			t.Fatalf("Upsert %q: %v", city, err)
		}
	}

	cities, err := s.ListCities(context.Background())
	if err != nil {
		t.Fatalf("ListCities: %v", err)
	}
	if len(cities) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(cities))
	}
	want := []string{"berlin", "london", "tokyo"}
	for i, w := range cities {
		if w.City != want[i] {
			t.Errorf("cities[%d] = %q, want %q", i, w.City, want[i])
		}
	}
}

func TestSQLiteStore_CreatesDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "dir", "weather.db")
	s, err := NewSQLiteStore(dsn)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	if _, err := s.FindByCity(context.Background(), "anything"); err != nil {
		t.Errorf("store unusable after nested-dir open: %v", err)
	}
}
