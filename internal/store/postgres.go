package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed pgmigrations/*.sql
var pgMigrations embed.FS

// PostgresStore implements Store backed by PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a PostgreSQL connection and runs migrations.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	goose.SetBaseFS(pgMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(db, "pgmigrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) FindByCity(ctx context.Context, city string) (*CityWeather, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+cityColumns+`
		FROM weather
		WHERE city = $1
		LIMIT 1`, city)

	w, err := scanCityWeather(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding city %q: %w", city, err)
	}
	return w, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, w *CityWeather) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weather (
			city, location, description, temperature, feels_like,
			humidity, wind_speed, pressure, condition, visibility,
			country, lat, lon, sunrise, sunset, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT(city) DO UPDATE SET
			location=EXCLUDED.location, description=EXCLUDED.description,
			temperature=EXCLUDED.temperature, feels_like=EXCLUDED.feels_like,
			humidity=EXCLUDED.humidity, wind_speed=EXCLUDED.wind_speed,
			pressure=EXCLUDED.pressure, condition=EXCLUDED.condition,
			visibility=EXCLUDED.visibility, country=EXCLUDED.country,
			lat=EXCLUDED.lat, lon=EXCLUDED.lon,
			sunrise=EXCLUDED.sunrise, sunset=EXCLUDED.sunset,
			last_updated=EXCLUDED.last_updated`,
		w.City, w.Location, w.Description, w.Temperature, w.FeelsLike,
		w.Humidity, w.WindSpeed, w.Pressure, w.Condition, w.Visibility,
		w.Country, w.Lat, w.Lon, w.Sunrise, w.Sunset, w.LastUpdated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting city %q: %w", w.City, err)
	}
	return nil
}

func (s *PostgresStore) ListCities(ctx context.Context) ([]CityWeather, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cityColumns+`
		FROM weather ORDER BY city`)
	if err != nil {
		return nil, fmt.Errorf("listing cities: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var result []CityWeather
	for rows.Next() {
		w, err := scanCityWeather(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning city row: %w", err)
		}
		result = append(result, *w)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
