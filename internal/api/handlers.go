package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/chadmayfield/weatherd/internal/openweather"
	"github.com/chadmayfield/weatherd/internal/refresh"
	"github.com/chadmayfield/weatherd/internal/weather"
)

// WeatherService is the service surface the handlers consume.
type WeatherService interface {
	GetWeather(ctx context.Context, q weather.Query) (weather.Report, error)
	ListCities(ctx context.Context) ([]weather.CitySummary, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Weather       WeatherService
	Refresher     *refresh.Refresher
	Logger        *slog.Logger
	StartTime     time.Time
	StorageDriver string
	StoragePath   string
	Version       string
}

// apiError is a JSON error response.
type apiError struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg, Code: status})
}

// GetWeather handles GET /api/weather
func (h *Handlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	q := weather.Query{City: r.URL.Query().Get("city")}

	if s := r.URL.Query().Get("lat"); s != "" {
		lat, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'lat' parameter")
			return
		}
		q.Lat = &lat
	}
	if s := r.URL.Query().Get("lon"); s != "" {
		lon, err := strconv.ParseFloat(s, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'lon' parameter")
			return
		}
		q.Lon = &lon
	}

	rep, err := h.Weather.GetWeather(r.Context(), q)
	if err != nil {
		h.writeWeatherError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// writeWeatherError maps service-layer failures onto response statuses:
// the provider's own status passes through, timeouts become 408,
// transport failures 503, malformed provider payloads 502.
func (h *Handlers) writeWeatherError(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *openweather.StatusError
	switch {
	case errors.Is(err, weather.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &statusErr):
		writeError(w, statusErr.Status, statusErr.Message)
	case errors.Is(err, openweather.ErrTimeout):
		writeError(w, http.StatusRequestTimeout, "Weather service timeout")
	case errors.Is(err, openweather.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Weather service unavailable")
	case errors.Is(err, weather.ErrMalformedPayload):
		writeError(w, http.StatusBadGateway, "Weather service returned an unusable response")
	default:
		h.logger().Error("weather request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ListCities handles GET /cities
func (h *Handlers) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.Weather.ListCities(r.Context())
	if err != nil {
		h.logger().Error("failed to list cities", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list cities")
		return
	}
	if cities == nil {
		cities = []weather.CitySummary{}
	}
	writeJSON(w, http.StatusOK, cities)
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	type dbHealth struct {
		Driver    string `json:"driver"`
		Status    string `json:"status"`
		SizeBytes int64  `json:"size_bytes,omitempty"`
		Cities    int    `json:"cities"`
	}
	type healthResponse struct {
		Status    string          `json:"status"`
		Timestamp string          `json:"timestamp"`
		Version   string          `json:"version,omitempty"`
		Uptime    string          `json:"uptime"`
		Database  dbHealth        `json:"database"`
		Refresher *refresh.Status `json:"refresher,omitempty"`
	}

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.Version,
		Uptime:    formatUptime(time.Since(h.StartTime)),
		Database: dbHealth{
			Driver: h.StorageDriver,
			Status: "ok",
		},
	}

	if cities, err := h.Weather.ListCities(r.Context()); err == nil {
		resp.Database.Cities = len(cities)
	} else {
		resp.Database.Status = "error"
	}

	// Path omitted from the response to avoid exposing filesystem details.
	if h.StorageDriver == "sqlite" && h.StoragePath != "" {
		if info, err := os.Stat(h.StoragePath); err == nil {
			resp.Database.SizeBytes = info.Size()
		}
	}

	if h.Refresher != nil {
		st := h.Refresher.Status()
		resp.Refresher = &st
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	if days > 0 {
		return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	}
	if hours > 0 {
		return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
	}
	return strconv.Itoa(minutes) + "m"
}
