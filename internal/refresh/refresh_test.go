package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chadmayfield/weatherd/internal/store"
	"github.com/chadmayfield/weatherd/internal/weather"
)

type stubStore struct {
	rows    []store.CityWeather
	listErr error
}

func (s *stubStore) FindByCity(context.Context, string) (*store.CityWeather, error) {
	return nil, nil
}
func (s *stubStore) Upsert(context.Context, *store.CityWeather) error { return nil }
func (s *stubStore) ListCities(context.Context) ([]store.CityWeather, error) {
	return s.rows, s.listErr
}
func (s *stubStore) Close() error { return nil }

type stubRefresher struct {
	calls   []string
	failFor map[string]error
}

func (s *stubRefresher) Refresh(_ context.Context, city string) (weather.Report, error) {
	s.calls = append(s.calls, city)
	if err, ok := s.failFor[city]; ok {
		return weather.Report{}, err
	}
	return weather.Report{Location: city}, nil
}

func TestRunOnce_RefreshesOnlyStaleRows(t *testing.T) {
	now := time.Now().UTC()
	st := &stubStore{rows: []store.CityWeather{
		{City: "london", LastUpdated: now.Add(-2 * time.Hour)},
		{City: "berlin", LastUpdated: now.Add(-5 * time.Minute)},
		{City: "tokyo", LastUpdated: now.Add(-61 * time.Minute)},
	}}
	sr := &stubRefresher{}
	r := New(st, sr, time.Hour, time.Minute, nil)

	refreshed, failed, err := r.RunOnce(context.Background(), false)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if refreshed != 2 || failed != 0 {
		t.Errorf("refreshed/failed = %d/%d, want 2/0", refreshed, failed)
	}
	want := []string{"london", "tokyo"}
	if len(sr.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", sr.calls, want)
	}
	for i, city := range want {
		if sr.calls[i] != city {
			t.Errorf("calls[%d] = %q, want %q", i, sr.calls[i], city)
		}
	}
}

func TestRunOnce_ForceRefreshesEverything(t *testing.T) {
	now := time.Now().UTC()
	st := &stubStore{rows: []store.CityWeather{
		{City: "london", LastUpdated: now},
		{City: "berlin", LastUpdated: now},
	}}
	sr := &stubRefresher{}
	r := New(st, sr, time.Hour, time.Minute, nil)

	refreshed, _, err := r.RunOnce(context.Background(), true)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if refreshed != 2 {
		t.Errorf("refreshed = %d, want 2 with force", refreshed)
	}
}

func TestRunOnce_CountsFailuresAndContinues(t *testing.T) {
	now := time.Now().UTC()
	st := &stubStore{rows: []store.CityWeather{
		{City: "london", LastUpdated: now.Add(-2 * time.Hour)},
		{City: "berlin", LastUpdated: now.Add(-2 * time.Hour)},
		{City: "tokyo", LastUpdated: now.Add(-2 * time.Hour)},
	}}
	sr := &stubRefresher{failFor: map[string]error{"berlin": errors.New("provider down")}}
	r := New(st, sr, time.Hour, time.Minute, nil)

	refreshed, failed, err := r.RunOnce(context.Background(), false)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if refreshed != 2 || failed != 1 {
		t.Errorf("refreshed/failed = %d/%d, want 2/1", refreshed, failed)
	}

	status := r.Status()
	if status.Cities != 3 || status.Refreshed != 2 || status.Failed != 1 {
		t.Errorf("status = %+v", status)
	}
	if status.LastError != "provider down" {
		t.Errorf("last_error = %q, want provider down", status.LastError)
	}
	if status.LastRun.IsZero() {
		t.Error("last_run not recorded")
	}
}

func TestRunOnce_ListError(t *testing.T) {
	st := &stubStore{listErr: errors.New("db down")}
	r := New(st, &stubRefresher{}, time.Hour, time.Minute, nil)

	if _, _, err := r.RunOnce(context.Background(), false); err == nil {
		t.Fatal("expected an error when listing cities fails")
	}
	if got := r.Status().LastError; got != "db down" {
		t.Errorf("last_error = %q, want db down", got)
	}
}

func TestRunOnce_CancelledContext(t *testing.T) {
	now := time.Now().UTC()
	st := &stubStore{rows: []store.CityWeather{
		{City: "london", LastUpdated: now.Add(-2 * time.Hour)},
	}}
	sr := &stubRefresher{}
	r := New(st, sr, time.Hour, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := r.RunOnce(ctx, false); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(sr.calls) != 0 {
		t.Errorf("calls = %v, want none after cancellation", sr.calls)
	}
}
