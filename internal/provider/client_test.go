package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const currentBody = `{
	"cod": 200,
	"name": "Accra",
	"main": {"temp": 28.4, "humidity": 74},
	"wind": {"speed": 5.0},
	"weather": [{"main": "Clouds", "description": "scattered clouds"}]
}`

const forecastBody = `{
	"cod": "200",
	"message": 0,
	"list": [
		{"dt_txt": "2026-08-31 00:00:00", "main": {"temp": 27.1}, "weather": [{"description": "light rain"}]},
		{"dt_txt": "2026-08-31 03:00:00", "main": {"temp": 26.0}, "weather": [{"description": "broken clouds"}]}
	]
}`

const notFoundBody = `{"cod": "404", "message": "city not found"}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		CacheTTL:   time.Minute,
	})
	return client, srv
}

func TestFetchCurrentParsesResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Accra" {
			t.Errorf("unexpected q=%q", got)
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("missing api key, got %q", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("expected metric units, got %q", got)
		}
		w.Write([]byte(currentBody))
	})

	conditions, err := client.FetchCurrent(context.Background(), "Accra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conditions.LocationName != "Accra" {
		t.Errorf("unexpected location %q", conditions.LocationName)
	}
	if conditions.TemperatureC != 28.4 {
		t.Errorf("unexpected temperature %v", conditions.TemperatureC)
	}
	if conditions.WindSpeedKmh != 18 {
		t.Errorf("expected 5 m/s converted to 18 km/h, got %v", conditions.WindSpeedKmh)
	}
	if conditions.ConditionDescription != "scattered clouds" {
		t.Errorf("unexpected description %q", conditions.ConditionDescription)
	}
	if conditions.StatusCode != 200 {
		t.Errorf("unexpected status code %d", conditions.StatusCode)
	}
}

func TestFetchCurrentServesFromCache(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(currentBody))
	})

	ctx := context.Background()
	if _, err := client.FetchCurrent(ctx, "Accra"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same city with different case and spacing must hit the same entry.
	if _, err := client.FetchCurrent(ctx, "  ACCRA "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := hits.Load(); n != 1 {
		t.Fatalf("expected 1 upstream call, got %d", n)
	}
}

func TestFetchCurrentErrorBodyNotCached(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(notFoundBody))
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := client.FetchCurrent(ctx, "Atlantis")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Code != 404 || apiErr.Message != "city not found" {
			t.Fatalf("unexpected error payload %+v", apiErr)
		}
	}

	if n := hits.Load(); n != 2 {
		t.Fatalf("error responses must not be cached; expected 2 upstream calls, got %d", n)
	}
}

func TestFetchForecastParsesStringSentinel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(forecastBody))
	})

	entries, err := client.FetchForecast(context.Background(), "Accra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].TimestampText != "2026-08-31 00:00:00" {
		t.Errorf("unexpected timestamp %q", entries[0].TimestampText)
	}
	if entries[0].ConditionDescription != "light rain" {
		t.Errorf("unexpected description %q", entries[0].ConditionDescription)
	}
}

func TestFetchCurrentCancellation(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(currentBody))
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.FetchCurrent(ctx, "Accra")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation to be distinguishable, got %v", err)
	}
}

func TestFetchCurrentWithoutAPIKey(t *testing.T) {
	client := NewClient(ClientConfig{CacheTTL: time.Minute})
	if _, err := client.FetchCurrent(context.Background(), "Accra"); err == nil {
		t.Fatal("expected error without api key")
	}
}
