package slider

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nimbus-weather/nimbus/internal/weather"
)

type fakeFetcher struct {
	conditions map[string]weather.CurrentConditions
	failing    map[string]bool
}

func (f *fakeFetcher) FetchCurrent(ctx context.Context, location string) (weather.CurrentConditions, error) {
	if f.failing[location] {
		return weather.CurrentConditions{}, fmt.Errorf("upstream down")
	}
	return f.conditions[location], nil
}

func (f *fakeFetcher) FetchForecast(ctx context.Context, location string) ([]weather.ForecastEntry, error) {
	return nil, fmt.Errorf("not used by slider")
}

func TestRefreshDropsFailedCityAndKeepsOrder(t *testing.T) {
	fetcher := &fakeFetcher{
		conditions: map[string]weather.CurrentConditions{
			"Accra":  {LocationName: "Accra"},
			"London": {LocationName: "London"},
			"Tokyo":  {LocationName: "Tokyo"},
		},
		failing: map[string]bool{"London": true},
	}

	s := New([]string{"Accra", "London", "Tokyo"}, time.Minute, fetcher)
	s.Refresh()

	snapshot := s.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected the failing city dropped, got %d entries", len(snapshot))
	}
	if snapshot[0].City != "Accra" || snapshot[1].City != "Tokyo" {
		t.Fatalf("expected configured order preserved, got %v", snapshot)
	}
}

func TestRefreshRecoversOnNextRound(t *testing.T) {
	fetcher := &fakeFetcher{
		conditions: map[string]weather.CurrentConditions{
			"Accra": {LocationName: "Accra"},
		},
		failing: map[string]bool{"Accra": true},
	}

	s := New([]string{"Accra"}, time.Minute, fetcher)
	s.Refresh()
	if len(s.Snapshot()) != 0 {
		t.Fatal("expected empty snapshot while the city keeps failing")
	}

	fetcher.failing["Accra"] = false
	s.Refresh()

	snapshot := s.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Conditions.LocationName != "Accra" {
		t.Fatalf("expected the city back after recovery, got %v", snapshot)
	}
}

type countingFetcher struct {
	mu    sync.Mutex
	calls int
}

func (f *countingFetcher) FetchCurrent(ctx context.Context, location string) (weather.CurrentConditions, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return weather.CurrentConditions{LocationName: location}, nil
}

func (f *countingFetcher) FetchForecast(ctx context.Context, location string) ([]weather.ForecastEntry, error) {
	return nil, fmt.Errorf("not used by slider")
}

func (f *countingFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestStartRunsInitialRefreshExactlyOnce(t *testing.T) {
	fetcher := &countingFetcher{}
	s := New([]string{"Accra"}, time.Hour, fetcher)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && fetcher.count() == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	if fetcher.count() == 0 {
		t.Fatal("expected an initial refresh on start")
	}

	// A duplicate startup refresh would also have landed by now.
	time.Sleep(250 * time.Millisecond)
	if n := fetcher.count(); n != 1 {
		t.Fatalf("expected exactly one initial fetch, got %d", n)
	}
}

func TestSnapshotEmptyBeforeFirstRefresh(t *testing.T) {
	s := New([]string{"Accra"}, time.Minute, &fakeFetcher{})
	if got := s.Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %v", got)
	}
}
