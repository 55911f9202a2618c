package slider

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/nimbus-weather/nimbus/internal/cache"
	"github.com/nimbus-weather/nimbus/internal/provider"
	"github.com/nimbus-weather/nimbus/internal/weather"
)

const fetchTimeout = 30 * time.Second

// CityConditions pairs a slider city with its latest fetched conditions.
type CityConditions struct {
	City       string                    `json:"city"`
	Conditions weather.CurrentConditions `json:"conditions"`
}

// Slider periodically refreshes current conditions for a fixed list of
// showcase cities. Its state is disjoint from the search session; only the
// provider caches are shared.
type Slider struct {
	scheduler *gocron.Scheduler
	fetcher   provider.Fetcher
	cities    []string
	interval  time.Duration

	mu         sync.RWMutex
	conditions map[string]weather.CurrentConditions
}

// New creates a Slider over the given city list.
func New(cities []string, interval time.Duration, fetcher provider.Fetcher) *Slider {
	return &Slider{
		scheduler:  gocron.NewScheduler(time.UTC),
		fetcher:    fetcher,
		cities:     cities,
		interval:   interval,
		conditions: make(map[string]weather.CurrentConditions),
	}
}

// Start runs one refresh immediately and schedules periodic refreshes.
func (s *Slider) Start() error {
	if len(s.cities) == 0 {
		log.Println("slider: no cities configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	// gocron interval jobs run once immediately on start, which covers the
	// initial refresh.
	if _, err := s.scheduler.Every(minutes).Minutes().Do(s.Refresh); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Refresh fetches current conditions for every slider city concurrently.
// A failed city is dropped for this round; the rest continue.
func (s *Slider) Refresh() {
	var wg sync.WaitGroup
	for _, city := range s.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()

			conditions, err := s.fetcher.FetchCurrent(ctx, city)
			if err != nil {
				log.Printf("slider: fetch failed for %s: %v", city, err)
				return
			}

			s.mu.Lock()
			s.conditions[cache.NormalizeKey(city)] = conditions
			s.mu.Unlock()
		}()
	}
	wg.Wait()
}

// Snapshot returns the latest conditions in configured city order, skipping
// cities that have never been fetched successfully.
func (s *Slider) Snapshot() []CityConditions {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CityConditions, 0, len(s.cities))
	for _, city := range s.cities {
		if conditions, ok := s.conditions[cache.NormalizeKey(city)]; ok {
			out = append(out, CityConditions{City: city, Conditions: conditions})
		}
	}
	return out
}

// Stop stops the underlying scheduler.
func (s *Slider) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
