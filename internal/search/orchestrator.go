package search

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nimbus-weather/nimbus/internal/notify"
	"github.com/nimbus-weather/nimbus/internal/provider"
	"github.com/nimbus-weather/nimbus/internal/weather"
)

// State is the UI-ready result of the current search session.
type State struct {
	Query       string                     `json:"query"`
	Conditions  *weather.CurrentConditions `json:"conditions"`
	Forecast    []weather.ForecastEntry    `json:"forecast"`
	Alerts      []weather.Alert            `json:"alerts"`
	Theme       weather.Theme              `json:"theme"`
	Suggestion  string                     `json:"suggestion"`
	HasSearched bool                       `json:"hasSearched"`
	IsLoading   bool                       `json:"isLoading"`
	LastError   string                     `json:"lastError,omitempty"`
}

// Orchestrator turns a debounced city query into a cancellable paired fetch
// of current conditions and forecast, committing results only for the most
// recently issued search generation.
type Orchestrator struct {
	fetcher   provider.Fetcher
	notifier  notify.Notifier
	debouncer *Debouncer

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State
}

// NewOrchestrator creates an Orchestrator whose Submit input is debounced by
// debounceDelay before a search starts.
func NewOrchestrator(fetcher provider.Fetcher, notifier notify.Notifier, debounceDelay time.Duration) *Orchestrator {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	o := &Orchestrator{
		fetcher:  fetcher,
		notifier: notifier,
	}
	o.debouncer = NewDebouncer(debounceDelay, o.Search)
	return o
}

// Submit feeds a raw query through the debouncer; only a value stable for the
// configured delay starts a search.
func (o *Orchestrator) Submit(query string) {
	o.debouncer.Update(query)
}

// Search starts a new search session immediately, superseding any in-flight
// one. A blank query is a no-op.
func (o *Orchestrator) Search(query string) {
	location := strings.TrimSpace(query)
	if location == "" {
		return
	}

	o.mu.Lock()
	o.generation++
	gen := o.generation
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.state.Query = query
	o.state.IsLoading = true
	o.mu.Unlock()

	go o.run(ctx, gen, location)
}

// run fans out the paired fetch, joins both, and commits the outcome if this
// generation is still the latest.
func (o *Orchestrator) run(ctx context.Context, gen uint64, location string) {
	var (
		wg         sync.WaitGroup
		conditions weather.CurrentConditions
		condErr    error
		raw        []weather.ForecastEntry
		fcErr      error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		conditions, condErr = o.fetcher.FetchCurrent(ctx, location)
	}()
	go func() {
		defer wg.Done()
		raw, fcErr = o.fetcher.FetchForecast(ctx, location)
	}()
	wg.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()

	// Lost the token: a newer search superseded this one. Drop everything,
	// including errors; the newer session owns the shared state now.
	if gen != o.generation {
		return
	}

	o.state.IsLoading = false

	// Teardown cancellation with the token still current is benign, not a
	// user-facing failure.
	if isCanceled(condErr) || isCanceled(fcErr) {
		return
	}

	o.state.HasSearched = true

	if condErr != nil || fcErr != nil {
		err := condErr
		if err == nil {
			err = fcErr
		}
		log.Printf("ERROR: search for %q failed: %v", location, err)
		o.state.Conditions = nil
		o.state.Forecast = nil
		o.state.Alerts = nil
		o.state.Theme = weather.ThemeDefault
		o.state.Suggestion = ""
		o.state.LastError = failureMessage(err, location)
		return
	}

	committed := conditions
	o.state.Conditions = &committed
	o.state.Forecast = weather.SampleDaily(raw)
	o.state.Alerts = weather.Classify(conditions)
	o.state.Theme = weather.BackgroundTheme(conditions.ConditionMain)
	o.state.Suggestion = weather.ClothingSuggestion(conditions.TemperatureC)
	o.state.LastError = ""

	for _, alert := range o.state.Alerts {
		if alert.Severity == weather.SeveritySevere {
			o.notifier.Notify("Severe weather alert", alert.Message)
		}
	}
}

// State returns a copy of the current search state safe for rendering.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.state
	if o.state.Conditions != nil {
		conditions := *o.state.Conditions
		s.Conditions = &conditions
	}
	s.Forecast = append([]weather.ForecastEntry(nil), o.state.Forecast...)
	s.Alerts = append([]weather.Alert(nil), o.state.Alerts...)
	return s
}

// Close cancels any in-flight search and stops the debouncer.
func (o *Orchestrator) Close() {
	o.debouncer.Stop()

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// isCanceled matches only explicit cancellation (supersession or teardown).
// The search context carries no deadline, so a DeadlineExceeded reaching the
// orchestrator is an outbound transport timeout and must surface as a
// failure, not be swallowed as benign.
func isCanceled(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}

// failureMessage surfaces provider error payloads verbatim and hides
// transport noise behind a generic notice.
func failureMessage(err error, location string) string {
	var apiErr *provider.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "could not fetch weather for " + location
}
