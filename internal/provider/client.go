package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/nimbus-weather/nimbus/internal/cache"
	"github.com/nimbus-weather/nimbus/internal/weather"
)

// DefaultBaseURL is the OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// APIError is a non-success payload returned by the weather provider,
// relayed to callers with its original code and message.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weather provider error %d: %s", e.Code, e.Message)
}

// Fetcher is the read interface the orchestrator and slider consume.
type Fetcher interface {
	FetchCurrent(ctx context.Context, location string) (weather.CurrentConditions, error)
	FetchForecast(ctx context.Context, location string) ([]weather.ForecastEntry, error)
}

// ClientConfig bundles the settings for a provider Client.
type ClientConfig struct {
	HTTPClient *http.Client
	APIKey     string
	BaseURL    string        // defaults to DefaultBaseURL
	CacheTTL   time.Duration // TTL for both response caches
}

// Client fetches current conditions and forecasts from OpenWeatherMap,
// memoizing successful responses per normalized location name.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	circuit    *gobreaker.CircuitBreaker

	current  *cache.Cache[weather.CurrentConditions]
	forecast *cache.Cache[[]weather.ForecastEntry]
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a provider Client with fresh response caches.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		// Superseded searches cancel their requests; that is not an
		// upstream failure and must not trip the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		circuit:    cb,
		current:    cache.New[weather.CurrentConditions](cfg.CacheTTL),
		forecast:   cache.New[[]weather.ForecastEntry](cfg.CacheTTL),
	}
}

// FetchCurrent returns the current conditions for a free-text location,
// serving from cache when a fresh entry exists.
func (c *Client) FetchCurrent(ctx context.Context, location string) (weather.CurrentConditions, error) {
	key := cache.NormalizeKey(location)
	if conditions, ok := c.current.Get(key); ok {
		return conditions, nil
	}

	body, err := c.get(ctx, "/weather", location)
	if err != nil {
		return weather.CurrentConditions{}, err
	}

	var payload currentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("decode current conditions: %w", err)
	}
	if int(payload.Cod) != http.StatusOK {
		return weather.CurrentConditions{}, &APIError{Code: int(payload.Cod), Message: string(payload.Message)}
	}

	conditions := payload.toConditions()
	c.current.Set(key, conditions)
	return conditions, nil
}

// FetchForecast returns the raw 3-hourly forecast sequence for a free-text
// location, serving from cache when a fresh entry exists.
func (c *Client) FetchForecast(ctx context.Context, location string) ([]weather.ForecastEntry, error) {
	key := cache.NormalizeKey(location)
	if entries, ok := c.forecast.Get(key); ok {
		return entries, nil
	}

	body, err := c.get(ctx, "/forecast", location)
	if err != nil {
		return nil, err
	}

	var payload forecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	if int(payload.Cod) != http.StatusOK {
		return nil, &APIError{Code: int(payload.Cod), Message: string(payload.Message)}
	}

	entries := make([]weather.ForecastEntry, 0, len(payload.List))
	for _, item := range payload.List {
		description := ""
		if len(item.Weather) > 0 {
			description = item.Weather[0].Description
		}
		entries = append(entries, weather.ForecastEntry{
			TimestampText:        item.DtTxt,
			TemperatureC:         item.Main.Temp,
			ConditionDescription: description,
		})
	}

	c.forecast.Set(key, entries)
	return entries, nil
}

// get issues one provider request through the circuit breaker and returns the
// raw response body. Only transport failures count against the breaker;
// responses with any HTTP status are handed back for payload-level handling.
func (c *Client) get(ctx context.Context, path, location string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("q", strings.TrimSpace(location))
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")

	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("weather provider circuit open: %w", err)
		}
		return nil, err
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	return body, nil
}

// statusCode tolerates the provider's habit of returning the `cod` sentinel
// as a number on one endpoint and a quoted string on another.
type statusCode int

func (s *statusCode) UnmarshalJSON(data []byte) error {
	text := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("invalid provider status code %s", data)
	}
	*s = statusCode(n)
	return nil
}

// flexString tolerates the `message` field being a string on error bodies and
// a bare number on successful forecast bodies.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type currentPayload struct {
	Cod     statusCode `json:"cod"`
	Message flexString `json:"message"`
	Name    string     `json:"name"`
	Main    struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s under metric units
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

func (p currentPayload) toConditions() weather.CurrentConditions {
	conditions := weather.CurrentConditions{
		LocationName: p.Name,
		TemperatureC: p.Main.Temp,
		HumidityPct:  p.Main.Humidity,
		WindSpeedKmh: p.Wind.Speed * 3.6,
		StatusCode:   int(p.Cod),
	}
	if len(p.Weather) > 0 {
		conditions.ConditionMain = p.Weather[0].Main
		conditions.ConditionDescription = p.Weather[0].Description
	}
	return conditions
}

type forecastPayload struct {
	Cod     statusCode `json:"cod"`
	Message flexString `json:"message"`
	List    []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}
