package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSliderCities is the showcase city list refreshed in the background.
var DefaultSliderCities = []string{"Accra", "London", "New York", "Tokyo", "Sydney"}

type AppConfig struct {
	OpenWeatherAPIKey string

	// CacheTTL bounds how long provider responses are served from memory.
	CacheTTL time.Duration

	// DebounceDelay is how long a search query must stay unchanged before a
	// fetch starts.
	DebounceDelay time.Duration

	// Slider background refresh.
	SliderCities   []string
	SliderInterval time.Duration

	HTTPTimeout time.Duration
	Port        string

	// SMS relay (server side).
	SharedToken        string // optional guard; empty disables the check
	HubtelClientID     string
	HubtelClientSecret string
	HubtelSenderID     string
	HubtelBaseURL      string

	// SMS relay (client wrapper side).
	SMSEndpoint    string
	SMSSharedToken string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	ttl, err := getenvDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = ttl

	debounce, err := getenvDuration("SEARCH_DEBOUNCE", "500ms")
	if err != nil {
		return nil, err
	}
	cfg.DebounceDelay = debounce

	cfg.SliderCities = loadSliderCities()

	interval, err := getenvDuration("SLIDER_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	cfg.SliderInterval = interval

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.SharedToken = os.Getenv("SHARED_TOKEN")
	cfg.HubtelClientID = os.Getenv("HUBTEL_CLIENT_ID")
	cfg.HubtelClientSecret = os.Getenv("HUBTEL_CLIENT_SECRET")
	cfg.HubtelSenderID = os.Getenv("HUBTEL_SENDER_ID")
	cfg.HubtelBaseURL = getenvDefault("HUBTEL_BASE_URL", "https://smsc.hubtel.com")

	cfg.SMSEndpoint = os.Getenv("SMS_ENDPOINT")
	cfg.SMSSharedToken = os.Getenv("SMS_SHARED_TOKEN")

	return cfg, nil
}

func loadSliderCities() []string {
	raw := os.Getenv("SLIDER_CITIES")
	if raw == "" {
		return DefaultSliderCities
	}

	var cities []string
	for _, city := range strings.Split(raw, ",") {
		if city = strings.TrimSpace(city); city != "" {
			cities = append(cities, city)
		}
	}
	return cities
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
