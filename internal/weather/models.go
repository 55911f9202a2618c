package weather

import (
	"fmt"
	"strings"
)

// AlertSeverity ranks advisory messages for display priority.
type AlertSeverity int

const (
	SeverityNone AlertSeverity = iota
	SeverityBad
	SeveritySevere
)

func (s AlertSeverity) String() string {
	switch s {
	case SeverityBad:
		return "bad"
	case SeveritySevere:
		return "severe"
	default:
		return "none"
	}
}

// MarshalJSON renders the severity as its display name.
func (s AlertSeverity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts the display-name form produced by MarshalJSON.
func (s *AlertSeverity) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "bad":
		*s = SeverityBad
	case "severe":
		*s = SeveritySevere
	case "none":
		*s = SeverityNone
	default:
		return fmt.Errorf("unknown alert severity %s", data)
	}
	return nil
}

// Alert is a single advisory derived from current conditions.
type Alert struct {
	Message  string        `json:"message"`
	Severity AlertSeverity `json:"severity"`
}

// CurrentConditions is the normalized current-weather view for one location,
// built from a successful provider response.
type CurrentConditions struct {
	LocationName         string  `json:"locationName"`
	TemperatureC         float64 `json:"temperatureC"`
	HumidityPct          float64 `json:"humidityPercent"`
	WindSpeedKmh         float64 `json:"windSpeedKmh"`
	ConditionMain        string  `json:"conditionMain"`
	ConditionDescription string  `json:"conditionDescription"`
	StatusCode           int     `json:"statusCode"`
}

// ForecastEntry is one slot of the provider's 3-hourly forecast sequence.
type ForecastEntry struct {
	TimestampText        string  `json:"timestampText"`
	TemperatureC         float64 `json:"temperatureC"`
	ConditionDescription string  `json:"conditionDescription"`
}

// Theme names the dashboard background mood for a condition group.
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeClear   Theme = "clear"
	ThemeClouds  Theme = "clouds"
	ThemeRain    Theme = "rain"
	ThemeStorm   Theme = "storm"
	ThemeSnow    Theme = "snow"
	ThemeMist    Theme = "mist"
)
