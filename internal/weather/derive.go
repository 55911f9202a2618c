package weather

import "strings"

// forecastStride collapses the provider's 3-hourly forecast to one entry per
// day (8 slots of 3h each).
const forecastStride = 8

// forecastDays caps the derived outlook length.
const forecastDays = 5

// SampleDaily reduces a raw 3-hourly forecast sequence to a 5-day outlook by
// keeping every 8th entry, starting at index 0.
func SampleDaily(raw []ForecastEntry) []ForecastEntry {
	daily := make([]ForecastEntry, 0, forecastDays)
	for i := 0; i < len(raw) && len(daily) < forecastDays; i += forecastStride {
		daily = append(daily, raw[i])
	}
	return daily
}

// BackgroundTheme maps a provider condition group to a dashboard theme.
func BackgroundTheme(conditionMain string) Theme {
	switch strings.ToLower(conditionMain) {
	case "clear":
		return ThemeClear
	case "clouds":
		return ThemeClouds
	case "rain", "drizzle":
		return ThemeRain
	case "thunderstorm":
		return ThemeStorm
	case "snow":
		return ThemeSnow
	case "mist", "fog", "haze":
		return ThemeMist
	default:
		return ThemeDefault
	}
}

// ClothingSuggestion returns a one-line wardrobe hint for the temperature.
func ClothingSuggestion(tempC float64) string {
	switch {
	case tempC >= 30:
		return "Light, breathable clothing. Sunscreen and plenty of water."
	case tempC >= 20:
		return "Short sleeves are fine. Bring a light layer for the evening."
	case tempC >= 10:
		return "A light jacket or sweater should do."
	case tempC >= 0:
		return "Wear a warm jacket."
	default:
		return "Heavy coat, hat and gloves."
	}
}
