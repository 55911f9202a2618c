package weather

import (
	"fmt"
	"testing"
)

func TestSampleDailyKeepsEveryEighthEntry(t *testing.T) {
	raw := make([]ForecastEntry, 40)
	for i := range raw {
		raw[i] = ForecastEntry{TimestampText: fmt.Sprintf("slot-%d", i)}
	}

	daily := SampleDaily(raw)
	if len(daily) != 5 {
		t.Fatalf("expected 5 daily entries, got %d", len(daily))
	}
	for i, wantIdx := range []int{0, 8, 16, 24, 32} {
		want := fmt.Sprintf("slot-%d", wantIdx)
		if daily[i].TimestampText != want {
			t.Errorf("daily[%d] = %q, want %q", i, daily[i].TimestampText, want)
		}
	}
}

func TestSampleDailyShortInput(t *testing.T) {
	raw := make([]ForecastEntry, 10)
	daily := SampleDaily(raw)
	if len(daily) != 2 {
		t.Fatalf("expected 2 entries from 10 raw slots, got %d", len(daily))
	}
}

func TestSampleDailyEmpty(t *testing.T) {
	if got := SampleDaily(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestBackgroundTheme(t *testing.T) {
	cases := map[string]Theme{
		"Clear":        ThemeClear,
		"Clouds":       ThemeClouds,
		"Rain":         ThemeRain,
		"Drizzle":      ThemeRain,
		"Thunderstorm": ThemeStorm,
		"Snow":         ThemeSnow,
		"Mist":         ThemeMist,
		"Haze":         ThemeMist,
		"Squall":       ThemeDefault,
	}
	for in, want := range cases {
		if got := BackgroundTheme(in); got != want {
			t.Errorf("BackgroundTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClothingSuggestionBands(t *testing.T) {
	cases := []struct {
		temp float64
		want string
	}{
		{35, "Light, breathable clothing. Sunscreen and plenty of water."},
		{25, "Short sleeves are fine. Bring a light layer for the evening."},
		{15, "A light jacket or sweater should do."},
		{5, "Wear a warm jacket."},
		{-10, "Heavy coat, hat and gloves."},
	}
	for _, tc := range cases {
		if got := ClothingSuggestion(tc.temp); got != tc.want {
			t.Errorf("ClothingSuggestion(%v) = %q, want %q", tc.temp, got, tc.want)
		}
	}
}
