package weather

import (
	"strings"

	"github.com/nimbus-weather/nimbus/internal/common"
)

// Threshold rules evaluated against current conditions, in declaration order.
// Each fires at most one bad-severity advisory.
const (
	heatThresholdC   = 35.0
	coldThresholdC   = 5.0
	windThresholdKmh = 50.0
)

const NoAlertsMessage = "✅ No severe weather alerts."

// disasterKeywords escalate a fired advisory from bad to severe when any of
// them appears in the advisory text or the condition description.
var disasterKeywords = []string{
	"hurricane",
	"tornado",
	"cyclone",
	"tsunami",
	"earthquake",
	"volcanic eruption",
	"wildfire",
	"mudslide",
	"landslide",
	"flash flood",
	"flood",
	"storm surge",
	"blizzard",
	"dust storm",
	"ice storm",
	"hailstorm",
}

type alertRule struct {
	fires   func(CurrentConditions) bool
	message string
}

var alertRules = []alertRule{
	{
		fires:   func(c CurrentConditions) bool { return c.TemperatureC >= heatThresholdC },
		message: "🔥 Heat alert: stay hydrated and avoid midday sun.",
	},
	{
		fires:   func(c CurrentConditions) bool { return c.TemperatureC <= coldThresholdC },
		message: "🥶 Cold alert: dress warmly in layers.",
	},
	{
		fires:   func(c CurrentConditions) bool { return common.ContainsFold(c.ConditionDescription, "storm") },
		message: "⛈️ Storm warning: avoid open areas and unplug electronics.",
	},
	{
		fires:   func(c CurrentConditions) bool { return common.ContainsFold(c.ConditionDescription, "rain") },
		message: "🌧️ Rain advisory: carry an umbrella.",
	},
	{
		fires:   func(c CurrentConditions) bool { return c.WindSpeedKmh >= windThresholdKmh },
		message: "💨 High wind alert: secure loose objects outdoors.",
	},
}

// Classify derives the ordered advisory list for the given conditions.
// It is a pure function: identical input yields an identical list.
func Classify(conditions CurrentConditions) []Alert {
	var alerts []Alert

	for _, rule := range alertRules {
		if rule.fires(conditions) {
			alerts = append(alerts, Alert{Message: rule.message, Severity: SeverityBad})
		}
	}

	if len(alerts) == 0 {
		return []Alert{{Message: NoAlertsMessage, Severity: SeverityNone}}
	}

	// A fired advisory is escalated when disaster language shows up either in
	// its own text or in the provider's condition description.
	for i := range alerts {
		scan := strings.ToLower(alerts[i].Message + " " + conditions.ConditionDescription)
		if common.HasAny(scan, disasterKeywords...) {
			alerts[i].Severity = SeveritySevere
		}
	}

	return alerts
}
