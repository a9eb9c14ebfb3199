// Package weather fetches the forecast, labels conditions, and merges
// condition-derived suggestions with the user's own persisted reminders.
package weather

import "strings"

// Condition labels derived from the provider's weather codes.
const (
	LabelSunny             = "Sunny"
	LabelClearNight        = "Clear Night"
	LabelPartlyCloudy      = "Partly Cloudy"
	LabelPartlyCloudyNight = "Partly Cloudy Night"
	LabelFog               = "Fog"
	LabelDrizzle           = "Drizzle"
	LabelRain              = "Rain"
	LabelSnow              = "Snow"
	LabelStorm             = "Storm"
	LabelCloudy            = "Cloudy"
)

// LabelForCode converts a WMO weather code into a display label. Unknown
// codes read as cloudy rather than failing.
func LabelForCode(code int, night bool) string {
	switch code {
	case 0:
		if night {
			return LabelClearNight
		}
		return LabelSunny
	case 1, 2, 3:
		if night {
			return LabelPartlyCloudyNight
		}
		return LabelPartlyCloudy
	case 45, 48:
		return LabelFog
	case 51, 53, 55:
		return LabelDrizzle
	case 61, 63, 65, 80, 81, 82:
		return LabelRain
	case 71, 73, 75, 77, 85, 86:
		return LabelSnow
	case 95, 96, 99:
		return LabelStorm
	default:
		return LabelCloudy
	}
}

// Suggestion table keyed by the first word of the condition label. Only
// these keywords have tailored suggestions; everything else gets the
// default pair.
var suggestions = map[string][]string{
	"Clear": {"Apply Sunscreen (high UV)", "Drink extra water (stay hydrated)"},
	"Rain":  {"Grab an umbrella", "Wear waterproof shoes or boots"},
	"Cloudy": {
		"Take a jacket or light layer",
		"Don't forget vitamin D supplements",
	},
	"Snow": {"Wear warm, insulated layers", "Check local road conditions"},
}

var defaultSuggestions = []string{
	"Check the forecast later",
	"Wear comfortable layers",
}

// SuggestActions derives reminder suggestions from a condition label. Never
// persisted; recomputed whenever the weather changes.
func SuggestActions(label string) []string {
	first, _, _ := strings.Cut(strings.TrimSpace(label), " ")
	if s, ok := suggestions[first]; ok {
		return append([]string(nil), s...)
	}
	return append([]string(nil), defaultSuggestions...)
}

// MergeReminders builds the reminder list shown on the weather view:
// condition-derived suggestions always precede the user's own reminders.
func MergeReminders(suggested, custom []string) []string {
	merged := make([]string, 0, len(suggested)+len(custom))
	merged = append(merged, suggested...)
	merged = append(merged, custom...)
	return merged
}
