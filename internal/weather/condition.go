package weather

// Condition is a coarse weather category derived from the provider's
// numeric weather code.
type Condition string

const (
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionDrizzle      Condition = "drizzle"
	ConditionRain         Condition = "rain"
	ConditionSnow         Condition = "snow"
	ConditionMist         Condition = "mist"
	ConditionClear        Condition = "clear"
	ConditionClouds       Condition = "clouds"
	ConditionUnknown      Condition = "unknown"
)

// ConditionFromCode maps an OpenWeatherMap weather code to a category.
// The 4xx and 9xx ranges are unassigned upstream and map to unknown.
func ConditionFromCode(code int) Condition {
	switch {
	case code >= 200 && code <= 299:
		return ConditionThunderstorm
	case code >= 300 && code <= 399:
		return ConditionDrizzle
	case code >= 500 && code <= 599:
		return ConditionRain
	case code >= 600 && code <= 699:
		return ConditionSnow
	case code >= 700 && code <= 799:
		return ConditionMist
	case code == 800:
		return ConditionClear
	case code >= 801 && code <= 899:
		return ConditionClouds
	default:
		return ConditionUnknown
	}
}

// IsDaytime reports whether t falls between sunrise and sunset,
// inclusive on both ends. All arguments are epoch seconds.
func IsDaytime(sunrise, sunset, t int64) bool {
	return sunrise <= t && t <= sunset
}
