package weather

// Report is the normalized current-weather shape returned to every
// caller, whether the data came from a live provider fetch or the
// cache. Units: °C (rounded), km/h, hPa, km.
type Report struct {
	Location    string    `json:"location"`
	Temperature int       `json:"temperature"`
	FeelsLike   int       `json:"feels_like"`
	Description string    `json:"description"`
	Humidity    int       `json:"humidity"`
	WindSpeed   int       `json:"wind_speed"`
	Pressure    int       `json:"pressure"`
	Condition   Condition `json:"weather_condition"`
	IsDay       bool      `json:"is_day"`
	Visibility  int       `json:"visibility"`
	Country     string    `json:"country"`
	Coord       Coord     `json:"coord"`
}

// Coord is a latitude/longitude pair.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CitySummary is the abbreviated per-city shape served by /cities.
type CitySummary struct {
	City        string `json:"city"`
	Temperature int    `json:"temperature"`
	Description string `json:"description"`
}
