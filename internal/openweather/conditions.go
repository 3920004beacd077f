package openweather

// Conditions is the raw current-weather payload returned by the
// OpenWeatherMap /data/2.5/weather endpoint. Only the fields the
// normalizer consumes are decoded.
//
// Main, Weather, and Coord are required by downstream consumers;
// they are pointers/slices so their absence is detectable. Wind,
// Sys, and Visibility are optional in provider responses.
type Conditions struct {
	Name       string    `json:"name"`
	Coord      *Coord    `json:"coord"`
	Main       *Main     `json:"main"`
	Weather    []Weather `json:"weather"`
	Wind       *Wind     `json:"wind"`
	Visibility int       `json:"visibility"`
	Sys        *Sys      `json:"sys"`
	Dt         int64     `json:"dt"`
}

// Coord is the latitude/longitude of the observed location.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Main holds the primary measurements, metric units.
type Main struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

// Weather is one entry of the provider's weather classification list.
type Weather struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

// Wind holds wind measurements; speed is in m/s for metric requests.
type Wind struct {
	Speed float64 `json:"speed"`
}

// Sys carries country code and sunrise/sunset as epoch seconds.
type Sys struct {
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}
