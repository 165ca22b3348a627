package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Date wraps time.Time for the upstream's zone-less timestamps ("2019-01-21T00:00:00").
type Date struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02T15:04:05"))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			d.Time = t
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// DailyForecast is one day of a district forecast. Index 0 of a
// DistrictSummary's BezirksForecast is today.
type DailyForecast struct {
	Date        Date   `json:"date"`
	WeatherCode string `json:"WeatherCode"`
	WeatherDesc string `json:"WeatherDesc,omitempty"`
	MinTemp     int    `json:"MinTemp"`
	MaxTemp     int    `json:"MaxTemp"`
	RainFrom    int    `json:"RainFrom,omitempty"`
	RainTo      int    `json:"RainTo,omitempty"`
	Part1       int    `json:"Part1,omitempty"`
	Part2       int    `json:"Part2,omitempty"`
	Part3       int    `json:"Part3,omitempty"`
	Part4       int    `json:"Part4,omitempty"`
	// TempString is a precomputed display string; it wins over MaxTemp/MinTemp.
	TempString string `json:"temp_string,omitempty"`
}

// DistrictSummary carries one district's multi-day forecast.
type DistrictSummary struct {
	ID              int             `json:"Id"`
	DistrictName    string          `json:"DistrictName,omitempty"`
	Date            Date            `json:"date"`
	BezirksForecast []DailyForecast `json:"BezirksForecast"`
}

// Today returns the first forecast entry, if any.
func (d DistrictSummary) Today() (DailyForecast, bool) {
	if len(d.BezirksForecast) == 0 {
		return DailyForecast{}, false
	}
	return d.BezirksForecast[0], true
}

// LocalityReading is a station's reading for today. Note the upstream
// spells the maximum "Maxtemp" here and "MaxTemp" on district forecasts.
type LocalityReading struct {
	ID          int    `json:"Id"`
	CityName    string `json:"CityName"`
	WeatherCode string `json:"WeatherCode"`
	WeatherDesc string `json:"WeatherDesc,omitempty"`
	MinTemp     int    `json:"MinTemp"`
	MaxTemp     int    `json:"Maxtemp"`
	Date        Date   `json:"date"`
}

// ShortName returns the part of CityName before the first "/".
func (l LocalityReading) ShortName() string {
	name, _, _ := strings.Cut(l.CityName, "/")
	return name
}

// RegionForecast is one day of the whole-region forecast.
type RegionForecast struct {
	Date        Date   `json:"date"`
	WeatherCode string `json:"Weathercode"`
	WeatherDesc string `json:"Weatherdesc,omitempty"`
	TempMinMin  int    `json:"TempMinmin"`
	TempMinMax  int    `json:"TempMinmax"`
	TempMaxMin  int    `json:"TempMaxmin"`
	TempMaxMax  int    `json:"TempMaxmax"`
	Reliability string `json:"Reliability,omitempty"`
}

// RegionSummary is the whole-region response.
type RegionSummary struct {
	ID             int               `json:"Id"`
	Date           Date              `json:"date"`
	EvolutionTitle string            `json:"evolutiontitle,omitempty"`
	Evolution      string            `json:"evolution,omitempty"`
	Stationdata    []LocalityReading `json:"Stationdata"`
	Forecast       []RegionForecast  `json:"Forecast"`
}
