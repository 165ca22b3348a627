package view

import (
	"github.com/lox/meteowidget/internal/districts"
	"github.com/lox/meteowidget/internal/i18n"
	"github.com/lox/meteowidget/internal/models"
)

// MarkerView is one town marker on the map.
type MarkerView struct {
	Slot        string `json:"slot"`
	Name        string `json:"name"`
	MaxTemp     int    `json:"max_temp"`
	MinTemp     int    `json:"min_temp"`
	IconURL     string `json:"icon_url"`
	Placeholder bool   `json:"placeholder"`
}

// ComposeMapMarkers returns one marker per station reading of today plus a
// synthesized Dolomites marker from that district's first forecast day.
// Without station data it returns the fixed placeholder set.
func ComposeMapMarkers(region *models.RegionSummary, dists []models.DistrictSummary, lang string) []MarkerView {
	stations := todayStations(region)
	if len(stations) == 0 {
		markers := make([]MarkerView, 0, len(districts.PlaceholderPlaces))
		for _, p := range districts.PlaceholderPlaces {
			m := markerFor(p)
			m.Placeholder = true
			markers = append(markers, m)
		}
		return markers
	}

	markers := make([]MarkerView, 0, len(stations)+1)
	for _, s := range stations {
		markers = append(markers, markerFor(s))
	}
	if dolomites, ok := dolomitesReading(dists, lang); ok {
		markers = append(markers, markerFor(dolomites))
	}
	return markers
}

func markerFor(r models.LocalityReading) MarkerView {
	slot, _ := districts.LocalitySlot(r.ID)
	return MarkerView{
		Slot:    slot,
		Name:    r.ShortName(),
		MaxTemp: r.MaxTemp,
		MinTemp: r.MinTemp,
		IconURL: IconURL(r.WeatherCode),
	}
}

// dolomitesReading adapts the Dolomites district's today forecast to a
// station reading. District forecasts spell the maximum MaxTemp, station
// readings Maxtemp; both decode into the same field.
func dolomitesReading(dists []models.DistrictSummary, lang string) (models.LocalityReading, bool) {
	if len(dists) < districts.Dolomites {
		return models.LocalityReading{}, false
	}
	today, ok := dists[districts.Dolomites-1].Today()
	if !ok {
		return models.LocalityReading{}, false
	}
	return models.LocalityReading{
		ID:          districts.Dolomites,
		CityName:    i18n.T(i18n.KeyDolomites, lang),
		WeatherCode: today.WeatherCode,
		MinTemp:     today.MinTemp,
		MaxTemp:     today.MaxTemp,
		Date:        today.Date,
	}, true
}
