// Package view turns weather data and the current selection into the
// structures the templates render. Nothing here does I/O.
package view

import (
	"github.com/lox/meteowidget/internal/districts"
	"github.com/lox/meteowidget/internal/i18n"
	"github.com/lox/meteowidget/internal/models"
)

const (
	IconBaseURL = "https://www.suedtirol.info/static/img/weatherIcons"
	// CardHeaderImage is shown at the top of every carousel card.
	CardHeaderImage = "https://img-aws.ehowcdn.com/877x500p/s3-us-west-1.amazonaws.com/contentlab.studiod/getty/f24b4a7bf9f24d1ba5f899339e6949f3"
	// RegionLabel names the whole-region card.
	RegionLabel = "Südtirol"
	// MaxPlaceholderItems bounds the forecast skeleton regardless of horizon.
	MaxPlaceholderItems = 4
	// stationsToday is how many leading Stationdata entries describe today.
	stationsToday = 6
)

// IconURL returns the icon for a weather code.
func IconURL(code string) string {
	return IconBaseURL + "/" + code + ".svg"
}

// ZoneView is a map hot-zone and its class.
type ZoneView struct {
	Slot     string `json:"slot"`
	District int    `json:"district"`
	Class    string `json:"class"`
}

// Input is everything Compose needs.
type Input struct {
	Region       *models.RegionSummary
	Districts    []models.DistrictSummary
	Selected     int
	ForecastDays int
	Language     string
	Loading      bool
	Err          error
	// Zones are the hot-zone classes as last projected by the selection;
	// nil renders every zone in its default class.
	Zones []ZoneView
}

// Widget is the complete view model of the widget.
type Widget struct {
	Title      string        `json:"title"`
	Language   string        `json:"language"`
	Loading    bool          `json:"loading"`
	Failed     bool          `json:"failed"`
	ErrorText  string        `json:"error,omitempty"`
	ReloadText string        `json:"reload_text"`
	Selected   int           `json:"selected_district_id"`
	Zones      []ZoneView    `json:"zones"`
	Markers    []MarkerView  `json:"markers"`
	Carousel   CarouselView  `json:"carousel"`
	Forecast   ForecastPanel `json:"forecast"`
}

// Compose builds the whole widget. A failed load renders the same
// skeleton as loading, plus an error message.
func Compose(in Input) Widget {
	w := Widget{
		Title:      i18n.T(i18n.KeyTitle, in.Language),
		Language:   in.Language,
		Loading:    in.Loading,
		ReloadText: i18n.T(i18n.KeyReload, in.Language),
		Selected:   in.Selected,
		Zones:      in.Zones,
	}
	if w.Zones == nil {
		w.Zones = defaultZones()
	}

	region, dists := in.Region, in.Districts
	if in.Err != nil {
		w.Failed = true
		w.ErrorText = i18n.T(i18n.KeyDataUnavailable, in.Language)
		region, dists = nil, nil
	}

	w.Markers = ComposeMapMarkers(region, dists, in.Language)
	w.Carousel = ComposeCarouselCards(dists, region, in.Language)
	w.Forecast = ComposeForecastPanel(region, dists, in.Selected, in.ForecastDays, in.Language)
	return w
}

func defaultZones() []ZoneView {
	slots := districts.Slots()
	zones := make([]ZoneView, len(slots))
	for i, slot := range slots {
		zones[i] = ZoneView{Slot: slot, District: i + 1, Class: "weather-map-default"}
	}
	return zones
}

// todayStations returns the leading station readings, which are today's.
func todayStations(region *models.RegionSummary) []models.LocalityReading {
	if region == nil {
		return nil
	}
	if len(region.Stationdata) > stationsToday {
		return region.Stationdata[:stationsToday]
	}
	return region.Stationdata
}
