package view

import (
	"github.com/lox/meteowidget/internal/districts"
	"github.com/lox/meteowidget/internal/i18n"
	"github.com/lox/meteowidget/internal/models"
)

// CardView is one carousel slide.
type CardView struct {
	HeaderImage string `json:"header_image"`
	Location    string `json:"location"`
	HasToday    bool   `json:"has_today"`
	IconURL     string `json:"icon_url,omitempty"`
	// TempString, when set, replaces MaxTemp/MinTemp.
	TempString string `json:"temp_string,omitempty"`
	MaxTemp    int    `json:"max_temp"`
	MinTemp    int    `json:"min_temp"`
	TodayLabel string `json:"today_label"`
	Date       string `json:"date"`
}

// CarouselView is either a placeholder or the region card followed by one
// card per district, so slide k shows district k.
type CarouselView struct {
	Placeholder bool       `json:"placeholder"`
	Cards       []CardView `json:"cards,omitempty"`
}

// ComposeCarouselCards builds the carousel. It needs district summaries and
// today's station readings; without either it returns a placeholder.
func ComposeCarouselCards(dists []models.DistrictSummary, region *models.RegionSummary, lang string) CarouselView {
	stations := todayStations(region)
	if len(dists) == 0 || len(stations) == 0 {
		return CarouselView{Placeholder: true}
	}

	todayLabel := i18n.T(i18n.KeyToday, lang)
	cards := make([]CardView, 0, len(dists)+1)

	regionToday, ok := dists[0].Today()
	cards = append(cards, card(RegionLabel, regionToday, ok, todayLabel, lang))

	for _, d := range dists {
		today, ok := d.Today()
		cards = append(cards, card(districtLabel(d.ID, stations, lang), today, ok, todayLabel, lang))
	}
	return CarouselView{Cards: cards}
}

// districtLabel names a district after its station, or falls back to the
// translated Dolomites label when no station belongs to it.
func districtLabel(district int, stations []models.LocalityReading, lang string) string {
	if loc, ok := districts.LocalityForDistrict(district); ok {
		for _, s := range stations {
			if s.ID == loc {
				return s.ShortName()
			}
		}
	}
	return i18n.T(i18n.KeyDolomites, lang)
}

func card(location string, today models.DailyForecast, hasToday bool, todayLabel, lang string) CardView {
	c := CardView{
		HeaderImage: CardHeaderImage,
		Location:    location,
		HasToday:    hasToday,
		TodayLabel:  todayLabel,
	}
	if !hasToday {
		return c
	}
	if today.WeatherCode != "" {
		c.IconURL = IconURL(today.WeatherCode)
	}
	c.TempString = today.TempString
	c.MaxTemp = today.MaxTemp
	c.MinTemp = today.MinTemp
	if !today.Date.IsZero() {
		c.Date = i18n.CardDate(today.Date.Time, lang)
	}
	return c
}
