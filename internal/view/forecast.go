package view

import (
	"github.com/lox/meteowidget/internal/districts"
	"github.com/lox/meteowidget/internal/i18n"
	"github.com/lox/meteowidget/internal/models"
)

// ForecastItemView is one day of the forecast strip.
type ForecastItemView struct {
	Day         string `json:"day"`
	IconURL     string `json:"icon_url"`
	MaxTemp     int    `json:"max_temp"`
	MinTemp     int    `json:"min_temp"`
	Placeholder bool   `json:"placeholder"`
}

type ForecastPanel struct {
	Placeholder bool               `json:"placeholder"`
	Items       []ForecastItemView `json:"items"`
}

// ComposeForecastPanel builds the forecast strip. The whole region starts
// at day 0; a district starts at day 1 because its day 0 is on the card.
// Missing data yields up to MaxPlaceholderItems skeleton items.
func ComposeForecastPanel(region *models.RegionSummary, dists []models.DistrictSummary, selected, days int, lang string) ForecastPanel {
	if days < 0 {
		days = 0
	}

	if selected == districts.WholeRegion {
		if region == nil || len(region.Forecast) == 0 {
			return placeholderPanel(days)
		}
		src := region.Forecast[:min(days, len(region.Forecast))]
		items := make([]ForecastItemView, 0, len(src))
		for _, f := range src {
			items = append(items, ForecastItemView{
				Day:     i18n.Weekday(f.Date.Time, lang),
				IconURL: IconURL(f.WeatherCode),
				MaxTemp: f.TempMaxMax,
				MinTemp: f.TempMinMin,
			})
		}
		return ForecastPanel{Items: items}
	}

	d, ok := findDistrict(dists, selected)
	if !ok {
		return placeholderPanel(days)
	}
	var src []models.DailyForecast
	if len(d.BezirksForecast) > 1 {
		src = d.BezirksForecast[1:min(days+1, len(d.BezirksForecast))]
	}
	items := make([]ForecastItemView, 0, len(src))
	for _, f := range src {
		items = append(items, ForecastItemView{
			Day:     i18n.Weekday(f.Date.Time, lang),
			IconURL: IconURL(f.WeatherCode),
			MaxTemp: f.MaxTemp,
			MinTemp: f.MinTemp,
		})
	}
	return ForecastPanel{Items: items}
}

func findDistrict(dists []models.DistrictSummary, id int) (models.DistrictSummary, bool) {
	for _, d := range dists {
		if d.ID == id {
			return d, true
		}
	}
	return models.DistrictSummary{}, false
}

func placeholderPanel(days int) ForecastPanel {
	n := min(days, MaxPlaceholderItems)
	items := make([]ForecastItemView, n)
	for i := range items {
		items[i].Placeholder = true
	}
	return ForecastPanel{Placeholder: true, Items: items}
}
