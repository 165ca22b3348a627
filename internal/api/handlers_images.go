package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/lox/meteowidget/internal/i18n"
	"github.com/lox/meteowidget/internal/imagegen"
	"github.com/lox/meteowidget/internal/view"
)

// handleOGImage serves an Open Graph preview of the regional forecast.
// Images are cached per language and data load.
func (s *Server) handleOGImage(w http.ResponseWriter, r *http.Request) {
	lang := s.host.Language()
	key := fmt.Sprintf("%s/%d/%d", lang, s.host.ForecastDays(), s.host.LoadedAt().Unix())

	if data, ok := s.ogImageCache.Get(key); ok {
		serveOGImage(w, data)
		return
	}

	ogData := imagegen.OGImageData{
		Title:  i18n.T(i18n.KeyTitle, lang),
		Footer: view.RegionLabel,
	}
	if region := s.host.Region(); region != nil {
		for _, f := range region.Forecast {
			if len(ogData.Days) >= min(s.host.ForecastDays(), imagegen.MaxOGDays) {
				break
			}
			ogData.Days = append(ogData.Days, imagegen.OGDay{
				Weekday: i18n.Weekday(f.Date.Time, lang),
				MaxTemp: f.TempMaxMax,
				MinTemp: f.TempMinMin,
			})
		}
	}

	data, err := imagegen.GenerateOGImage(ogData)
	if err != nil {
		log.Printf("og-image: failed to generate: %v", err)
		http.Error(w, "Failed to generate OG image", http.StatusInternalServerError)
		return
	}
	// Only cache images built from real data.
	if len(ogData.Days) > 0 {
		s.ogImageCache.Set(key, data)
	}
	serveOGImage(w, data)
}

func serveOGImage(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(data)
}
