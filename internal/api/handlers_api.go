package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/lox/meteowidget/internal/carousel"
	"github.com/lox/meteowidget/internal/districts"
	"github.com/lox/meteowidget/internal/widget"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleAPIWidget(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.host.View())
}

// handleAPIHover forwards a pointer entering a map hot-zone. Unknown zones
// are accepted and ignored, like a zone missing from the rendered map.
func (s *Server) handleAPIHover(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.host.PointerEnter(r.URL.Query().Get("zone"))
	w.WriteHeader(http.StatusNoContent)
}

// handleAPILeave forwards a pointer-leave. Only the map container counts.
func (s *Server) handleAPILeave(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s.host.PointerLeave(r.URL.Query().Get("target"))
	w.WriteHeader(http.StatusNoContent)
}

// handleAPICarousel moves the carousel directly (arrows, swipes).
func (s *Server) handleAPICarousel(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := s.host.Navigate(r.URL.Query().Get("go")); err != nil {
		if errors.Is(err, carousel.ErrInvalidPattern) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"index":                s.host.CarouselIndex(),
		"selected_district_id": s.host.Selected(),
	})
}

func (s *Server) handleAPIReload(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := s.reload(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"status": "failed", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(s.host.Status())})
}

// reload outlives a disconnecting client so it never strands the widget
// in a half-finished cycle.
func (s *Server) reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
	defer cancel()
	return s.host.Reload(ctx)
}

// handleAPIConfig updates language, forecast_days and selected_district.
// A language change reloads the data since the upstream is per language.
func (s *Server) handleAPIConfig(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	days := -1
	if v := r.Form.Get("forecast_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "forecast_days must be a non-negative integer", http.StatusBadRequest)
			return
		}
		days = n
	}
	selected := -1
	if v := r.Form.Get("selected_district"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !districts.Valid(n) {
			http.Error(w, "selected_district must be between 0 and 7", http.StatusBadRequest)
			return
		}
		selected = n
	}

	if days >= 0 {
		if err := s.host.SetForecastDays(days); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if selected >= 0 {
		if err := s.host.Select(selected); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if lang := r.Form.Get("language"); lang != "" && s.host.SetLanguage(lang) {
		log.Printf("api: language changed to %s, reloading", s.host.Language())
		if err := s.reload(r.Context()); err != nil && !errors.Is(err, widget.ErrDataLoadFailed) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.host.View())
}
