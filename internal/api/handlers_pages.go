package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", s.host.View()); err != nil {
		log.Printf("template error: %v", err)
	}
}

// handlePartial renders one named block of the widget for in-place updates.
func (s *Server) handlePartial(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := s.tmpl.ExecuteTemplate(w, name, s.host.View()); err != nil {
			log.Printf("template error: %v", err)
		}
	}
}

func (s *Server) handleWidgetText(w http.ResponseWriter, r *http.Request) {
	text, err := RenderText(s.host.View())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

type HealthStatus struct {
	Status   string     `json:"status"`
	Widget   string     `json:"widget"`
	Language string     `json:"language"`
	Selected int        `json:"selected_district_id"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// handleHealth reports the widget's load state. A failed load is reported
// as degraded with 503 so probes notice, but the process stays up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:   "ok",
		Widget:   string(s.host.Status()),
		Language: s.host.Language(),
		Selected: s.host.Selected(),
	}
	if t := s.host.LoadedAt(); !t.IsZero() {
		health.LoadedAt = &t
	}
	if err := s.host.Err(); err != nil {
		health.Status = "degraded"
		health.Error = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}
