package api

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lox/meteowidget/internal/imagegen"
	"github.com/lox/meteowidget/internal/widget"
)

// DefaultLoadTimeout bounds a reload triggered over HTTP.
const DefaultLoadTimeout = 30 * time.Second

type Server struct {
	host         *widget.Host
	port         string
	tmpl         *template.Template
	ogImageCache *imagegen.OGImageCache
	loadTimeout  time.Duration
}

func NewServer(host *widget.Host, port string) *Server {
	return &Server{
		host:         host,
		port:         port,
		tmpl:         newTemplates(),
		ogImageCache: imagegen.NewOGImageCache(5*time.Minute, nil),
		loadTimeout:  DefaultLoadTimeout,
	}
}

// SetLoadTimeout overrides the timeout of HTTP-triggered reloads.
func (s *Server) SetLoadTimeout(d time.Duration) {
	if d > 0 {
		s.loadTimeout = d
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/widget.txt", s.handleWidgetText)
	mux.HandleFunc("/og-image.png", s.handleOGImage)
	mux.HandleFunc("/partials/widget", s.handlePartial("widget"))
	mux.HandleFunc("/partials/map", s.handlePartial("map"))
	mux.HandleFunc("/partials/carousel", s.handlePartial("carousel"))
	mux.HandleFunc("/partials/forecast", s.handlePartial("forecast"))
	mux.HandleFunc("/api/widget", s.handleAPIWidget)
	mux.HandleFunc("/api/hover", s.handleAPIHover)
	mux.HandleFunc("/api/leave", s.handleAPILeave)
	mux.HandleFunc("/api/carousel", s.handleAPICarousel)
	mux.HandleFunc("/api/reload", s.handleAPIReload)
	mux.HandleFunc("/api/config", s.handleAPIConfig)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
