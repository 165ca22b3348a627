package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/lox/meteowidget/internal/api"
	"github.com/lox/meteowidget/internal/districts"
	"github.com/lox/meteowidget/internal/meteo"
	"github.com/lox/meteowidget/internal/selection"
	"github.com/lox/meteowidget/internal/widget"
)

// WidgetFlags configure the upstream client and the widget itself.
type WidgetFlags struct {
	Token            string          `help:"Bearer token for the weather API." env:"METEO_API_TOKEN" required:""`
	BaseURL          string          `help:"Weather API base URL." env:"METEO_BASE_URL" default:"${default_base_url}"`
	Language         string          `help:"Widget language (en, de, it, nl, cs, pl, fr, ru)." env:"METEO_LANGUAGE" default:"en"`
	ForecastDays     int             `help:"Number of forecast days to show." env:"METEO_FORECAST_DAYS" default:"5"`
	SelectedDistrict int             `help:"District shown first (0 = whole region, 1-7)." env:"METEO_SELECTED_DISTRICT" default:"0"`
	DistrictFetch    meteo.FetchMode `help:"How district requests are issued." enum:"sequential,parallel" default:"sequential"`
	RateLimit        float64         `help:"Upstream requests per second (0 = unlimited)." default:"0"`
	Retries          uint64          `help:"Extra attempts on 429/5xx responses." default:"0"`
	Timeout          time.Duration   `help:"Upstream request timeout." default:"30s"`
	Debounce         time.Duration   `help:"Hover debounce window." default:"${default_debounce}"`
}

func (f *WidgetFlags) Validate() error {
	if !districts.Valid(f.SelectedDistrict) {
		return fmt.Errorf("--selected-district must be between %d and %d, got %d", districts.WholeRegion, districts.Count, f.SelectedDistrict)
	}
	if f.ForecastDays < 0 {
		return fmt.Errorf("--forecast-days must not be negative, got %d", f.ForecastDays)
	}
	if f.RateLimit < 0 {
		return fmt.Errorf("--rate-limit must not be negative")
	}
	return nil
}

func (f *WidgetFlags) newHost() *widget.Host {
	client := meteo.NewClient(meteo.Options{
		BaseURL:   f.BaseURL,
		Token:     f.Token,
		Timeout:   f.Timeout,
		RateLimit: f.RateLimit,
		Retries:   f.Retries,
		Mode:      f.DistrictFetch,
	})
	return widget.New(client, widget.Options{
		Language:         f.Language,
		ForecastDays:     f.ForecastDays,
		SelectedDistrict: f.SelectedDistrict,
		Debounce:         f.Debounce,
	})
}

type ServeCmd struct {
	WidgetFlags `embed:""`
	Port        string        `help:"HTTP server port." env:"PORT" default:"8080"`
	Refresh     time.Duration `help:"Reload interval (0 = load once)." env:"METEO_REFRESH" default:"0"`
}

func (c *ServeCmd) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	host := c.newHost()
	defer host.Close()

	server := api.NewServer(host, c.Port)
	server.SetLoadTimeout(c.Timeout)

	refresher := widget.NewRefresher(host, nil, c.Refresh, c.Timeout)
	go refresher.Run(ctx)

	log.Printf("starting server on :%s", c.Port)
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

type FetchCmd struct {
	WidgetFlags `embed:""`
	Format      string `help:"Output format." enum:"json,text" default:"json"`
}

func (c *FetchCmd) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	host := c.newHost()
	defer host.Close()

	if err := host.Load(ctx); err != nil {
		return err
	}

	w := host.View()
	switch c.Format {
	case "text":
		text, err := api.RenderText(w)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		fmt.Println(text)
		return nil
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(w)
	}
}

var cli struct {
	Serve ServeCmd `cmd:"" default:"withargs" help:"Serve the weather widget over HTTP."`
	Fetch FetchCmd `cmd:"" help:"Load the widget once and print it."`
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}

	kctx := kong.Parse(&cli,
		kong.Name("meteowidget"),
		kong.Description("South Tyrol weather widget."),
		kong.UsageOnError(),
		kong.Vars{
			"default_base_url": meteo.DefaultBaseURL,
			"default_debounce": selection.DefaultDebounce.String(),
		},
	)
	kctx.FatalIfErrorf(kctx.Run())
}
