// Package widget hosts one weather widget: it loads the data, mounts the
// carousel once the data is in and keeps the selection wired to it.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lox/meteowidget/internal/carousel"
	"github.com/lox/meteowidget/internal/districts"
	"github.com/lox/meteowidget/internal/i18n"
	"github.com/lox/meteowidget/internal/metrics"
	"github.com/lox/meteowidget/internal/models"
	"github.com/lox/meteowidget/internal/selection"
	"github.com/lox/meteowidget/internal/view"
)

// DefaultForecastDays is the forecast horizon when none is configured.
const DefaultForecastDays = 5

var (
	// ErrDataLoadFailed wraps every failed load cycle.
	ErrDataLoadFailed = errors.New("weather data load failed")
	ErrClosed         = errors.New("widget closed")
)

// Fetcher is the weather data source. *meteo.Client satisfies it.
type Fetcher interface {
	FetchDistricts(ctx context.Context, lang string) ([]models.DistrictSummary, error)
	FetchRegion(ctx context.Context, lang string) (*models.RegionSummary, error)
}

type Options struct {
	Language         string
	ForecastDays     int
	SelectedDistrict int
	Debounce         time.Duration
	Clock            clockwork.Clock
}

// Status is the coarse load state reported by the health endpoint.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

type Host struct {
	fetcher Fetcher
	sel     *selection.Synchronizer

	mu        sync.Mutex
	lang      string
	days      int
	loading   bool
	err       error
	region    *models.RegionSummary
	districts []models.DistrictSummary
	carousel  *carousel.Carousel
	loadedAt  time.Time
	clock     clockwork.Clock
	gen       uint64
	cancel    context.CancelFunc
	closed    bool
}

// New returns a host in the loading state. Nothing is fetched until Load.
func New(f Fetcher, opts Options) *Host {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	days := opts.ForecastDays
	if days < 0 {
		days = DefaultForecastDays
	}
	wait := opts.Debounce
	if wait <= 0 {
		wait = selection.DefaultDebounce
	}
	return &Host{
		fetcher: f,
		sel:     selection.New(opts.SelectedDistrict, clock, wait),
		lang:    i18n.Normalize(opts.Language),
		days:    days,
		loading: true,
		clock:   clock,
	}
}

// Load fetches districts and then the region. The carousel is mounted and
// the selection attached only after both succeed. A newer Load or Close
// supersedes an in-flight one, whose result is then discarded.
func (h *Host) Load(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	if h.cancel != nil {
		h.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	h.gen++
	gen := h.gen
	h.cancel = cancel
	h.loading = true
	lang := h.lang
	h.mu.Unlock()

	start := h.clock.Now()
	dists, err := h.fetcher.FetchDistricts(ctx, lang)
	var region *models.RegionSummary
	if err == nil {
		region, err = h.fetcher.FetchRegion(ctx, lang)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if gen != h.gen || h.closed {
		metrics.WidgetLoadsTotal.WithLabelValues("superseded").Inc()
		return context.Canceled
	}
	h.cancel = nil
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		// Cancelled by the caller: keep the previous data and error.
		h.loading = h.region == nil && h.err == nil
		metrics.WidgetLoadsTotal.WithLabelValues("cancelled").Inc()
		return ctx.Err()
	}
	h.loading = false

	if err != nil {
		h.err = fmt.Errorf("%w: %w", ErrDataLoadFailed, err)
		h.region, h.districts = nil, nil
		h.carousel = nil
		h.sel.Detach()
		metrics.WidgetLoadsTotal.WithLabelValues("failed").Inc()
		log.Printf("widget: load failed: %v", err)
		return h.err
	}

	h.err = nil
	h.region, h.districts = region, dists
	h.loadedAt = h.clock.Now()

	c := carousel.New(1 + len(dists))
	c.Mount()
	h.sel.Detach()
	h.carousel = c
	h.sel.Attach(c, hotZones())

	metrics.WidgetLoadsTotal.WithLabelValues("ok").Inc()
	log.Printf("widget: loaded %d districts in %s (lang=%s)", len(dists), h.clock.Since(start).Round(time.Millisecond), lang)
	return nil
}

// Reload runs a fresh load cycle, typically after a failure.
func (h *Host) Reload(ctx context.Context) error {
	return h.Load(ctx)
}

// Close cancels any in-flight load and detaches the selection.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.sel.Detach()
	h.carousel = nil
}

// hotZones builds one zone per district in district order.
func hotZones() []*selection.HotZone {
	slots := districts.Slots()
	zones := make([]*selection.HotZone, len(slots))
	for i, slot := range slots {
		zones[i] = &selection.HotZone{Slot: slot, District: i + 1}
	}
	return zones
}

// View composes the current widget.
func (h *Host) View() view.Widget {
	h.mu.Lock()
	in := view.Input{
		Region:       h.region,
		Districts:    h.districts,
		ForecastDays: h.days,
		Language:     h.lang,
		Loading:      h.loading,
		Err:          h.err,
	}
	h.mu.Unlock()

	in.Selected = h.sel.Selected()
	if zones := h.sel.Zones(); zones != nil {
		in.Zones = make([]view.ZoneView, len(zones))
		for i, z := range zones {
			in.Zones[i] = view.ZoneView{Slot: z.Slot, District: z.District, Class: string(z.Class)}
		}
	}
	return view.Compose(in)
}

func (h *Host) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case h.loading:
		return StatusLoading
	case h.err != nil:
		return StatusFailed
	default:
		return StatusReady
	}
}

// Err returns the last load error, if the last load failed.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// LoadedAt is when the current data arrived; zero before the first success.
func (h *Host) LoadedAt() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loadedAt
}

// Region returns the loaded region summary, or nil.
func (h *Host) Region() *models.RegionSummary {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.region
}

func (h *Host) Language() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lang
}

func (h *Host) ForecastDays() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.days
}

func (h *Host) Selected() int {
	return h.sel.Selected()
}

// SetLanguage switches the locale. It reports whether the language changed;
// a change needs a Reload since the upstream is queried per language.
func (h *Host) SetLanguage(lang string) bool {
	lang = i18n.Normalize(lang)
	h.mu.Lock()
	defer h.mu.Unlock()
	if lang == h.lang {
		return false
	}
	h.lang = lang
	return true
}

func (h *Host) SetForecastDays(days int) error {
	if days < 0 {
		return fmt.Errorf("forecast days must not be negative, got %d", days)
	}
	h.mu.Lock()
	h.days = days
	h.mu.Unlock()
	return nil
}

// Select shows district (0 for the whole region). Before the first load it
// only pre-seeds the selection.
func (h *Host) Select(district int) error {
	return h.sel.Select(district)
}

// PointerEnter forwards a hover on the hot-zone with the given slot.
func (h *Host) PointerEnter(slot string) {
	h.sel.PointerEnter(slot)
}

// PointerLeave forwards a pointer-leave on target.
func (h *Host) PointerLeave(target string) {
	h.sel.PointerLeave(target)
}

// Navigate moves the carousel with a pattern such as ">" or "=3".
func (h *Host) Navigate(pattern string) error {
	return h.sel.Navigate(pattern)
}

// CarouselIndex returns the displayed slide, or -1 before the carousel is mounted.
func (h *Host) CarouselIndex() int {
	h.mu.Lock()
	c := h.carousel
	h.mu.Unlock()
	if c == nil {
		return -1
	}
	return c.Index()
}
