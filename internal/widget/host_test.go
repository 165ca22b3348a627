package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/meteowidget/internal/models"
	"github.com/lox/meteowidget/internal/selection"
)

type fakeFetcher struct {
	mu          sync.Mutex
	calls       []string
	langs       []string
	districtErr error
	regionErr   error
	// block, when set, holds FetchDistricts until it is closed or ctx ends.
	block chan struct{}
}

func (f *fakeFetcher) record(call, lang string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.langs = append(f.langs, lang)
	f.mu.Unlock()
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeFetcher) FetchDistricts(ctx context.Context, lang string) ([]models.DistrictSummary, error) {
	f.record("districts", lang)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.districtErr != nil {
		return nil, f.districtErr
	}
	out := make([]models.DistrictSummary, 7)
	for i := range out {
		out[i] = models.DistrictSummary{
			ID: i + 1,
			BezirksForecast: []models.DailyForecast{
				{WeatherCode: "a", MaxTemp: i + 10, MinTemp: i},
				{WeatherCode: "b", MaxTemp: i + 11, MinTemp: i + 1},
				{WeatherCode: "c", MaxTemp: i + 12, MinTemp: i + 2},
			},
		}
	}
	return out, nil
}

func (f *fakeFetcher) FetchRegion(ctx context.Context, lang string) (*models.RegionSummary, error) {
	f.record("region", lang)
	if f.regionErr != nil {
		return nil, f.regionErr
	}
	r := &models.RegionSummary{ID: 1}
	for i := 1; i <= 6; i++ {
		r.Stationdata = append(r.Stationdata, models.LocalityReading{ID: i, CityName: "Town/Ort", WeatherCode: "a"})
	}
	for i := 0; i < 5; i++ {
		r.Forecast = append(r.Forecast, models.RegionForecast{WeatherCode: "r", TempMaxMax: 20 + i})
	}
	return r, nil
}

func newHost(f Fetcher, opts Options) (*Host, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	opts.Clock = clock
	return New(f, opts), clock
}

func TestLoad_FetchesDistrictsThenRegion(t *testing.T) {
	f := &fakeFetcher{}
	h, _ := newHost(f, Options{Language: "de-AT", ForecastDays: 3})

	assert.Equal(t, StatusLoading, h.Status())
	assert.Equal(t, -1, h.CarouselIndex(), "no carousel before data")

	require.NoError(t, h.Load(context.Background()))
	assert.Equal(t, []string{"districts", "region"}, f.Calls())
	assert.Equal(t, []string{"de", "de"}, f.langs)
	assert.Equal(t, StatusReady, h.Status())
	assert.Equal(t, 0, h.CarouselIndex())
	assert.False(t, h.LoadedAt().IsZero())

	w := h.View()
	assert.False(t, w.Loading)
	assert.Len(t, w.Carousel.Cards, 8)
	assert.Len(t, w.Forecast.Items, 3)
	assert.Equal(t, 20, w.Forecast.Items[0].MaxTemp)
}

func TestLoad_DistrictFailureSkipsRegion(t *testing.T) {
	f := &fakeFetcher{districtErr: errors.New("502")}
	h, _ := newHost(f, Options{})

	err := h.Load(context.Background())
	require.ErrorIs(t, err, ErrDataLoadFailed)
	assert.Equal(t, []string{"districts"}, f.Calls())
	assert.Equal(t, StatusFailed, h.Status())

	w := h.View()
	assert.True(t, w.Failed)
	assert.True(t, w.Carousel.Placeholder)
	assert.Equal(t, -1, h.CarouselIndex())
}

func TestReload_RecoversAndClearsStaleData(t *testing.T) {
	f := &fakeFetcher{}
	h, _ := newHost(f, Options{ForecastDays: 2})
	require.NoError(t, h.Load(context.Background()))
	require.NotNil(t, h.Region())

	f.regionErr = errors.New("timeout")
	require.ErrorIs(t, h.Reload(context.Background()), ErrDataLoadFailed)
	assert.Nil(t, h.Region(), "no stale data after a failure")
	assert.True(t, h.View().Forecast.Placeholder)

	f.regionErr = nil
	require.NoError(t, h.Reload(context.Background()))
	assert.Equal(t, StatusReady, h.Status())
	assert.NoError(t, h.Err())
}

func TestPreseededSelection(t *testing.T) {
	h, _ := newHost(&fakeFetcher{}, Options{SelectedDistrict: 3, ForecastDays: 2})
	assert.Equal(t, 3, h.Selected())

	require.NoError(t, h.Load(context.Background()))
	assert.Equal(t, 3, h.CarouselIndex())

	w := h.View()
	assert.Equal(t, 3, w.Selected)
	for _, z := range w.Zones {
		if z.District == 3 {
			assert.Equal(t, string(selection.ClassActive), z.Class)
		} else {
			assert.Equal(t, string(selection.ClassDefault), z.Class)
		}
	}
	require.Len(t, w.Forecast.Items, 2)
	assert.Equal(t, 13, w.Forecast.Items[0].MaxTemp, "district forecast starts at day 1")
}

func TestSelectionSurvivesReload(t *testing.T) {
	h, _ := newHost(&fakeFetcher{}, Options{})
	require.NoError(t, h.Load(context.Background()))
	require.NoError(t, h.Select(5))
	assert.Equal(t, 5, h.Selected())

	require.NoError(t, h.Reload(context.Background()))
	assert.Equal(t, 5, h.CarouselIndex())
	assert.Equal(t, 5, h.Selected())
}

func TestHoverBeforeLoadIsNoop(t *testing.T) {
	h, _ := newHost(&fakeFetcher{}, Options{})
	assert.NotPanics(t, func() {
		h.PointerEnter("bozen")
		h.PointerLeave(selection.ContainerID)
		assert.NoError(t, h.Navigate(">"))
	})
	assert.Equal(t, 0, h.Selected())
}

func TestHoverNavigatesAfterDebounce(t *testing.T) {
	h, clock := newHost(&fakeFetcher{}, Options{})
	require.NoError(t, h.Load(context.Background()))

	h.PointerEnter("meran")
	assert.Equal(t, 0, h.Selected())
	clock.Advance(selection.DefaultDebounce)
	require.Eventually(t, func() bool { return h.Selected() == 2 }, time.Second, 5*time.Millisecond)

	h.PointerLeave(selection.ContainerID)
	clock.Advance(selection.DefaultDebounce)
	require.Eventually(t, func() bool { return h.Selected() == 0 }, time.Second, 5*time.Millisecond)
}

func TestNavigate(t *testing.T) {
	h, _ := newHost(&fakeFetcher{}, Options{})
	require.NoError(t, h.Load(context.Background()))

	require.NoError(t, h.Navigate("<"))
	assert.Equal(t, 7, h.Selected(), "carousel loops")
	require.NoError(t, h.Navigate("<<"))
	assert.Equal(t, 0, h.Selected())
	assert.Error(t, h.Navigate("sideways"))
}

func TestClose_DiscardsInFlightLoad(t *testing.T) {
	f := &fakeFetcher{block: make(chan struct{})}
	h, _ := newHost(f, Options{})

	done := make(chan error, 1)
	go func() { done <- h.Load(context.Background()) }()
	require.Eventually(t, func() bool { return len(f.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	h.Close()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("load did not return after Close")
	}
	assert.Equal(t, StatusLoading, h.Status(), "cancelled load leaves state untouched")
	assert.Nil(t, h.Region())
	assert.ErrorIs(t, h.Load(context.Background()), ErrClosed)
}

func TestLoad_CallerCancelLeavesState(t *testing.T) {
	f := &fakeFetcher{}
	h, _ := newHost(f, Options{})
	require.NoError(t, h.Load(context.Background()))

	f.block = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.Load(ctx), context.Canceled)
	assert.NotNil(t, h.Region())
	assert.NoError(t, h.Err())
}

func TestSetters(t *testing.T) {
	h, _ := newHost(&fakeFetcher{}, Options{Language: "it"})
	assert.False(t, h.SetLanguage("it-IT"))
	assert.True(t, h.SetLanguage("xx"))
	assert.Equal(t, "en", h.Language())

	require.NoError(t, h.SetForecastDays(2))
	assert.Equal(t, 2, h.ForecastDays())
	assert.Error(t, h.SetForecastDays(-1))
	assert.Error(t, h.Select(8))
}

func TestRefresher_LoadsThenReloadsOnTick(t *testing.T) {
	f := &fakeFetcher{}
	h, clock := newHost(f, Options{})
	r := NewRefresher(h, clock, time.Hour, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return h.Status() == StatusReady }, time.Second, 5*time.Millisecond)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Hour)
	require.Eventually(t, func() bool { return len(f.Calls()) == 4 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestRefresher_NoIntervalLoadsOnce(t *testing.T) {
	f := &fakeFetcher{}
	h, clock := newHost(f, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewRefresher(h, clock, 0, time.Second).Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return h.Status() == StatusReady }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, []string{"districts", "region"}, f.Calls())
}
