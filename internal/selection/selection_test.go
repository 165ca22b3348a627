package selection

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/meteowidget/internal/carousel"
	"github.com/lox/meteowidget/internal/districts"
)

// recordingCarousel records every Go call on top of a real carousel.
type recordingCarousel struct {
	*carousel.Carousel
	mu    sync.Mutex
	calls []string
}

func (r *recordingCarousel) Go(pattern string) error {
	r.mu.Lock()
	r.calls = append(r.calls, pattern)
	r.mu.Unlock()
	return r.Carousel.Go(pattern)
}

func (r *recordingCarousel) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func allZones() []*HotZone {
	zones := make([]*HotZone, 0, districts.Count)
	for i, slot := range districts.Slots() {
		zones = append(zones, &HotZone{Slot: slot, District: i + 1})
	}
	return zones
}

func setup(t *testing.T, initial int) (*Synchronizer, *recordingCarousel, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	s := New(initial, clock, DefaultDebounce)
	c := &recordingCarousel{Carousel: carousel.New(districts.Count + 1)}
	c.Mount()
	s.Attach(c, allZones())
	return s, c, clock
}

func classes(s *Synchronizer) map[string]ZoneClass {
	out := map[string]ZoneClass{}
	for _, z := range s.Zones() {
		out[z.Slot] = z.Class
	}
	return out
}

func activeSlots(s *Synchronizer) []string {
	var out []string
	for _, z := range s.Zones() {
		if z.Class == ClassActive {
			out = append(out, z.Slot)
		}
	}
	return out
}

func TestReduce(t *testing.T) {
	st := State{Selected: 2}

	next, eff := Reduce(st, HoverEnter{District: 5})
	assert.Equal(t, st, next, "hover must not change the selection")
	assert.Equal(t, Effect{Navigate: true, Target: 5}, eff)

	next, eff = Reduce(st, HoverLeave{})
	assert.Equal(t, st, next)
	assert.Equal(t, Effect{Navigate: true, Target: 0}, eff)

	next, eff = Reduce(st, IndexChanged{Index: 7})
	assert.Equal(t, State{Selected: 7}, next)
	assert.False(t, eff.Navigate)

	next, _ = Reduce(st, IndexChanged{Index: 9})
	assert.Equal(t, st, next, "out-of-range index is ignored")

	_, eff = Reduce(st, HoverEnter{District: 0})
	assert.False(t, eff.Navigate)
}

func TestProject(t *testing.T) {
	assert.Equal(t, []ZoneClass{ClassDefault, ClassDefault, ClassDefault}, Project(0, 3))
	assert.Equal(t, []ZoneClass{ClassDefault, ClassActive, ClassDefault}, Project(2, 3))
	assert.Equal(t, []ZoneClass{ClassDefault, ClassDefault}, Project(5, 2))
}

func TestIndexChange_HighlightsExactlyOneZone(t *testing.T) {
	s, c, _ := setup(t, 0)

	for k := 1; k <= districts.Count; k++ {
		require.NoError(t, c.Carousel.Go("="+strconv.Itoa(k)))
		assert.Equal(t, k, s.Selected())
		slot, _ := districts.DistrictSlot(k)
		assert.Equal(t, []string{slot}, activeSlots(s))
	}

	require.NoError(t, c.Carousel.Go("=0"))
	assert.Equal(t, 0, s.Selected())
	assert.Empty(t, activeSlots(s))
	for slot, class := range classes(s) {
		assert.Equal(t, ClassDefault, class, slot)
	}
}

func TestIndexChange_Idempotent(t *testing.T) {
	s, c, _ := setup(t, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Carousel.Go("=4"))
	}
	assert.Equal(t, 4, s.Selected())
	assert.Equal(t, []string{"brixen"}, activeSlots(s))
}

func TestHover_DebouncesBurstToLastZone(t *testing.T) {
	s, c, clock := setup(t, 0)

	s.PointerEnter("bozen")
	clock.Advance(100 * time.Millisecond)
	s.PointerEnter("meran")
	clock.Advance(100 * time.Millisecond)
	s.PointerEnter("meran")
	clock.Advance(100 * time.Millisecond)
	s.PointerEnter("bruneck")

	assert.Empty(t, c.Calls(), "nothing fires inside the window")
	assert.Equal(t, 0, s.Selected())
	assert.Empty(t, activeSlots(s), "hover alone never marks a zone active")

	clock.Advance(DefaultDebounce)
	require.Eventually(t, func() bool { return len(c.Calls()) > 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, []string{"=6"}, c.Calls())
	assert.Equal(t, 6, s.Selected())
	assert.Equal(t, []string{"bruneck"}, activeSlots(s))
}

func TestHover_LeaveSharesTheWindow(t *testing.T) {
	s, c, clock := setup(t, 0)

	s.PointerEnter("schlanders")
	clock.Advance(50 * time.Millisecond)
	s.PointerLeave(ContainerID)
	clock.Advance(DefaultDebounce)

	require.Eventually(t, func() bool { return len(c.Calls()) > 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"=0"}, c.Calls())
	assert.Equal(t, 0, s.Selected())
}

func TestLeave_OnlyContainer(t *testing.T) {
	s, c, clock := setup(t, 0)
	s.PointerLeave("bozen")
	clock.Advance(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, c.Calls())
	assert.False(t, s.debounce.Pending())
}

func TestHover_UnknownZoneIsIgnored(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(0, clock, DefaultDebounce)
	c := &recordingCarousel{Carousel: carousel.New(8)}
	c.Mount()

	zones := allZones()
	zones[1] = nil // meran missing from the rendered map
	s.Attach(c, zones)

	s.PointerEnter("meran")
	s.PointerEnter("nowhere")
	assert.False(t, s.debounce.Pending())
	assert.Len(t, s.Zones(), districts.Count-1)

	require.NoError(t, c.Carousel.Go("=2"))
	assert.Equal(t, 2, s.Selected())
	assert.Empty(t, activeSlots(s), "no zone to highlight for a missing element")
}

func TestHover_BeforeAttachIsNoop(t *testing.T) {
	s := New(0, clockwork.NewFakeClock(), DefaultDebounce)
	assert.NotPanics(t, func() {
		s.PointerEnter("bozen")
		s.PointerLeave(ContainerID)
		require.NoError(t, s.Navigate(">"))
	})
	assert.False(t, s.debounce.Pending())
	assert.Empty(t, s.Zones())
}

func TestAttach_PreseededSelection(t *testing.T) {
	s, c, _ := setup(t, 3)
	assert.Equal(t, []string{"=3"}, c.Calls())
	assert.Equal(t, 3, c.Index())
	assert.Equal(t, 3, s.Selected())
	assert.Equal(t, []string{"schlanders"}, activeSlots(s))
}

func TestNew_InvalidInitialFallsBack(t *testing.T) {
	s := New(12, clockwork.NewFakeClock(), DefaultDebounce)
	assert.Equal(t, 0, s.Selected())
	assert.Error(t, s.Select(-1))
}

func TestSelect(t *testing.T) {
	s := New(0, clockwork.NewFakeClock(), DefaultDebounce)
	require.NoError(t, s.Select(5))
	assert.Equal(t, 5, s.Selected(), "before attach the value is stored")

	c := &recordingCarousel{Carousel: carousel.New(8)}
	c.Mount()
	s.Attach(c, allZones())
	assert.Equal(t, []string{"=5"}, c.Calls())

	require.NoError(t, s.Select(1))
	assert.Equal(t, 1, s.Selected())
	assert.Equal(t, []string{"bozen"}, activeSlots(s))
}

func TestNavigate_ArrowsUpdateSelection(t *testing.T) {
	s, _, _ := setup(t, 0)
	var seen []int
	s.OnChange(func(sel int) { seen = append(seen, sel) })

	require.NoError(t, s.Navigate(">"))
	require.NoError(t, s.Navigate(">"))
	require.NoError(t, s.Navigate("<<"))
	assert.Equal(t, []int{1, 2, 0}, seen)
}

func TestDetach_CancelsPending(t *testing.T) {
	s, c, clock := setup(t, 0)
	s.PointerEnter("bozen")
	s.Detach()
	clock.Advance(time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, c.Calls())
	s.PointerEnter("bozen")
	assert.False(t, s.debounce.Pending())
}

func TestDebouncer_CancelAndPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := NewDebouncer(clock, time.Second)
	ran := make(chan struct{}, 1)

	d.Submit(func() { ran <- struct{}{} })
	assert.True(t, d.Pending())
	d.Cancel()
	assert.False(t, d.Pending())
	clock.Advance(2 * time.Second)

	d.Submit(func() { ran <- struct{}{} })
	clock.Advance(time.Second)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("debounced command did not run")
	}
	select {
	case <-ran:
		t.Fatal("cancelled command ran")
	case <-time.After(20 * time.Millisecond):
	}
}
