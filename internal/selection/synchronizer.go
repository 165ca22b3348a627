// Package selection keeps the map highlight and the carousel slide in step
// with the selected district.
package selection

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/lox/meteowidget/internal/districts"
	"github.com/lox/meteowidget/internal/metrics"
)

// ContainerID is the map element whose pointer-leave returns the carousel
// to the whole-region slide.
const ContainerID = "main_map"

// Carousel is the slide component the synchronizer drives.
type Carousel interface {
	Go(pattern string) error
	Index() int
	OnSettled(fn func(index int))
}

// HotZone is one interactive district area of the map.
type HotZone struct {
	Slot     string
	District int
}

// ZoneView is a hot-zone with its current class.
type ZoneView struct {
	Slot     string
	District int
	Class    ZoneClass
}

// Synchronizer owns the selected district. The carousel's settle
// notification is the only writer of the selection and of zone classes;
// hover handlers only request navigation.
type Synchronizer struct {
	debounce *Debouncer

	mu       sync.Mutex
	state    State
	zones    []*HotZone
	classes  []ZoneClass
	carousel Carousel
	onChange []func(selected int)
}

func New(initial int, clock clockwork.Clock, wait time.Duration) *Synchronizer {
	if !districts.Valid(initial) {
		initial = districts.WholeRegion
	}
	return &Synchronizer{
		debounce: NewDebouncer(clock, wait),
		state:    State{Selected: initial},
	}
}

// OnChange registers fn to run after the selection is rewritten.
func (s *Synchronizer) OnChange(fn func(selected int)) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// Attach wires the synchronizer to a mounted carousel and the rendered
// hot-zones (zones[i] is district i+1; nil entries are skipped). A
// pre-seeded selection is shown immediately.
func (s *Synchronizer) Attach(c Carousel, zones []*HotZone) {
	s.mu.Lock()
	s.zones = make([]*HotZone, districts.Count)
	for i, z := range zones {
		if i >= districts.Count || z == nil {
			continue
		}
		s.zones[i] = z
	}
	s.carousel = c
	initial := s.state.Selected
	s.classes = Project(districts.WholeRegion, districts.Count)
	s.mu.Unlock()

	c.OnSettled(s.handleIndexChange)

	if initial != districts.WholeRegion {
		s.navigate(initial, "initial")
	}
}

// Detach drops the carousel and any pending navigation. Hover events are
// ignored until the next Attach.
func (s *Synchronizer) Detach() {
	s.debounce.Cancel()
	s.mu.Lock()
	s.carousel = nil
	s.zones = nil
	s.classes = nil
	s.mu.Unlock()
}

// Selected returns the selected district, 0 for the whole region.
func (s *Synchronizer) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Selected
}

// Select pre-seeds the selection before the carousel exists, or navigates
// to it once attached.
func (s *Synchronizer) Select(district int) error {
	if !districts.Valid(district) {
		return fmt.Errorf("invalid district %d", district)
	}
	s.mu.Lock()
	attached := s.carousel != nil
	if !attached {
		s.state.Selected = district
	}
	s.mu.Unlock()
	if attached {
		s.navigate(district, "select")
	}
	return nil
}

// Zones returns the wired hot-zones with their classes.
func (s *Synchronizer) Zones() []ZoneView {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ZoneView
	for i, z := range s.zones {
		if z == nil {
			continue
		}
		out = append(out, ZoneView{Slot: z.Slot, District: z.District, Class: s.classes[i]})
	}
	return out
}

// PointerEnter handles the pointer entering the hot-zone with the given slot.
func (s *Synchronizer) PointerEnter(slot string) {
	s.mu.Lock()
	if s.carousel == nil {
		s.mu.Unlock()
		return
	}
	var zone *HotZone
	for _, z := range s.zones {
		if z != nil && z.Slot == slot {
			zone = z
			break
		}
	}
	if zone == nil {
		s.mu.Unlock()
		return
	}
	_, eff := Reduce(s.state, HoverEnter{District: zone.District})
	s.mu.Unlock()
	s.request(eff)
}

// PointerLeave handles the pointer leaving target. Only the map container
// counts; leaving an individual zone does nothing.
func (s *Synchronizer) PointerLeave(target string) {
	if target != ContainerID {
		return
	}
	s.mu.Lock()
	if s.carousel == nil {
		s.mu.Unlock()
		return
	}
	_, eff := Reduce(s.state, HoverLeave{})
	s.mu.Unlock()
	s.request(eff)
}

// Navigate moves the carousel directly (arrow clicks, swipes).
func (s *Synchronizer) Navigate(pattern string) error {
	s.mu.Lock()
	c := s.carousel
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	metrics.CarouselNavigations.WithLabelValues("direct").Inc()
	return c.Go(pattern)
}

func (s *Synchronizer) request(eff Effect) {
	if !eff.Navigate {
		return
	}
	target := eff.Target
	s.debounce.Submit(func() {
		s.navigate(target, "hover")
	})
}

func (s *Synchronizer) navigate(target int, source string) {
	s.mu.Lock()
	c := s.carousel
	s.mu.Unlock()
	if c == nil {
		return
	}
	metrics.CarouselNavigations.WithLabelValues(source).Inc()
	if err := c.Go(fmt.Sprintf("=%d", target)); err != nil {
		log.Printf("selection: navigate to %d: %v", target, err)
	}
}

func (s *Synchronizer) handleIndexChange(index int) {
	s.mu.Lock()
	prev := s.state.Selected
	next, _ := Reduce(s.state, IndexChanged{Index: index})
	s.state = next
	if s.zones != nil {
		s.classes = Project(next.Selected, districts.Count)
	}
	listeners := make([]func(int), len(s.onChange))
	copy(listeners, s.onChange)
	s.mu.Unlock()

	if next.Selected != prev {
		metrics.SelectionChanges.Inc()
	}
	for _, fn := range listeners {
		fn(next.Selected)
	}
}
