package selection

import "github.com/lox/meteowidget/internal/districts"

// ZoneClass is the visual state of a map hot-zone.
type ZoneClass string

const (
	ClassDefault ZoneClass = "weather-map-default"
	ClassActive  ZoneClass = "weather-map-active"
)

// State is everything the synchronizer decides on.
type State struct {
	Selected int
}

// Event is one of HoverEnter, HoverLeave or IndexChanged.
type Event interface {
	event()
}

// HoverEnter fires when the pointer enters a district's hot-zone.
type HoverEnter struct{ District int }

// HoverLeave fires when the pointer leaves the map container.
type HoverLeave struct{}

// IndexChanged fires after the carousel settles on a slide.
type IndexChanged struct{ Index int }

func (HoverEnter) event()   {}
func (HoverLeave) event()   {}
func (IndexChanged) event() {}

// Effect is a navigation request produced by a hover event.
type Effect struct {
	Navigate bool
	Target   int
}

// Reduce applies ev to s. Hover events never touch the selection; they only
// ask for a carousel move. Only IndexChanged rewrites Selected.
func Reduce(s State, ev Event) (State, Effect) {
	switch e := ev.(type) {
	case HoverEnter:
		if e.District < 1 || e.District > districts.Count {
			return s, Effect{}
		}
		return s, Effect{Navigate: true, Target: e.District}
	case HoverLeave:
		return s, Effect{Navigate: true, Target: districts.WholeRegion}
	case IndexChanged:
		if !districts.Valid(e.Index) {
			return s, Effect{}
		}
		return State{Selected: e.Index}, Effect{}
	}
	return s, Effect{}
}

// Project returns the class of each of n hot-zones (zone i is district
// i+1) for the given selection.
func Project(selected, n int) []ZoneClass {
	classes := make([]ZoneClass, n)
	for i := range classes {
		classes[i] = ClassDefault
	}
	if selected > 0 && selected <= n {
		classes[selected-1] = ClassActive
	}
	return classes
}
