// Package districts holds the fixed association between weather stations
// (localities) and map districts.
package districts

import "github.com/lox/meteowidget/internal/models"

const (
	// WholeRegion is the selection sentinel for "no district selected".
	WholeRegion = 0
	// Dolomites has no station counterpart.
	Dolomites = 7
	// Count is the number of districts.
	Count = 7
)

// localitySlots maps locality ids to the CSS slot of their map marker.
var localitySlots = map[int]string{
	1: "schlanders",
	2: "meran",
	3: "bozen",
	4: "sterzing",
	5: "brixen",
	6: "bruneck",
	7: "dolomiten",
}

// districtSlots lists hot-zone element ids in district order (index = id-1).
var districtSlots = [Count]string{
	"bozen",
	"meran",
	"schlanders",
	"brixen",
	"sterzing",
	"bruneck",
	"dolomiten",
}

var localityToDistrict = map[int]int{
	1: 3,
	2: 2,
	3: 1,
	4: 5,
	5: 4,
	6: 6,
}

var districtToLocality = func() map[int]int {
	m := make(map[int]int, len(localityToDistrict))
	for loc, d := range localityToDistrict {
		m[d] = loc
	}
	return m
}()

// Valid reports whether id is WholeRegion or a district id.
func Valid(id int) bool {
	return id >= WholeRegion && id <= Count
}

// LocalitySlot returns the marker slot for a locality id.
func LocalitySlot(locality int) (string, bool) {
	s, ok := localitySlots[locality]
	return s, ok
}

// DistrictSlot returns the hot-zone slot for a district id.
func DistrictSlot(district int) (string, bool) {
	if district < 1 || district > Count {
		return "", false
	}
	return districtSlots[district-1], true
}

// DistrictForSlot is the inverse of DistrictSlot.
func DistrictForSlot(slot string) (int, bool) {
	for i, s := range districtSlots {
		if s == slot {
			return i + 1, true
		}
	}
	return 0, false
}

// Slots returns hot-zone slots in district order.
func Slots() []string {
	out := make([]string, Count)
	copy(out, districtSlots[:])
	return out
}

// DistrictForLocality returns the district a station belongs to.
func DistrictForLocality(locality int) (int, bool) {
	d, ok := localityToDistrict[locality]
	return d, ok
}

// LocalityForDistrict returns the station of a district. Dolomites has none.
func LocalityForDistrict(district int) (int, bool) {
	l, ok := districtToLocality[district]
	return l, ok
}

// PlaceholderPlaces is shown on the map while station data is missing.
var PlaceholderPlaces = []models.LocalityReading{
	{ID: 1, CityName: "Silandro", WeatherCode: "a", MinTemp: -7, MaxTemp: 2},
	{ID: 2, CityName: "Merano", WeatherCode: "b", MinTemp: -6, MaxTemp: 5},
	{ID: 3, CityName: "Bolzano", WeatherCode: "b", MinTemp: -5, MaxTemp: 5},
	{ID: 4, CityName: "Vipiteno", WeatherCode: "a", MinTemp: -13, MaxTemp: -1},
	{ID: 5, CityName: "Bressanone", WeatherCode: "b", MinTemp: -7, MaxTemp: 3},
	{ID: 6, CityName: "Brunico", WeatherCode: "b", MinTemp: -15, MaxTemp: -1},
	{ID: 7, CityName: "Dolomiten", WeatherCode: "b", MinTemp: -15, MaxTemp: -1},
}
