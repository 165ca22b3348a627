// Package i18n is a flat translation table plus the few locale-aware
// date strings the widget shows.
package i18n

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Fallback is used whenever a language or key is missing.
const Fallback = "en"

const (
	KeyTitle           = "weather_in_south_tyrol"
	KeyToday           = "today"
	KeyDolomites       = "dolomiti"
	KeyDataUnavailable = "data_unavailable"
	KeyReload          = "reload"
)

var table = map[string]map[string]string{
	KeyTitle: {
		"en": "Weather in South Tyrol",
		"de": "Das aktuelle Wetter in Südtirol",
		"it": "Meteo Alto Adige",
		"nl": "Weer",
		"cs": "Počasí",
		"pl": "Pogoda",
		"fr": "Météo",
		"ru": "Погода",
	},
	KeyToday: {
		"en": "today",
		"de": "heute",
		"it": "oggi",
		"nl": "today",
		"cs": "today",
		"pl": "today",
		"fr": "today",
		"ru": "today",
	},
	KeyDolomites: {
		"en": "Dolomiti",
		"de": "Dolomiten",
		"it": "Dolomiti",
		"nl": "Dolomiti",
		"cs": "Dolomiti",
		"pl": "Dolomiti",
		"fr": "Dolomiti",
		"ru": "Dolomiti",
	},
	KeyDataUnavailable: {
		"en": "Weather data is currently unavailable",
		"de": "Wetterdaten sind derzeit nicht verfügbar",
		"it": "Dati meteo al momento non disponibili",
	},
	KeyReload: {
		"en": "Reload",
		"de": "Neu laden",
		"it": "Ricarica",
	},
}

// weekdays are indexed by time.Weekday (Sunday first).
var weekdays = map[string][7]string{
	"en": {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	"de": {"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
	"it": {"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"},
	"fr": {"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
	"nl": {"zondag", "maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag"},
	"cs": {"neděle", "pondělí", "úterý", "středa", "čtvrtek", "pátek", "sobota"},
	"ru": {"воскресенье", "понедельник", "вторник", "среда", "четверг", "пятница", "суббота"},
	"pl": {"niedziela", "poniedziałek", "wtorek", "środa", "czwartek", "piątek", "sobota"},
}

// Supported reports whether lang has weekday names.
func Supported(lang string) bool {
	_, ok := weekdays[lang]
	return ok
}

// Normalize reduces a locale tag ("de-AT", "IT") to a supported base
// language, falling back to English.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return Fallback
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Fallback
	}
	base, _ := tag.Base()
	if b := base.String(); Supported(b) {
		return b
	}
	return Fallback
}

// T looks up key in lang. Unknown languages use English; unknown keys
// return the key itself.
func T(key, lang string) string {
	row, ok := table[key]
	if !ok {
		return key
	}
	if s, ok := row[lang]; ok {
		return s
	}
	if s, ok := row[Fallback]; ok {
		return s
	}
	return key
}

// Weekday returns the localised weekday name of t.
func Weekday(t time.Time, lang string) string {
	names, ok := weekdays[lang]
	if !ok {
		names = weekdays[Fallback]
	}
	return names[t.Weekday()]
}

// CardDate formats t as "Weekday DD.MM.YYYY" for German and
// "Weekday DD/MM/YYYY" for every other language.
func CardDate(t time.Time, lang string) string {
	sep := "/"
	if lang == "de" {
		sep = "."
	}
	return fmt.Sprintf("%s %02d%s%02d%s%04d", Weekday(t, lang), t.Day(), sep, int(t.Month()), sep, t.Year())
}
