package i18n

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"de", "de"},
		{"de-AT", "de"},
		{"IT", "it"},
		{"ru", "ru"},
		{"", "en"},
		{"es", "en"},
		{"not a tag!", "en"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestT(t *testing.T) {
	if got := T(KeyDolomites, "de"); got != "Dolomiten" {
		t.Errorf("T(dolomiti, de) = %q", got)
	}
	if got := T(KeyReload, "ru"); got != "Reload" {
		t.Errorf("missing language should fall back to English, got %q", got)
	}
	if got := T("nope", "de"); got != "nope" {
		t.Errorf("missing key should return key, got %q", got)
	}
}

func TestCardDate(t *testing.T) {
	// 2019-01-21 is a Monday.
	d := time.Date(2019, 1, 21, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		lang, want string
	}{
		{"de", "Montag 21.01.2019"},
		{"en", "Monday 21/01/2019"},
		{"it", "lunedì 21/01/2019"},
		{"xx", "Monday 21/01/2019"},
	}
	for _, tt := range tests {
		if got := CardDate(d, tt.lang); got != tt.want {
			t.Errorf("CardDate(%s) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}
