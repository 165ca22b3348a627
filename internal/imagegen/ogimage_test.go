package imagegen

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestGenerateOGImage(t *testing.T) {
	data, err := GenerateOGImage(OGImageData{
		Title: "Meteo Alto Adige",
		Days: []OGDay{
			{Weekday: "lunedì", MaxTemp: 5, MinTemp: -3},
			{Weekday: "martedì", MaxTemp: 7, MinTemp: -1},
		},
		Footer: "Südtirol",
	})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != OGWidth || b.Dy() != OGHeight {
		t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), OGWidth, OGHeight)
	}
}

func TestGenerateOGImage_NoDays(t *testing.T) {
	if _, err := GenerateOGImage(OGImageData{Title: "Weather"}); err != nil {
		t.Fatal(err)
	}
}

func TestOGImageCache(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewOGImageCache(5*time.Minute, clock)

	if _, ok := c.Get("en"); ok {
		t.Fatal("empty cache returned data")
	}
	c.Set("en", []byte("png"))
	if got, ok := c.Get("en"); !ok || string(got) != "png" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if _, ok := c.Get("de"); ok {
		t.Error("keys must not share entries")
	}

	clock.Advance(6 * time.Minute)
	if _, ok := c.Get("en"); ok {
		t.Error("expired entry returned")
	}
	c.Set("de", []byte("x"))
	if len(c.entries) != 1 {
		t.Errorf("expired entries kept: %d", len(c.entries))
	}
}
