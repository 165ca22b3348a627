// Package imagegen renders the Open Graph preview of the regional forecast.
package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontTitle   font.Face
	fontTemp    font.Face
	fontRegular font.Face
	fontOnce    sync.Once
	fontErr     error
)

func newFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func loadFonts() {
	fontOnce.Do(func() {
		var err error
		if fontTitle, err = newFace(gobold.TTF, 56); err != nil {
			fontErr = fmt.Errorf("create title face: %w", err)
			return
		}
		if fontTemp, err = newFace(gobold.TTF, 64); err != nil {
			fontErr = fmt.Errorf("create temperature face: %w", err)
			return
		}
		if fontRegular, err = newFace(goregular.TTF, 30); err != nil {
			fontErr = fmt.Errorf("create regular face: %w", err)
			return
		}
	})
}

// OGDay is one column of the forecast strip.
type OGDay struct {
	Weekday string
	MaxTemp int
	MinTemp int
}

// OGImageData contains the dynamic data for the OG image.
type OGImageData struct {
	Title string
	// Days is empty while data is loading or after a failed load.
	Days   []OGDay
	Footer string
}

// MaxOGDays bounds the forecast strip so columns stay legible.
const MaxOGDays = 5

// OGImageCache caches rendered images per key for a short period.
type OGImageCache struct {
	clock    clockwork.Clock
	cacheTTL time.Duration

	mu      sync.RWMutex
	entries map[string]ogEntry
}

type ogEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewOGImageCache(ttl time.Duration, clock clockwork.Clock) *OGImageCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OGImageCache{
		clock:    clock,
		cacheTTL: ttl,
		entries:  make(map[string]ogEntry),
	}
}

// Get returns the cached image for key if still valid.
func (c *OGImageCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.clock.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Set stores an image and drops expired entries.
func (c *OGImageCache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = ogEntry{data: data, expiresAt: now.Add(c.cacheTTL)}
}

// OGWidth and OGHeight are the standard Open Graph image dimensions.
const (
	OGWidth  = 1200
	OGHeight = 630
)

// GenerateOGImage draws the title over a blue gradient followed by one
// column per forecast day.
func GenerateOGImage(data OGImageData) ([]byte, error) {
	loadFonts()
	if fontErr != nil {
		return nil, fmt.Errorf("load fonts: %w", fontErr)
	}

	img := image.NewRGBA(image.Rect(0, 0, OGWidth, OGHeight))
	drawBackground(img)

	white := color.RGBA{255, 255, 255, 255}
	lightGray := color.RGBA{200, 210, 225, 255}

	drawText(img, data.Title, 60, 110, white, fontTitle)

	days := data.Days
	if len(days) > MaxOGDays {
		days = days[:MaxOGDays]
	}
	if len(days) > 0 {
		colW := (OGWidth - 120) / len(days)
		for i, d := range days {
			x := 60 + i*colW
			drawText(img, d.Weekday, x, 280, lightGray, fontRegular)
			drawText(img, fmt.Sprintf("%d°", d.MaxTemp), x, 370, white, fontTemp)
			drawText(img, fmt.Sprintf("%d°", d.MinTemp), x, 430, lightGray, fontRegular)
		}
	}

	if data.Footer != "" {
		drawText(img, data.Footer, 60, OGHeight-40, lightGray, fontRegular)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode OG image: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBackground(img *image.RGBA) {
	for y := 0; y < OGHeight; y++ {
		progress := float64(y) / float64(OGHeight)
		// Ease-in so the lower half darkens faster.
		progress = progress * progress
		r := uint8(40 - progress*25)
		g := uint8(110 - progress*70)
		b := uint8(180 - progress*100)
		for x := 0; x < OGWidth; x++ {
			img.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}
}

func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
