// Package carousel models a looping slide carousel: an index that can be
// moved by pattern and that notifies listeners once a move settles.
package carousel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrInvalidPattern = errors.New("invalid carousel pattern")
	ErrNotMounted     = errors.New("carousel not mounted")
)

// Carousel is safe for concurrent use. Listeners run on the goroutine that
// called Go, after the carousel's lock is released, so they may call back
// into the carousel.
type Carousel struct {
	mu        sync.Mutex
	length    int
	index     int
	loop      bool
	mounted   bool
	listeners []func(index int)
}

type Option func(*Carousel)

// WithoutLoop makes next/previous stop at the ends instead of wrapping.
func WithoutLoop() Option {
	return func(c *Carousel) { c.loop = false }
}

// New returns an unmounted carousel of length slides.
func New(length int, opts ...Option) *Carousel {
	c := &Carousel{length: length, loop: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount enables navigation.
func (c *Carousel) Mount() {
	c.mu.Lock()
	c.mounted = true
	c.mu.Unlock()
}

func (c *Carousel) Len() int {
	return c.length
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// OnSettled registers fn to be called with the new index after every move.
func (c *Carousel) OnSettled(fn func(index int)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Go moves the carousel. Patterns: "=N" absolute, ">" next, "<" previous,
// ">>" last slide, "<<" first slide.
func (c *Carousel) Go(pattern string) error {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return ErrNotMounted
	}
	next, err := c.resolve(pattern)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.index = next
	listeners := make([]func(int), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return nil
}

func (c *Carousel) resolve(pattern string) (int, error) {
	if c.length == 0 {
		return 0, fmt.Errorf("%w: %q on empty carousel", ErrInvalidPattern, pattern)
	}
	last := c.length - 1
	switch pattern {
	case ">":
		if c.index < last {
			return c.index + 1, nil
		}
		if c.loop {
			return 0, nil
		}
		return last, nil
	case "<":
		if c.index > 0 {
			return c.index - 1, nil
		}
		if c.loop {
			return last, nil
		}
		return 0, nil
	case ">>":
		return last, nil
	case "<<":
		return 0, nil
	}
	if n, ok := strings.CutPrefix(pattern, "="); ok {
		i, err := strconv.Atoi(n)
		if err != nil || i < 0 || i > last {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
}
