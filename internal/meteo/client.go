// Package meteo fetches regional and per-district forecasts from the
// Open Data Hub weather API.
package meteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lox/meteowidget/internal/districts"
	"github.com/lox/meteowidget/internal/httputil"
	"github.com/lox/meteowidget/internal/metrics"
	"github.com/lox/meteowidget/internal/models"
)

const DefaultBaseURL = "https://tourism.opendatahub.bz.it/api/Weather"

// ErrUnexpectedStatus is wrapped by every non-200 upstream response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// FetchMode selects how the seven district requests are issued.
type FetchMode string

const (
	// Sequential awaits each district before requesting the next.
	Sequential FetchMode = "sequential"
	// Parallel issues all district requests at once and re-assembles
	// them in filter order. The first failure cancels the rest.
	Parallel FetchMode = "parallel"
)

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// RateLimit caps upstream requests per second; 0 disables pacing.
	RateLimit float64
	// Retries is the number of extra attempts on 429/5xx responses.
	Retries uint64
	Mode    FetchMode
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
	retries    uint64
	mode       FetchMode
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	mode := opts.Mode
	if mode != Parallel {
		mode = Sequential
	}
	return &Client{
		httpClient: httputil.NewClient(opts.Timeout),
		baseURL:    baseURL,
		token:      opts.Token,
		limiter:    limiter,
		retries:    opts.Retries,
		mode:       mode,
	}
}

// APILanguage returns the language parameter sent upstream. Only en, it
// and de are served; anything else becomes en.
func APILanguage(lang string) string {
	switch lang {
	case "en", "it", "de":
		return lang
	default:
		return "en"
	}
}

func (c *Client) regionURL(lang string) string {
	q := url.Values{"language": {APILanguage(lang)}}
	return c.baseURL + "?" + q.Encode()
}

func (c *Client) districtURL(lang string, filter int) string {
	q := url.Values{
		"language":  {APILanguage(lang)},
		"locfilter": {strconv.Itoa(filter)},
	}
	return c.baseURL + "/District?" + q.Encode()
}

// FetchRegion returns the whole-region summary.
func (c *Client) FetchRegion(ctx context.Context, lang string) (*models.RegionSummary, error) {
	var region models.RegionSummary
	if err := c.getJSON(ctx, "region", c.regionURL(lang), &region); err != nil {
		return nil, fmt.Errorf("fetch region: %w", err)
	}
	return &region, nil
}

// FetchDistrict returns one district's forecast.
func (c *Client) FetchDistrict(ctx context.Context, lang string, filter int) (models.DistrictSummary, error) {
	var d models.DistrictSummary
	if err := c.getJSON(ctx, "district", c.districtURL(lang, filter), &d); err != nil {
		return models.DistrictSummary{}, fmt.Errorf("fetch district %d: %w", filter, err)
	}
	if d.ID == 0 {
		d.ID = filter
	}
	return d, nil
}

// FetchDistricts returns all districts ordered by filter 1..7. Any failure
// aborts the whole set.
func (c *Client) FetchDistricts(ctx context.Context, lang string) ([]models.DistrictSummary, error) {
	if c.mode == Parallel {
		return c.fetchDistrictsParallel(ctx, lang)
	}
	out := make([]models.DistrictSummary, 0, districts.Count)
	for id := 1; id <= districts.Count; id++ {
		d, err := c.FetchDistrict(ctx, lang, id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *Client) fetchDistrictsParallel(ctx context.Context, lang string) ([]models.DistrictSummary, error) {
	out := make([]models.DistrictSummary, districts.Count)
	g, gctx := errgroup.WithContext(ctx)
	for id := 1; id <= districts.Count; id++ {
		id := id
		g.Go(func() error {
			d, err := c.FetchDistrict(gctx, lang, id)
			if err != nil {
				return err
			}
			out[id-1] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func (c *Client) getJSON(ctx context.Context, endpoint, u string, out any) error {
	var body []byte
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		metrics.UpstreamLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.UpstreamCallsTotal.WithLabelValues(endpoint, "error").Inc()
			return backoff.Permanent(fmt.Errorf("%s request: %w", endpoint, err))
		}
		defer resp.Body.Close()
		metrics.UpstreamCallsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			err := fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(b)))
			if retryable(resp.StatusCode) {
				log.Printf("meteo: %s: %v", endpoint, err)
				return err
			}
			return backoff.Permanent(err)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}
