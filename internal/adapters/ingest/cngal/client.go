// Package cngal provides a resilient client for the CnGal upcoming games listing
package cngal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	perr "cngalcal/internal/platform/errors"
	"cngalcal/internal/platform/logger"

	"github.com/jonboulle/clockwork"
)

const (
	baseURLDefault   = "https://api.cngal.org"
	siteURLDefault   = "https://www.cngal.org/"
	upcomingPath     = "/api/home/ListUpcomingGames"
	defaultTimeout   = 30 * time.Second
	defaultUA        = "cngalcal"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	maxBody          = 8 << 20
)

// Options configures the Client
type Options struct {
	// BaseURL is the API host, SiteURL the public site entry links are joined onto
	BaseURL   string
	SiteURL   string
	UserAgent string
	Timeout   time.Duration

	// Retry config for transport errors, 429 and transient 5xx.
	// Zero MaxRetries takes the default, a negative value disables retries
	MaxRetries int
	RetryBase  time.Duration

	// Clock drives latency measurement and backoff waits; nil means the real clock
	Clock clockwork.Clock
}

// Client fetches the upcoming games listing
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	clock clockwork.Clock
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.SiteURL == "" {
		o.SiteURL = siteURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("cngal"),
		clock: o.Clock,
	}
}

// ListUpcoming returns the current listing. An empty body or an empty array is an
// Unavailable error since every export is rewritten from this one response
func (c *Client) ListUpcoming(ctx context.Context) ([]Game, error) {
	resp, err := c.Do(ctx, http.MethodGet, upcomingPath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "cngal read body failed")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, perr.Unavailablef("cngal empty response")
	}

	var games []Game
	if err := json.Unmarshal(body, &games); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "cngal decode listing failed")
	}
	if len(games) == 0 {
		return nil, perr.Unavailablef("cngal empty listing")
	}
	for i := range games {
		games[i].Link = joinURL(c.opts.SiteURL, games[i].URL)
	}

	c.log.Info().Int("games", len(games)).Msg("cngal listing fetched")
	return games, nil
}

// Do issues a request with retries on transport errors, 429 and transient 5xx.
// A returned response is always 2xx and the caller owns its body
func (c *Client) Do(ctx context.Context, method, path string) (*http.Response, error) {
	url := c.opts.BaseURL + path
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "cngal new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")

		start := c.clock.Now()
		resp, err := c.http.Do(req)
		lat := c.clock.Since(start)

		if err != nil {
			if ctx.Err() != nil || !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "cngal do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).Msg("cngal transport error retrying")
			if err := c.wait(ctx, back); err != nil {
				return nil, err
			}
			attempts++
			continue
		}

		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("cngal http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header)
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrap(statusErr(resp.StatusCode, ""), perr.ErrorCodeTooManyRequests, "cngal rate limited")
			}
			c.log.Warn().Dur("sleep", wait).Msg("cngal rate limited backing off")
			if err := c.wait(ctx, wait); err != nil {
				return nil, err
			}
			attempts++
			continue

		case resp.StatusCode == http.StatusBadGateway,
			resp.StatusCode == http.StatusServiceUnavailable,
			resp.StatusCode == http.StatusGatewayTimeout:
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrap(statusErr(resp.StatusCode, ""), perr.ErrorCodeUnavailable, "cngal transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("cngal transient error retrying")
			if err := c.wait(ctx, back); err != nil {
				return nil, err
			}
			attempts++
			continue

		default:
			// read a small tail for diagnostics then return
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Wrap(statusErr(resp.StatusCode, string(body)), perr.ErrorCodeUnavailable, "cngal unexpected status")
		}
	}
}

func statusErr(status int, body string) *StatusError {
	return &StatusError{Status: status, Body: body, Err: fmt.Errorf("status %d", status)}
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(d):
		return nil
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d <= 0 || d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
