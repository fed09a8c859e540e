// Package browser drives a headless Chrome session against the registry
// search form. It owns session lifecycle (creation, liveness, recreation) and
// the randomized pacing between actions; extraction of the rendered results
// is delegated to the rows parser and the extraction package.
package browser

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// SearchURL is the registry lookup form this session operates against.
const SearchURL = "https://egrul.nalog.ru/index.html"

// DefaultPageLoadTimeout bounds navigation and action runs.
const DefaultPageLoadTimeout = 120 * time.Second

// Options configures the browser session.
type Options struct {
	Headless        bool
	DownloadDir     string
	PageLoadTimeout time.Duration
	Verbose         bool
}

// Session wraps a chromedp browser context. One session processes one query
// at a time; there is no concurrent use.
type Session struct {
	opts        Options
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewSession starts a browser, configures the download directory, and opens
// the search form.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.PageLoadTimeout == 0 {
		opts.PageLoadTimeout = DefaultPageLoadTimeout
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-extensions", true),
		)...,
	)

	browserCtx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		opts:        opts,
		allocCancel: allocCancel,
		ctx:         browserCtx,
		cancel:      cancel,
	}

	if err := s.open(); err != nil {
		s.Close()
		return nil, &Error{Message: "failed to open search form", Cause: err}
	}
	return s, nil
}

// open navigates to the search form and allows downloads into the configured
// directory.
func (s *Session) open() error {
	actions := []chromedp.Action{}
	if s.opts.DownloadDir != "" {
		actions = append(actions,
			cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
				WithDownloadPath(s.opts.DownloadDir))
	}
	actions = append(actions,
		chromedp.Navigate(SearchURL),
		chromedp.WaitReady("body"),
	)
	return s.run(actions...)
}

// run executes actions under the session's page-load timeout.
func (s *Session) run(actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.PageLoadTimeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Close shuts the browser down. Safe to call on an already-dead session.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}

// Alive reports whether the underlying browser still answers. A dead session
// must be recreated before further use.
func (s *Session) Alive() bool {
	checkCtx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	var href string
	err := chromedp.Run(checkCtx, chromedp.Evaluate(`window.location.href`, &href))
	return err == nil
}

// Recreate replaces a dead session with a fresh one sharing the same
// options. The parent context governs the new browser's lifetime.
func Recreate(ctx context.Context, old *Session) (*Session, error) {
	var opts Options
	if old != nil {
		opts = old.opts
		if opts.Verbose {
			log.Printf("[BROWSER] recreating session")
		}
		old.Close()
	}
	return NewSession(ctx, opts)
}

// Refresh reloads the current page, typically between transient-failure
// retries.
func (s *Session) Refresh() error {
	return s.run(chromedp.Reload())
}

// HTML snapshots the rendered page.
func (s *Session) HTML() (string, error) {
	var html string
	if err := s.run(chromedp.OuterHTML("html", &html)); err != nil {
		return "", &Error{Message: "failed to snapshot page", Cause: err}
	}
	return html, nil
}

// IsFatalSessionError reports whether err marks a dead browser session, as
// opposed to a transient page-level failure worth retrying in place.
func IsFatalSessionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid session id") ||
		strings.Contains(msg, "session closed") ||
		strings.Contains(msg, "websocket: close") ||
		strings.Contains(msg, "browser process")
}

// Pause sleeps a random duration in [min, min+add) to avoid tripping the
// registry's anti-automation limits. It returns early only on context
// cancellation, which callers treat as a request to stop gracefully.
func Pause(ctx context.Context, min, add time.Duration) error {
	d := min + time.Duration(rand.Int63n(int64(add)+1))
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
