// Package browser drives a Chrome instance to perform GitHub web-UI actions.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// Session is one browser tab. Every call is bounded by its timeout.
// Selectors may be CSS or XPath.
type Session interface {
	Navigate(url string, timeout time.Duration) error
	CurrentURL(timeout time.Duration) (string, error)
	Click(selector string, timeout time.Duration) error
	Type(selector, text string, timeout time.Duration) error
	// Present checks for a matching node without waiting for one to appear
	Present(selector string, timeout time.Duration) (bool, error)
	// Close releases the browser; calling it more than once is safe
	Close() error
}

// Launcher starts sessions. Cancelling the context passed to Launch tears the browser down.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// LaunchConfig configures the Chrome process
type LaunchConfig struct {
	Headless bool
	// ExecPath overrides Chrome discovery
	ExecPath string
	// UserDataDir points at a profile already logged in to GitHub as the grantor
	UserDataDir string
}

// ChromeLauncher starts a fresh Chrome process per session
type ChromeLauncher struct {
	opts []chromedp.ExecAllocatorOption
}

// NewChromeLauncher builds the allocator options once
func NewChromeLauncher(cfg LaunchConfig) *ChromeLauncher {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", cfg.Headless))
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	if cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}
	return &ChromeLauncher{opts: opts}
}

// Launch starts Chrome and opens a tab
func (l *ChromeLauncher) Launch(ctx context.Context) (Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, l.opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	cancel := func() {
		cancelTab()
		cancelAlloc()
	}

	// an empty Run starts the browser
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &chromeSession{ctx: tabCtx, cancel: cancel}, nil
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func (s *chromeSession) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (s *chromeSession) Navigate(url string, timeout time.Duration) error {
	return s.run(timeout, chromedp.Navigate(url))
}

func (s *chromeSession) CurrentURL(timeout time.Duration) (string, error) {
	var url string
	err := s.run(timeout, chromedp.Location(&url))
	return url, err
}

func (s *chromeSession) Click(selector string, timeout time.Duration) error {
	return s.run(timeout, chromedp.Click(selector, chromedp.BySearch))
}

func (s *chromeSession) Type(selector, text string, timeout time.Duration) error {
	return s.run(timeout,
		chromedp.WaitVisible(selector, chromedp.BySearch),
		chromedp.SendKeys(selector, text, chromedp.BySearch),
	)
}

func (s *chromeSession) Present(selector string, timeout time.Duration) (bool, error) {
	var nodes []*cdp.Node
	err := s.run(timeout, chromedp.Nodes(selector, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	return len(nodes) > 0, err
}

func (s *chromeSession) Close() error {
	s.once.Do(s.cancel)
	return nil
}
