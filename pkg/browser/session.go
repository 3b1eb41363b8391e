// Package browser drives a real browser page through Playwright. A Session
// is the page the screen game interface screenshots and clicks.
package browser

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Session owns one browser with a single page.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	closeOnce sync.Once
	closeErr  error
}

// Launch installs Playwright (unless skipped), starts the driver and opens a
// page in a fresh browser context.
func Launch(opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid browser options: %w", err)
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	// Discard driver output so it does not interfere with the TUI
	runOpts := &playwright.RunOptions{
		Browsers: []string{opts.Engine},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if !opts.SkipInstall {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browserType := pw.Chromium
	switch opts.Engine {
	case EngineFirefox:
		browserType = pw.Firefox
	case EngineWebKit:
		browserType = pw.WebKit
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(opts.Timeout)

	return &Session{
		pw:      pw,
		browser: browser,
		context: bctx,
		page:    page,
	}, nil
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	waitUntil := playwright.WaitUntilState("load")
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{WaitUntil: &waitUntil}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Screenshot captures the viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shot, err := s.page.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return shot, nil
}

// ClickAt clicks the viewport position (x, y) with button ("left" or
// "right").
func (s *Session) ClickAt(ctx context.Context, x, y float64, button string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mouseButton := playwright.MouseButton(button)
	if err := s.page.Mouse().Click(x, y, playwright.MouseClickOptions{Button: &mouseButton}); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// Evaluate runs a script in the page and returns its result.
func (s *Session) Evaluate(ctx context.Context, script string) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.page.Evaluate(script)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	return result, nil
}

// URL returns the current page URL.
func (s *Session) URL() string {
	return s.page.URL()
}

// Close tears down the page, context, browser and driver. Safe to call
// multiple times.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		_ = s.page.Close()    // Ignore errors, continue cleanup
		_ = s.context.Close() // Ignore errors, continue cleanup
		_ = s.browser.Close() // Ignore errors, continue cleanup

		if err := s.pw.Stop(); err != nil {
			s.closeErr = fmt.Errorf("failed to stop playwright: %w", err)
		}
	})
	return s.closeErr
}
