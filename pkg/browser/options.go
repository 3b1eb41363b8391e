package browser

import (
	"errors"
	"fmt"
)

// Defaults for a new session.
const (
	// DefaultViewportWidth fits a 20×20 chunk of 32 pixel cells with margin.
	DefaultViewportWidth = 800
	// DefaultViewportHeight matches the width.
	DefaultViewportHeight = 800
	// DefaultTimeout for page operations in milliseconds.
	DefaultTimeout = 30000.0
)

// Browser engines Launch can start.
const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebKit   = "webkit"
)

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Options configures Launch.
type Options struct {
	// Engine is one of chromium, firefox or webkit.
	Engine string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the page size; screenshots cover exactly this area
	Viewport Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64

	// SkipInstall assumes the driver and browsers are already installed
	SkipInstall bool
}

// DefaultOptions returns a visible chromium window of 800×800.
func DefaultOptions() Options {
	return Options{
		Engine:   EngineChromium,
		Headless: false,
		Viewport: Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		Timeout:  DefaultTimeout,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	switch o.Engine {
	case EngineChromium, EngineFirefox, EngineWebKit:
	case "":
		return errors.New("browser engine is required")
	default:
		return fmt.Errorf("unknown browser engine %q", o.Engine)
	}

	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", o.Viewport.Width, o.Viewport.Height)
	}
	if o.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", o.Timeout)
	}
	return nil
}
