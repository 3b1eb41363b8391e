package browser

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, EngineChromium, opts.Engine)
	assert.Equal(t, Viewport{Width: 800, Height: 800}, opts.Viewport)
	assert.Equal(t, DefaultTimeout, opts.Timeout)
	assert.NoError(t, opts.Validate())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Options)
		expectError string
	}{
		{name: "firefox", mutate: func(o *Options) { o.Engine = EngineFirefox }},
		{name: "webkit", mutate: func(o *Options) { o.Engine = EngineWebKit }},
		{name: "missing engine", mutate: func(o *Options) { o.Engine = "" }, expectError: "engine is required"},
		{name: "unknown engine", mutate: func(o *Options) { o.Engine = "netscape" }, expectError: "unknown browser engine"},
		{name: "zero viewport", mutate: func(o *Options) { o.Viewport.Width = 0 }, expectError: "viewport"},
		{name: "negative timeout", mutate: func(o *Options) { o.Timeout = -1 }, expectError: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.expectError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestLaunch_InvalidOptions(t *testing.T) {
	_, err := Launch(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid browser options")
}

func TestSession_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("POWERSWEEPER_BROWSER_TESTS") == "" {
		t.Skip("Set POWERSWEEPER_BROWSER_TESTS=1 to run against a real browser")
	}

	opts := DefaultOptions()
	opts.Headless = true
	opts.Viewport = Viewport{Width: 64, Height: 64}

	s, err := Launch(opts)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Navigate(ctx, "data:text/html,<div class='popup'>x</div>"))

	_, err = s.Evaluate(ctx, "() => document.querySelectorAll('.popup').forEach(e => { e.style.display = 'none'; })")
	require.NoError(t, err)

	shot, err := s.Screenshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), shot[:4])

	require.NoError(t, s.ClickAt(ctx, 16, 16, "left"))
	require.NoError(t, s.ClickAt(ctx, 16, 16, "right"))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestSession_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The context is checked before the page is touched.
	s := &Session{}
	assert.ErrorIs(t, s.Navigate(ctx, "about:blank"), context.Canceled)
	_, err := s.Screenshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.ClickAt(ctx, 0, 0, "left"), context.Canceled)
	_, err = s.Evaluate(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}
