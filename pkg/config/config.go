// Package config loads the powersweeper YAML configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/powersweeper/pkg/browser"
	"github.com/entrhq/powersweeper/pkg/game"
	"github.com/entrhq/powersweeper/pkg/game/sim"
	"github.com/entrhq/powersweeper/pkg/logging"
	"github.com/entrhq/powersweeper/pkg/parser"
	"github.com/entrhq/powersweeper/pkg/solver"
)

// Config represents the complete bot configuration
type Config struct {
	Board     BoardConfig     `yaml:"board" json:"board"`
	Browser   BrowserConfig   `yaml:"browser" json:"browser"`
	Templates TemplateConfig  `yaml:"templates" json:"templates"`
	Bot       BotConfig       `yaml:"bot" json:"bot"`
	Simulator SimulatorConfig `yaml:"simulator" json:"simulator"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Artifacts ArtifactConfig  `yaml:"artifacts" json:"artifacts"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`

	// Path is the file the configuration was loaded from, if any
	Path string `yaml:"-" json:"path,omitempty"`
}

// BoardConfig describes the web board and its geometry
type BoardConfig struct {
	URL string `yaml:"url" json:"url"`

	// StartX and StartY pick the first chunk; unset means a random start
	StartX *int64 `yaml:"start_x" json:"start_x,omitempty"`
	StartY *int64 `yaml:"start_y" json:"start_y,omitempty"`

	ChunkWidth   int    `yaml:"chunk_width" json:"chunk_width"`
	ChunkHeight  int    `yaml:"chunk_height" json:"chunk_height"`
	CellSize     int    `yaml:"cell_size" json:"cell_size"`
	SampleSize   int    `yaml:"sample_size" json:"sample_size"`
	HideSelector string `yaml:"hide_selector" json:"hide_selector"`
}

// BrowserConfig configures the Playwright session
type BrowserConfig struct {
	Engine         string  `yaml:"engine" json:"engine"`
	Headless       bool    `yaml:"headless" json:"headless"`
	ViewportWidth  int     `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int     `yaml:"viewport_height" json:"viewport_height"`
	TimeoutMS      float64 `yaml:"timeout_ms" json:"timeout_ms"`
	SkipInstall    bool    `yaml:"skip_install" json:"skip_install"`
}

// TemplateConfig selects the tile images
type TemplateConfig struct {
	Dir      string   `yaml:"dir" json:"dir"`
	Include  []string `yaml:"include" json:"include"`
	Exclude  []string `yaml:"exclude" json:"exclude"`
	Fallback string   `yaml:"fallback" json:"fallback"` // flagged or unknown
}

// BotConfig drives the decision loop
type BotConfig struct {
	Brain      string        `yaml:"brain" json:"brain"`
	Delay      time.Duration `yaml:"delay" json:"delay"`
	MaxCycles  int           `yaml:"max_cycles" json:"max_cycles"` // 0 means unlimited
	MoveBudget int           `yaml:"move_budget" json:"move_budget"`
	Seed       int64         `yaml:"seed" json:"seed"` // 0 seeds from the clock
}

// SimulatorConfig replaces the browser with an in-memory board
type SimulatorConfig struct {
	Enabled bool  `yaml:"enabled" json:"enabled"`
	Mines   int   `yaml:"mines" json:"mines"`
	Seed    int64 `yaml:"seed" json:"seed"`
}

// LoggingConfig configures logging
type LoggingConfig struct {
	Verbosity string `yaml:"verbosity" json:"verbosity"`
	Dir       string `yaml:"dir" json:"dir"`
}

// ArtifactConfig configures run artifacts
type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Listen string `yaml:"listen" json:"listen"` // empty disables the endpoint
}

// DefaultConfig returns the configuration for mienfield.com
func DefaultConfig() *Config {
	screen := game.DefaultScreenOptions()
	bopts := browser.DefaultOptions()
	simOpts := sim.DefaultOptions()

	return &Config{
		Board: BoardConfig{
			URL:          screen.URLFormat,
			ChunkWidth:   screen.ChunkWidth,
			ChunkHeight:  screen.ChunkHeight,
			CellSize:     screen.CellSize,
			SampleSize:   screen.SampleSize,
			HideSelector: screen.HideSelector,
		},
		Browser: BrowserConfig{
			Engine:         bopts.Engine,
			Headless:       bopts.Headless,
			ViewportWidth:  bopts.Viewport.Width,
			ViewportHeight: bopts.Viewport.Height,
			TimeoutMS:      bopts.Timeout,
		},
		Templates: TemplateConfig{
			Dir:      "./tiles",
			Fallback: string(parser.FallbackFlagged),
		},
		Bot: BotConfig{
			Brain:      solver.NameDeduce,
			Delay:      750 * time.Millisecond,
			MoveBudget: solver.DefaultMoveBudget,
		},
		Simulator: SimulatorConfig{
			Mines: simOpts.Mines,
			Seed:  simOpts.Seed,
		},
		Logging: LoggingConfig{
			Verbosity: logging.LevelNormal.String(),
		},
		Artifacts: ArtifactConfig{
			Enabled:   true,
			OutputDir: ".powersweeper/artifacts",
		},
	}
}

// Load reads a YAML file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes YAML over the defaults
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.Count(c.Board.URL, "%d") != 2 {
		return fmt.Errorf("board url %q must contain exactly two %%d verbs", c.Board.URL)
	}

	if c.Board.ChunkWidth <= 0 || c.Board.ChunkHeight <= 0 {
		return fmt.Errorf("chunk size must be positive, got %dx%d", c.Board.ChunkWidth, c.Board.ChunkHeight)
	}
	if c.Board.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive")
	}
	if c.Board.SampleSize <= 0 || c.Board.SampleSize > c.Board.CellSize {
		return fmt.Errorf("sample_size must be between 1 and cell_size (%d), got %d", c.Board.CellSize, c.Board.SampleSize)
	}

	if !c.Simulator.Enabled {
		if err := c.BrowserOptions().Validate(); err != nil {
			return err
		}
		if c.Templates.Dir == "" {
			return fmt.Errorf("templates dir is required")
		}
	}
	if c.Simulator.Mines < 0 {
		return fmt.Errorf("simulator mines cannot be negative")
	}

	if _, err := parser.ParseFallback(c.Templates.Fallback); err != nil {
		return err
	}

	if !knownBrain(c.Bot.Brain) {
		return fmt.Errorf("unknown brain %q (known: %v)", c.Bot.Brain, solver.Names())
	}
	if c.Bot.Delay < 0 {
		return fmt.Errorf("bot delay cannot be negative")
	}
	if c.Bot.MaxCycles < 0 {
		return fmt.Errorf("max_cycles cannot be negative")
	}
	if c.Bot.MoveBudget < 0 {
		return fmt.Errorf("move_budget cannot be negative")
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = logging.LevelNormal.String()
	}
	if _, err := logging.ParseLevel(c.Logging.Verbosity); err != nil {
		return fmt.Errorf("invalid logging verbosity: %w", err)
	}

	if c.Artifacts.Enabled && c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifacts output_dir is required when artifacts are enabled")
	}

	return nil
}

func knownBrain(name string) bool {
	for _, n := range solver.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// SetStartX pins the x axis of the first chunk.
func (c *Config) SetStartX(x int64) { c.Board.StartX = &x }

// SetStartY pins the y axis of the first chunk.
func (c *Config) SetStartY(y int64) { c.Board.StartY = &y }

// ScreenOptions returns the board geometry for game.NewScreen.
func (c *Config) ScreenOptions(log *logging.Logger) game.ScreenOptions {
	return game.ScreenOptions{
		URLFormat:    c.Board.URL,
		ChunkWidth:   c.Board.ChunkWidth,
		ChunkHeight:  c.Board.ChunkHeight,
		CellSize:     c.Board.CellSize,
		SampleSize:   c.Board.SampleSize,
		HideSelector: c.Board.HideSelector,
		Logger:       log,
	}
}

// BrowserOptions returns the options for browser.Launch.
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Engine:   c.Browser.Engine,
		Headless: c.Browser.Headless,
		Viewport: browser.Viewport{
			Width:  c.Browser.ViewportWidth,
			Height: c.Browser.ViewportHeight,
		},
		Timeout:     c.Browser.TimeoutMS,
		SkipInstall: c.Browser.SkipInstall,
	}
}

// SimOptions returns the options for sim.New.
func (c *Config) SimOptions(log *logging.Logger) sim.Options {
	return sim.Options{
		ChunkWidth:  c.Board.ChunkWidth,
		ChunkHeight: c.Board.ChunkHeight,
		Mines:       c.Simulator.Mines,
		Seed:        c.Simulator.Seed,
		Logger:      log,
	}
}

// RegistryOptions returns the template filter for parser.LoadRegistry.
func (c *Config) RegistryOptions(log *logging.Logger) parser.RegistryOptions {
	return parser.RegistryOptions{
		Include: c.Templates.Include,
		Exclude: c.Templates.Exclude,
		Logger:  log,
	}
}
