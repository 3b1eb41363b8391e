package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/entrhq/powersweeper/pkg/artifact"
	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/bot"
	"github.com/entrhq/powersweeper/pkg/browser"
	"github.com/entrhq/powersweeper/pkg/config"
	"github.com/entrhq/powersweeper/pkg/game"
	"github.com/entrhq/powersweeper/pkg/game/sim"
	"github.com/entrhq/powersweeper/pkg/logging"
	"github.com/entrhq/powersweeper/pkg/metrics"
	"github.com/entrhq/powersweeper/pkg/parser"
	"github.com/entrhq/powersweeper/pkg/solver"
	"github.com/entrhq/powersweeper/pkg/tui"
)

// Game modes reported in run artifacts.
const (
	modeBrowser   = "browser"
	modeSimulator = "simulator"
)

type runOptions struct {
	// TUI shows the live board instead of logging to the console
	TUI bool
	// Console mirrors log lines, nil to keep them in the log file only
	Console io.Writer
}

// session is the game a run plays together with its teardown.
type session struct {
	game    game.Interface
	mode    string
	sim     *sim.Game
	cleanup func() error
}

// run executes one bot run with cfg
func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	level, err := logging.ParseLevel(cfg.Logging.Verbosity)
	if err != nil {
		return err
	}
	logging.Configure(logging.Options{Dir: cfg.Logging.Dir, Level: level, Console: opts.Console})

	// NewLogger falls back to stderr on error; keep going with it
	root, _ := logging.NewLogger("powersweeper")
	defer root.Close()
	root.Infof("Powersweeper v%s (session %s)", version, root.SessionID())

	seed := cfg.Bot.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	brain, err := solver.New(cfg.Bot.Brain,
		solver.WithRand(rng),
		solver.WithLogger(root.With("solver")),
		solver.WithMoveBudget(cfg.Bot.MoveBudget),
	)
	if err != nil {
		return err
	}

	s, err := openSession(cfg, root)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.cleanup(); cerr != nil {
			root.Warnf("cleanup failed: %v", cerr)
		}
	}()

	start := bot.RandomStart(rng, cfg.Board.StartX, cfg.Board.StartY)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(registry)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	metricsDone := make(chan struct{})
	if cfg.Metrics.Listen != "" {
		go func() {
			defer close(metricsDone)
			root.Infof("serving metrics on %s", cfg.Metrics.Listen)
			if err := metrics.Serve(ctx, cfg.Metrics.Listen, registry); err != nil {
				root.Errorf("metrics endpoint failed: %v", err)
			}
		}()
	} else {
		close(metricsDone)
	}

	botOpts := []bot.Option{
		bot.WithLogger(root.With("bot")),
		bot.WithDelay(cfg.Bot.Delay),
		bot.WithMaxCycles(cfg.Bot.MaxCycles),
		bot.WithRecorder(recorder),
	}

	var (
		stats  *bot.Stats
		runErr error
	)
	if opts.TUI {
		stats, runErr = runWithTUI(ctx, cancel, s.game, brain, start, botOpts)
	} else {
		stats, runErr = bot.New(s.game, brain, botOpts...).Run(ctx, start)
	}

	cancel()
	<-metricsDone

	if cfg.Artifacts.Enabled {
		summary := artifact.NewRunSummary(root.SessionID(), cfg.Bot.Brain, s.mode, start, stats, s.game.Chunk(), runErr)
		if s.sim != nil {
			summary.Metrics.Explosions = s.sim.Exploded()
		}
		w := artifact.NewWriter(cfg.Artifacts.OutputDir)
		if err := w.WriteAll(summary); err != nil {
			root.Warnf("failed to write artifacts: %v", err)
		} else {
			root.Infof("artifacts written to %s", w.Dir())
		}
	}

	// A canceled run is a graceful shutdown
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// openSession creates the game cfg asks for.
func openSession(cfg *config.Config, log *logging.Logger) (*session, error) {
	if cfg.Simulator.Enabled {
		g := sim.New(cfg.SimOptions(log.With("sim")))
		return &session{game: g, mode: modeSimulator, sim: g, cleanup: func() error { return nil }}, nil
	}

	reg, err := parser.LoadRegistry(os.DirFS(cfg.Templates.Dir), parser.DefaultEntries(), cfg.RegistryOptions(log.With("parser")))
	if err != nil {
		return nil, fmt.Errorf("failed to load templates from %s: %w", cfg.Templates.Dir, err)
	}
	fallback, err := parser.ParseFallback(cfg.Templates.Fallback)
	if err != nil {
		return nil, err
	}
	classifier := parser.NewClassifier(reg,
		parser.WithFallback(fallback),
		parser.WithLogger(log.With("classifier")),
	)

	page, err := browser.Launch(cfg.BrowserOptions())
	if err != nil {
		return nil, err
	}

	screen := game.NewScreen(page, classifier, cfg.ScreenOptions(log.With("screen")))
	return &session{game: screen, mode: modeBrowser, cleanup: page.Close}, nil
}

// runWithTUI runs the bot in the background while the terminal UI owns the
// foreground. Quitting the UI cancels the run.
func runWithTUI(ctx context.Context, cancel context.CancelFunc, g game.Interface, brain solver.Brain, start board.ChunkLocation, botOpts []bot.Option) (*bot.Stats, error) {
	ui := tui.New("Powersweeper", cancel, tea.WithAltScreen())

	type result struct {
		stats *bot.Stats
		err   error
	}
	done := make(chan result, 1)
	b := bot.New(g, brain, append(botOpts, bot.WithObserver(ui.Observer()))...)
	go func() {
		stats, err := b.Run(ctx, start)
		done <- result{stats: stats, err: err}
	}()

	go func() {
		// Close the UI when the run is canceled from outside
		<-ctx.Done()
		ui.Quit()
	}()

	uiErr := ui.Run()
	cancel()
	res := <-done
	if uiErr != nil && res.err == nil {
		return res.stats, uiErr
	}
	return res.stats, res.err
}
