// Package main provides the Powersweeper bot. It plays the infinite
// Minesweeper board at mienfield.com through a real browser, or an in-memory
// replica of it, one chunk at a time.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/powersweeper/pkg/config"
	"github.com/entrhq/powersweeper/pkg/solver"
)

const version = "0.1.0"

// cliConfig holds command-line configuration
type cliConfig struct {
	ConfigFile  string
	StartX      int64
	StartY      int64
	Brain       string
	Templates   string
	Headless    bool
	Sim         bool
	TUI         bool
	MaxCycles   int
	Debug       bool
	MetricsAddr string
	ShowVersion bool

	// set records which flags were given explicitly
	set map[string]bool
}

func main() {
	cli, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	// Show version if requested
	if cli.ShowVersion {
		fmt.Printf("Powersweeper v%s\n", version)
		return
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if !cli.TUI {
			fmt.Fprintln(os.Stderr, "\n\nShutting down gracefully...")
		}
		cancel()
	}()

	var console io.Writer = os.Stderr
	if cli.TUI {
		console = nil
	}

	if runErr := run(ctx, cfg, runOptions{TUI: cli.TUI, Console: console}); runErr != nil {
		cancel()
		log.Fatalf("Application error: %v", runErr)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags(args []string, output io.Writer) (*cliConfig, error) {
	cli := &cliConfig{set: make(map[string]bool)}

	fs := flag.NewFlagSet("powersweeper", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cli.ConfigFile, "config", "", "Path to configuration file (YAML)")
	fs.Int64Var(&cli.StartX, "start-x", 0, "Chunk x to start at (default: random)")
	fs.Int64Var(&cli.StartY, "start-y", 0, "Chunk y to start at (default: random)")
	fs.StringVar(&cli.Brain, "brain", solver.NameDeduce, fmt.Sprintf("Brain to play with %v", solver.Names()))
	fs.StringVar(&cli.Templates, "templates", "", "Directory holding the tile images")
	fs.BoolVar(&cli.Headless, "headless", false, "Run the browser without a window")
	fs.BoolVar(&cli.Sim, "sim", false, "Play an in-memory board instead of the web board")
	fs.BoolVar(&cli.TUI, "tui", false, "Show the live board in the terminal")
	fs.IntVar(&cli.MaxCycles, "max-cycles", 0, "Stop after this many observations (0: unlimited)")
	fs.BoolVar(&cli.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&cli.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	fs.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(output, "Powersweeper - a Minesweeper bot for mienfield.com\n\n")
		fmt.Fprintf(output, "Usage: powersweeper [options]\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  powersweeper -templates ./tiles                  # Play in a browser window\n")
		fmt.Fprintf(output, "  powersweeper -start-x 2000 -start-y 2000 -tui\n")
		fmt.Fprintf(output, "  powersweeper -sim -max-cycles 500               # Play an in-memory board\n")
		fmt.Fprintf(output, "  powersweeper -config powersweeper.yaml\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { cli.set[f.Name] = true })
	return cli, nil
}

// loadConfig reads the configuration file, if any, and applies explicit
// flags over it.
func loadConfig(cli *cliConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cli.ConfigFile != "" {
		loaded, err := config.Load(cli.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyOverrides(cfg, cli)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, cli *cliConfig) {
	if cli.set["start-x"] {
		cfg.SetStartX(cli.StartX)
	}
	if cli.set["start-y"] {
		cfg.SetStartY(cli.StartY)
	}
	if cli.set["brain"] {
		cfg.Bot.Brain = cli.Brain
	}
	if cli.set["templates"] {
		cfg.Templates.Dir = cli.Templates
	}
	if cli.set["headless"] {
		cfg.Browser.Headless = cli.Headless
	}
	if cli.set["sim"] {
		cfg.Simulator.Enabled = cli.Sim
	}
	if cli.set["max-cycles"] {
		cfg.Bot.MaxCycles = cli.MaxCycles
	}
	if cli.Debug {
		cfg.Logging.Verbosity = "debug"
	}
	if cli.set["metrics-addr"] {
		cfg.Metrics.Listen = cli.MetricsAddr
	}
}
