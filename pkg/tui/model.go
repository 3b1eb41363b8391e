package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"

	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/bot"
)

// EventMsg carries a bot event into the program.
type EventMsg struct {
	Event bot.Event
}

// model is the state of the live board view.
type model struct {
	spinner spinner.Model

	title    string
	board    *board.Snapshot
	location board.ChunkLocation
	stats    bot.Stats
	last     string
	err      error

	started  bool
	done     bool
	quitting bool

	// stop asks the bot to end the run
	stop func()
	// copy puts text on the system clipboard
	copy func(string) error

	width  int
	height int
}

func newModel(title string, stop func()) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = statusStyle

	if stop == nil {
		stop = func() {}
	}
	return model{
		spinner: s,
		title:   title,
		stop:    stop,
		copy:    clipboard.WriteAll,
	}
}
