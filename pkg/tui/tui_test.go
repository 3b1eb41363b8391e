package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/powersweeper/pkg/action"
	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/bot"
)

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

func observed(t *testing.T) bot.Event {
	t.Helper()
	chunk := board.NewChunk(board.ChunkLocation{X: 3, Y: 4}, 3, 2)
	loc, err := chunk.TileLocation(1, 0)
	require.NoError(t, err)
	require.NoError(t, chunk.SetTile(1, 0, board.NewNumberTileWithValue(loc, nil, 2)))
	require.NoError(t, chunk.SetTile(2, 1, board.NewFlaggedTile(loc.Relative(1, 1), nil)))

	snap := chunk.Snapshot()
	return bot.Event{
		Type:     bot.EventObserved,
		Location: chunk.Location(),
		Chunk:    &snap,
		Stats:    bot.Stats{Cycles: 4, Clears: 9, Flags: 2, Chunks: []board.ChunkLocation{{X: 3, Y: 4}}},
	}
}

func TestModel_Events(t *testing.T) {
	m := newModel("powersweeper", nil)
	assert.Contains(t, m.View(), "loading board")
	assert.Contains(t, m.View(), "waiting for observation")

	m = send(t, m,
		EventMsg{Event: bot.Event{Type: bot.EventStarted, Location: board.ChunkLocation{X: 3, Y: 4}}},
		EventMsg{Event: observed(t)},
	)
	view := m.View()
	assert.Contains(t, view, "powersweeper")
	assert.Contains(t, view, "sweeping chunk 3_4")
	assert.Contains(t, view, "cycles      4")
	assert.Contains(t, view, "clears      9")
	assert.Contains(t, view, "chunks      1")
	assert.Contains(t, view, "2")
	assert.Contains(t, view, "F")
	require.NotNil(t, m.board)
	assert.Equal(t, "-2-\n--F", m.board.String())

	d := action.Navigate(1, 0)
	m = send(t, m, EventMsg{Event: bot.Event{Type: bot.EventDecided, Decision: &d, Location: board.ChunkLocation{X: 3, Y: 4}}})
	assert.Contains(t, m.View(), "last: navigate +1,+0")

	m = send(t, m, EventMsg{Event: bot.Event{Type: bot.EventMoved, Location: board.ChunkLocation{X: 4, Y: 4}}})
	assert.Nil(t, m.board)
	assert.Contains(t, m.View(), "moved to chunk 4_4")
}

func TestModel_ActedRefused(t *testing.T) {
	a := action.NewClear(board.TileLocation{X: 1, Y: 2})
	m := send(t, newModel("t", nil), EventMsg{Event: bot.Event{Type: bot.EventActed, Action: &a}})
	assert.Equal(t, "clear 1,2 (refused)", m.last)

	m = send(t, m, EventMsg{Event: bot.Event{Type: bot.EventActed, Action: &a, Applied: true}})
	assert.Equal(t, "clear 1,2", m.last)
}

func TestModel_Stopped(t *testing.T) {
	m := send(t, newModel("t", nil), EventMsg{Event: bot.Event{Type: bot.EventStopped}})
	assert.True(t, m.done)
	assert.Contains(t, m.View(), "finished")

	m = send(t, newModel("t", nil), EventMsg{Event: bot.Event{Type: bot.EventStopped, Err: errors.New("target closed")}})
	assert.Contains(t, m.View(), "stopped: target closed")
}

func TestModel_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		quit bool
	}{
		{name: "q", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, quit: true},
		{name: "ctrl+c", key: tea.KeyMsg{Type: tea.KeyCtrlC}, quit: true},
		{name: "esc", key: tea.KeyMsg{Type: tea.KeyEsc}, quit: true},
		{name: "other", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stops := 0
			m := newModel("t", func() { stops++ })

			next, cmd := m.Update(tt.key)
			if !tt.quit {
				assert.Nil(t, cmd)
				assert.Zero(t, stops)
				return
			}
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.Equal(t, 1, stops)
			assert.True(t, next.(model).quitting)
		})
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := send(t, newModel("t", nil), tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestModel_Init(t *testing.T) {
	assert.NotNil(t, newModel("t", nil).Init())
}

func TestRenderBoard(t *testing.T) {
	snap := &board.Snapshot{Cells: [][]board.Cell{
		{{Kind: board.KindUntouched, Value: -1}, {Kind: board.KindNumber, Value: 3}},
		{{Kind: board.KindBomb, Value: -1}, {Kind: board.KindWaiting, Value: -1}},
	}}
	out := renderBoard(snap)
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "*")
	assert.Contains(t, out, "~")
	assert.Equal(t, 2, len(strings.Split(out, "\n")))
}

func TestModel_CopyBoard(t *testing.T) {
	var copied []string
	m := newModel("t", nil)
	m.copy = func(s string) error {
		copied = append(copied, s)
		return nil
	}
	copyKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}

	m = send(t, m, copyKey)
	assert.Equal(t, "nothing to copy yet", m.last)
	assert.Empty(t, copied)

	m = send(t, m, EventMsg{Event: observed(t)}, copyKey)
	assert.Equal(t, []string{"-2-\n--F"}, copied)
	assert.Equal(t, "copied chunk 3_4", m.last)

	m.copy = func(string) error { return errors.New("no xclip") }
	m = send(t, m, copyKey)
	assert.Equal(t, "clipboard unavailable: no xclip", m.last)
}
