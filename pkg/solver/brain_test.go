package solver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/powersweeper/pkg/action"
	"github.com/entrhq/powersweeper/pkg/board"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    interface{}
		wantErr bool
	}{
		{name: NameDeduce, want: &Engine{}},
		{name: NameRandom, want: &Random{}},
		{name: NameBudget, want: &Budgeted{}},
		{name: "smart", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brain, err := New(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown brain")
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, brain)
		})
	}

	assert.Equal(t, []string{NameBudget, NameDeduce, NameRandom}, Names())
}

func TestRandom_AnyCell(t *testing.T) {
	chunk := grid(t, filled('F', 4, 3)...)
	brain := NewRandom(WithRand(rand.New(rand.NewSource(7))))

	for i := 0; i < 50; i++ {
		d, err := brain.Think(chunk)
		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.Equal(t, action.OutcomeExplore, d.Outcome)
		require.Len(t, d.Actions, 1)

		a := d.Actions[0]
		assert.True(t, a.Speculative)
		assert.True(t, chunk.Contains(a.Location.X, a.Location.Y))
		assert.Same(t, chunk, a.Location.Chunk)
	}
}

type countingBrain struct{ calls int }

func (c *countingBrain) Think(chunk *board.Chunk) (action.Decision, error) {
	c.calls++
	loc, err := chunk.TileLocation(0, 0)
	if err != nil {
		return action.Decision{}, err
	}
	return action.Explore(action.NewSpeculativeClear(loc)), nil
}

func TestBudgeted_MovesAfterBudget(t *testing.T) {
	inner := &countingBrain{}
	brain := NewBudgeted(inner, 3)
	chunk := board.NewChunk(board.ChunkLocation{}, 2, 2)

	var outcomes []action.Outcome
	for i := 0; i < 7; i++ {
		d, err := brain.Think(chunk)
		require.NoError(t, err)
		outcomes = append(outcomes, d.Outcome)
	}

	assert.Equal(t, []action.Outcome{
		action.OutcomeExplore, action.OutcomeExplore, action.OutcomeNavigate,
		action.OutcomeExplore, action.OutcomeExplore, action.OutcomeNavigate,
		action.OutcomeExplore,
	}, outcomes)
	assert.Equal(t, 5, inner.calls)
	assert.Equal(t, 1, brain.Counter())
}

func TestBudgeted_DefaultBudget(t *testing.T) {
	brain := NewBudgeted(&countingBrain{}, 0)
	assert.Equal(t, DefaultMoveBudget, brain.budget)

	b, err := New(NameBudget, WithMoveBudget(2))
	require.NoError(t, err)
	assert.Equal(t, 2, b.(*Budgeted).budget)
}
