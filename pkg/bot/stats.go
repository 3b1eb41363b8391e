package bot

import (
	"time"

	"github.com/entrhq/powersweeper/pkg/board"
)

// Stats summarizes a run.
type Stats struct {
	Cycles       int                   `json:"cycles"`
	Deductions   int                   `json:"deductions"`
	Explorations int                   `json:"explorations"`
	Clears       int                   `json:"clears"`
	Flags        int                   `json:"flags"`
	Speculative  int                   `json:"speculative"`
	Refused      int                   `json:"refused"`
	Failed       int                   `json:"failed"`
	Navigations  int                   `json:"navigations"`
	Chunks       []board.ChunkLocation `json:"chunks"`
	StartTime    time.Time             `json:"start_time"`
	EndTime      time.Time             `json:"end_time"`
}

// Duration returns how long the run took, or has taken so far.
func (s Stats) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Actions returns the number of clicks that reached the board.
func (s Stats) Actions() int {
	return s.Clears + s.Flags
}

func (s *Stats) visit(loc board.ChunkLocation) {
	for _, c := range s.Chunks {
		if c == loc {
			return
		}
	}
	s.Chunks = append(s.Chunks, loc)
}

func (s Stats) clone() Stats {
	out := s
	out.Chunks = append([]board.ChunkLocation(nil), s.Chunks...)
	return out
}
