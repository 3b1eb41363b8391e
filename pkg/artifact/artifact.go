// Package artifact writes the reports of a finished run.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entrhq/powersweeper/pkg/board"
	"github.com/entrhq/powersweeper/pkg/bot"
)

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
	StatusFailed    = "failed"
)

// RunSummary contains a complete summary of one bot run
type RunSummary struct {
	SessionID  string              `json:"session_id"`
	Brain      string              `json:"brain"`
	Mode       string              `json:"mode"`
	Status     string              `json:"status"`
	Error      string              `json:"error,omitempty"`
	Start      board.ChunkLocation `json:"start"`
	StartTime  time.Time           `json:"start_time"`
	EndTime    time.Time           `json:"end_time"`
	Duration   time.Duration       `json:"duration"`
	Chunks     []string            `json:"chunks"`
	FinalChunk *board.Snapshot     `json:"final_chunk,omitempty"`
	Metrics    RunMetrics          `json:"metrics"`
}

// RunMetrics contains run counters
type RunMetrics struct {
	Cycles       int `json:"cycles"`
	Deductions   int `json:"deductions"`
	Explorations int `json:"explorations"`
	Clears       int `json:"clears"`
	Flags        int `json:"flags"`
	Speculative  int `json:"speculative"`
	Refused      int `json:"refused"`
	Failed       int `json:"failed"`
	Navigations  int `json:"navigations"`
	Explosions   int `json:"explosions,omitempty"`
}

// NewRunSummary builds a summary from the stats Run returned. final may be
// nil when no chunk was observed.
func NewRunSummary(sessionID, brain, mode string, start board.ChunkLocation, stats *bot.Stats, final *board.Chunk, runErr error) *RunSummary {
	s := &RunSummary{
		SessionID: sessionID,
		Brain:     brain,
		Mode:      mode,
		Status:    StatusCompleted,
		Start:     start,
	}

	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		s.Status = StatusCanceled
	default:
		s.Status = StatusFailed
		s.Error = runErr.Error()
	}

	if stats != nil {
		s.StartTime = stats.StartTime
		s.EndTime = stats.EndTime
		s.Duration = stats.Duration()
		for _, c := range stats.Chunks {
			s.Chunks = append(s.Chunks, c.String())
		}
		s.Metrics = RunMetrics{
			Cycles:       stats.Cycles,
			Deductions:   stats.Deductions,
			Explorations: stats.Explorations,
			Clears:       stats.Clears,
			Flags:        stats.Flags,
			Speculative:  stats.Speculative,
			Refused:      stats.Refused,
			Failed:       stats.Failed,
			Navigations:  stats.Navigations,
		}
	}

	if final != nil {
		snap := final.Snapshot()
		s.FinalChunk = &snap
	}
	return s
}

// Writer handles writing run artifacts
type Writer struct {
	outputDir string
}

// NewWriter creates a new artifact writer
func NewWriter(outputDir string) *Writer {
	return &Writer{
		outputDir: outputDir,
	}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.outputDir
}

// WriteAll writes run.json, summary.md and metrics.json
func (w *Writer) WriteAll(summary *RunSummary) error {
	// Ensure output directory exists
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteRunJSON(summary); err != nil {
		return err
	}
	if err := w.WriteSummaryMarkdown(summary); err != nil {
		return err
	}
	return w.WriteMetricsJSON(summary)
}

// WriteRunJSON writes the full run summary as JSON
func (w *Writer) WriteRunJSON(summary *RunSummary) error {
	return w.writeJSON("run.json", summary)
}

// WriteMetricsJSON writes the run counters as JSON
func (w *Writer) WriteMetricsJSON(summary *RunSummary) error {
	return w.writeJSON("metrics.json", summary.Metrics)
}

func (w *Writer) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	if writeErr := os.WriteFile(filepath.Join(w.outputDir, name), data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write %s: %w", name, writeErr)
	}
	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *Writer) WriteSummaryMarkdown(summary *RunSummary) error {
	path := filepath.Join(w.outputDir, "summary.md")

	var md strings.Builder

	md.WriteString("# Powersweeper Run Summary\n\n")
	md.WriteString(fmt.Sprintf("**Session:** %s\n\n", summary.SessionID))
	md.WriteString(fmt.Sprintf("**Brain:** %s (%s)\n\n", summary.Brain, summary.Mode))
	md.WriteString(fmt.Sprintf("**Start chunk:** %s\n\n", summary.Start))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration))

	// Result
	md.WriteString("## Result\n\n")
	switch summary.Status {
	case StatusFailed:
		md.WriteString(fmt.Sprintf("❌ **Error:** %s\n\n", summary.Error))
	case StatusCanceled:
		md.WriteString("⏹ **Canceled**\n\n")
	default:
		md.WriteString("✅ **Completed**\n\n")
	}

	// Metrics
	m := summary.Metrics
	md.WriteString("## Metrics\n\n")
	md.WriteString(fmt.Sprintf("- **Cycles:** %d\n", m.Cycles))
	md.WriteString(fmt.Sprintf("- **Clears:** %d (%d speculative)\n", m.Clears, m.Speculative))
	md.WriteString(fmt.Sprintf("- **Flags:** %d\n", m.Flags))
	md.WriteString(fmt.Sprintf("- **Refused:** %d\n", m.Refused))
	md.WriteString(fmt.Sprintf("- **Failed:** %d\n", m.Failed))
	md.WriteString(fmt.Sprintf("- **Navigations:** %d\n", m.Navigations))
	if m.Explosions > 0 {
		md.WriteString(fmt.Sprintf("- **Explosions:** %d\n", m.Explosions))
	}
	md.WriteString("\n")

	if len(summary.Chunks) > 0 {
		md.WriteString("## Chunks Visited\n\n")
		for _, c := range summary.Chunks {
			md.WriteString(fmt.Sprintf("- `%s`\n", c))
		}
		md.WriteString("\n")
	}

	if summary.FinalChunk != nil {
		md.WriteString(fmt.Sprintf("## Final Chunk %s\n\n", summary.FinalChunk.Location))
		md.WriteString("```\n")
		md.WriteString(summary.FinalChunk.String())
		md.WriteString("\n```\n")
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0600); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}
	return nil
}
