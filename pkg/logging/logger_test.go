package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestDir points the package at a temporary log directory and resets
// global state. The returned function restores defaults.
func setupTestDir(t *testing.T, level Level) (cleanup func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "powersweeper-logging-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	origOptions := currentOptions()

	logDir = ""
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}
	Configure(Options{Dir: tempDir, Level: level})

	return func() {
		Configure(origOptions)
		logDir = ""
		initErr = nil
		initOnce = sync.Once{}
		sessionID = ""
		sessionIDOnce = sync.Once{}

		os.RemoveAll(tempDir)
	}
}

func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	content, err := os.ReadFile(l.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestNewLogger(t *testing.T) {
	cleanup := setupTestDir(t, LevelNormal)
	defer cleanup()

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.component)
	}
	if logger.SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}
	if _, err := os.Stat(logger.LogPath()); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.LogPath())
	}
}

func TestLoggerFormatting(t *testing.T) {
	cleanup := setupTestDir(t, LevelDebug)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debugf("Debug message")
	logger.Verbosef("Verbose message %d", 7)
	logger.Infof("Info message")
	logger.Warnf("Warning message")
	logger.Errorf("Error message")

	logContent := readLog(t, logger)
	expectedPatterns := []string{
		"[test] [DEBUG] Debug message",
		"[test] [INFO] Verbose message 7",
		"[test] [INFO] Info message",
		"[test] [WARN] Warning message",
		"[test] [ERROR] Error message",
	}
	for _, pattern := range expectedPatterns {
		if !strings.Contains(logContent, pattern) {
			t.Errorf("Log content missing expected pattern: %q\nContent:\n%s", pattern, logContent)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level   Level
		written []string
		dropped []string
	}{
		{level: LevelQuiet, written: []string{"warn", "error"}, dropped: []string{"debug", "verbose", "info"}},
		{level: LevelNormal, written: []string{"info", "warn", "error"}, dropped: []string{"debug", "verbose"}},
		{level: LevelVerbose, written: []string{"verbose", "info", "warn"}, dropped: []string{"debug"}},
		{level: LevelDebug, written: []string{"debug", "verbose", "info", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := New("filter", tt.level, &buf)

			logger.Debugf("debug")
			logger.Verbosef("verbose")
			logger.Infof("info")
			logger.Warnf("warn")
			logger.Errorf("error")

			out := buf.String()
			for _, msg := range tt.written {
				if !strings.Contains(out, "] "+msg+"\n") {
					t.Errorf("expected %q at level %s, got:\n%s", msg, tt.level, out)
				}
			}
			for _, msg := range tt.dropped {
				if strings.Contains(out, "] "+msg+"\n") {
					t.Errorf("unexpected %q at level %s", msg, tt.level)
				}
			}
		})
	}
}

func TestConsoleMirror(t *testing.T) {
	cleanup := setupTestDir(t, LevelNormal)
	defer cleanup()

	var console bytes.Buffer
	opts := currentOptions()
	opts.Console = &console
	Configure(opts)

	logger, err := NewLogger("mirror")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Infof("moved to %s", "2000_2000")

	if !strings.Contains(console.String(), "[mirror] [INFO] moved to 2000_2000") {
		t.Errorf("console mirror missing line, got %q", console.String())
	}
	if !strings.Contains(readLog(t, logger), "moved to 2000_2000") {
		t.Error("log file missing mirrored line")
	}
}

func TestMultipleComponents(t *testing.T) {
	cleanup := setupTestDir(t, LevelNormal)
	defer cleanup()

	logger1, err := NewLogger("component1")
	if err != nil {
		t.Fatalf("Failed to create logger1: %v", err)
	}
	defer logger1.Close()

	logger2, err := NewLogger("component2")
	if err != nil {
		t.Fatalf("Failed to create logger2: %v", err)
	}
	defer logger2.Close()

	if logger1.SessionID() != logger2.SessionID() {
		t.Errorf("Expected same session ID, got %q and %q", logger1.SessionID(), logger2.SessionID())
	}
	if logger1.LogPath() != logger2.LogPath() {
		t.Errorf("Expected same log path, got %q and %q", logger1.LogPath(), logger2.LogPath())
	}

	logger1.Infof("Message from component1")
	logger2.Infof("Message from component2")
	logger1.With("component3").Infof("Message from component3")

	logContent := readLog(t, logger1)
	for _, c := range []string{"[component1]", "[component2]", "[component3]"} {
		if !strings.Contains(logContent, c) {
			t.Errorf("Log missing %s entries", c)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "quiet", want: LevelQuiet},
		{in: "normal", want: LevelNormal},
		{in: "", want: LevelNormal},
		{in: "Verbose", want: LevelVerbose},
		{in: " debug ", want: LevelDebug},
		{in: "loud", want: LevelNormal, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetLogDirectory(t *testing.T) {
	cleanup := setupTestDir(t, LevelNormal)
	defer cleanup()

	dir, err := GetLogDirectory()
	if err != nil {
		t.Fatalf("Failed to get log directory: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Log directory does not exist or is not a directory: %s", dir)
	}
}

func TestLoggerClose(t *testing.T) {
	cleanup := setupTestDir(t, LevelNormal)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}

func TestLogPathFormat(t *testing.T) {
	cleanup := setupTestDir(t, LevelNormal)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	// <session-id>-powersweeper.log
	fileName := filepath.Base(logger.LogPath())
	if !strings.HasSuffix(fileName, "-powersweeper.log") {
		t.Errorf("Expected log file to end with '-powersweeper.log', got %q", fileName)
	}
	sessionPart := strings.TrimSuffix(fileName, "-powersweeper.log")
	if !strings.Contains(sessionPart, "-") {
		t.Errorf("Expected session ID part to contain dashes (UUID format), got %q", sessionPart)
	}
}

func TestNopLogger(t *testing.T) {
	logger := Nop()
	logger.Debugf("dropped")
	logger.Warnf("dropped")
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nop logger failed: %v", err)
	}
}
