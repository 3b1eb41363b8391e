package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level controls which messages a Logger writes.
type Level int

const (
	// LevelQuiet writes warnings and errors only.
	LevelQuiet Level = iota
	// LevelNormal adds informational messages (default).
	LevelNormal
	// LevelVerbose adds per-action detail.
	LevelVerbose
	// LevelDebug writes everything, including per-tile classification.
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelQuiet:
		return "quiet"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	case LevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel converts a verbosity name to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quiet":
		return LevelQuiet, nil
	case "", "normal":
		return LevelNormal, nil
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelNormal, fmt.Errorf("unknown verbosity %q", name)
	}
}

// Options configures every logger created after Configure.
type Options struct {
	// Dir overrides the log directory (default ~/.powersweeper/logs).
	Dir string
	// Level is the minimum verbosity written.
	Level Level
	// Console, when set, receives a copy of every written line.
	Console io.Writer
}

// Logger writes component scoped log lines to a session file shared by all
// components of one run. Lines look like:
//
//	[2006-01-02 15:04:05.000] [bot] [INFO] moved to 2000_2000
type Logger struct {
	sessionID string
	component string
	level     Level
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	// Global session ID for the current run
	sessionID     string
	sessionIDOnce sync.Once

	// logDir is the directory where log files are stored
	logDir string

	// initOnce ensures directory initialization happens once
	initOnce sync.Once

	// initErr stores any error from directory initialization
	initErr error

	optsMu  sync.RWMutex
	options = Options{Level: LevelNormal}
)

// Configure sets the options used by subsequent NewLogger calls. It must be
// called before the first logger is created for Dir to take effect.
func Configure(opts Options) {
	optsMu.Lock()
	defer optsMu.Unlock()
	options = opts
}

func currentOptions() Options {
	optsMu.RLock()
	defer optsMu.RUnlock()
	return options
}

// getSessionID returns or creates the session ID for this run
func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// initLogDirectory ensures the log directory exists
func initLogDirectory() error {
	initOnce.Do(func() {
		dir := currentOptions().Dir
		if dir == "" && logDir != "" {
			dir = logDir
		}
		if dir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				initErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			dir = filepath.Join(homeDir, ".powersweeper", "logs")
		}

		if err := os.MkdirAll(dir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
		logDir = dir
	})
	return initErr
}

// NewLogger creates a logger for a component.
// The logger writes to <log dir>/<session-id>-powersweeper.log
//
// If the log directory cannot be created or the log file cannot be opened,
// it returns a fallback logger that writes to stderr along with the error.
func NewLogger(component string) (*Logger, error) {
	opts := currentOptions()

	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, opts, err), err
	}

	sessID := getSessionID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-powersweeper.log", sessID))

	// Append mode: every component writes into the same file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return newFallbackLogger(component, opts, fmt.Errorf("failed to open log file: %w", err)), err
	}

	var out io.Writer = file
	if opts.Console != nil {
		out = io.MultiWriter(file, opts.Console)
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		level:     opts.Level,
		file:      file,
		logger:    log.New(out, "", 0),
		logPath:   logPath,
	}, nil
}

// newFallbackLogger creates a logger that writes to stderr when file logging fails
func newFallbackLogger(component string, opts Options, err error) *Logger {
	logger := log.New(os.Stderr, "", 0)
	l := &Logger{
		sessionID: getSessionID(),
		component: component,
		level:     opts.Level,
		logger:    logger,
	}
	l.write("WARN", fmt.Sprintf("failed to initialize file logging, falling back to stderr: %v", err))
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{
		component: "nop",
		level:     LevelQuiet,
		logger:    log.New(io.Discard, "", 0),
	}
}

// New returns a logger writing to w at the given level. Used by tests and
// by callers that manage their own output.
func New(component string, level Level, w io.Writer) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		level:     level,
		logger:    log.New(w, "", 0),
	}
}

// With returns a logger for another component sharing the same output.
func (l *Logger) With(component string) *Logger {
	return &Logger{
		sessionID: l.sessionID,
		component: component,
		level:     l.level,
		logger:    l.logger,
		logPath:   l.logPath,
	}
}

// formatLogEntry creates a log entry with timestamp, component, and level
func (l *Logger) formatLogEntry(level, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

func (l *Logger) write(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Println(l.formatLogEntry(level, message))
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.level >= level
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.Enabled(LevelDebug) {
		l.write("DEBUG", fmt.Sprintf(format, v...))
	}
}

// Verbosef logs detail that is only interesting when following a run
func (l *Logger) Verbosef(format string, v ...interface{}) {
	if l.Enabled(LevelVerbose) {
		l.write("INFO", fmt.Sprintf(format, v...))
	}
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	if l.Enabled(LevelNormal) {
		l.write("INFO", fmt.Sprintf(format, v...))
	}
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	if l != nil {
		l.write("WARN", fmt.Sprintf(format, v...))
	}
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	if l != nil {
		l.write("ERROR", fmt.Sprintf(format, v...))
	}
}

// Writer returns the log file, or stderr for fallback loggers
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// Level returns the configured verbosity.
func (l *Logger) Level() Level {
	return l.level
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, empty without one
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetSessionID returns the current global session ID
func GetSessionID() string {
	return getSessionID()
}

// GetLogDirectory returns the directory where logs are stored
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}
