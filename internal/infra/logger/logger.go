package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	logDir  = ".blogctl/logs"
	logName = "blogctl.log"
)

// Config controls where the log file lives, how verbose it is and which
// blogctl command the records belong to.
type Config struct {
	Root    string
	Debug   bool
	Command string
}

// session is one blogctl invocation writing to the workspace log. Every
// record it emits carries the command name and session id so interleaved
// runs in the same file can be told apart.
type session struct {
	file      *os.File
	path      string
	id        string
	command   string
	startedAt time.Time
	log       *slog.Logger
}

var (
	mu      sync.RWMutex
	current *session
	discard = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// Setup opens <root>/.blogctl/logs/blogctl.log and installs a JSON logger
// writing to it. The returned cleanup closes the file and restores a discard
// logger.
func Setup(cfg Config) (func() error, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}

	dir := filepath.Join(filepath.Clean(root), filepath.FromSlash(logDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		install(nil)
		return nil, err
	}

	path := filepath.Join(dir, logName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		install(nil)
		return nil, err
	}

	command := cfg.Command
	if command == "" {
		command = "blogctl"
	}
	started := time.Now().UTC()

	s := &session{
		file:      f,
		path:      path,
		id:        newSessionID(started),
		command:   command,
		startedAt: started,
	}
	s.log = slog.New(newHandler(f, cfg.Debug)).With(
		slog.String("command", s.command),
		slog.String("session", s.id),
	)
	install(s)

	s.log.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()
		if current == s {
			current = nil
		}
		return s.file.Close()
	}
	return cleanup, nil
}

func newHandler(w io.Writer, debug bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
			a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
		}
		return a
	}
	return slog.NewJSONHandler(w, opts)
}

// newSessionID is sortable by start time; the pid separates invocations
// started within the same second.
func newSessionID(t time.Time) string {
	return fmt.Sprintf("%s-%d", t.Format("20060102T150405Z"), os.Getpid())
}

func install(s *session) {
	mu.Lock()
	defer mu.Unlock()
	current = s
}

// L returns the process-wide logger. It never returns nil.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return discard
	}
	return current.log
}

func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.path
}

// Session returns the id stamped on every record of the current invocation.
func Session() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.id
}

func InitTime() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return time.Time{}
	}
	return current.startedAt
}

// IsReady reports an error unless Setup succeeded and cleanup has not run.
func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return errors.New("logger not initialized")
	}
	return nil
}
