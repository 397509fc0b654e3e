package runstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/infra/logger"
	"github.com/rvodden/rvodden.github.io/internal/ports"
)

const defaultRunsDir = "runs"
const maskValue = "********"

// Section headers written by the compare package. Key-based masking only
// applies between them, never to post content.
const (
	frontMatterHeader = "front matter (-remote +local):"
	contentHeader     = "--- remote"
)

// JSONStore writes one pretty-printed JSON file per sync report.
type JSONStore struct {
	rootDir        string
	runsDir        string
	maskingEnabled bool
	secrets        []string
	writeIndex     bool
	now            func() time.Time
	log            *slog.Logger
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: runs/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithLogger overrides the process logger for index write failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *JSONStore) { s.log = l }
}

// WithSecrets registers literal values that must never reach disk when
// masking is enabled (e.g. the dev.to API token).
func WithSecrets(values ...string) Option {
	return func(s *JSONStore) {
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				s.secrets = append(s.secrets, v)
			}
		}
	}
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	runsDir := cfg.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	s := &JSONStore{
		rootDir:        root,
		runsDir:        runsDir,
		maskingEnabled: cfg.Masking.Enabled,
		writeIndex:     false,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ReportStore = (*JSONStore)(nil)

// Dir is the directory reports are written to.
func (s *JSONStore) Dir() string {
	if filepath.IsAbs(s.runsDir) {
		return s.runsDir
	}
	return filepath.Join(s.rootDir, s.runsDir)
}

func (s *JSONStore) SaveReport(report domain.SyncReport) (string, error) {
	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := report.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := report
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}

	slug := "sync"
	if report.DryRun {
		slug = "sync-dry-run"
	}

	base := fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug)
	id := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(dir, id+".json")); os.IsNotExist(err) {
			break
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
	filename := id + ".json"
	path := filepath.Join(dir, filename)

	if s.maskingEnabled {
		toSave = s.maskReport(toSave)
	}

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// The report itself is saved; a broken index only costs the listing.
	if s.writeIndex {
		if err := s.appendIndex(dir, id, filename, toSave); err != nil {
			s.logger().Warn("runstore.index.failed", "id", id, "dir", dir, "error", err.Error())
		}
	}

	return id, nil
}

// IndexEntry is one line of runs/index.jsonl.
type IndexEntry struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	DryRun    bool      `json:"dry_run"`
	Items     int       `json:"items"`
	Failures  int       `json:"failures"`
	StartedAt time.Time `json:"started_at"`
}

func (s *JSONStore) appendIndex(dir, id, filename string, report domain.SyncReport) error {
	line, err := json.Marshal(IndexEntry{
		ID:        id,
		File:      filename,
		DryRun:    report.DryRun,
		Items:     len(report.Items),
		Failures:  report.Failures(),
		StartedAt: report.StartedAt,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *JSONStore) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.L()
}

// maskReport returns a masked copy (does NOT mutate the input).
func (s *JSONStore) maskReport(report domain.SyncReport) domain.SyncReport {
	out := report
	out.Items = make([]domain.ItemResult, 0, len(report.Items))
	for _, it := range report.Items {
		c := it
		c.Error = maskKeys(s.maskSecrets(it.Error))
		c.Diff = s.maskDiff(it.Diff)
		out.Items = append(out.Items, c)
	}
	return out
}

// maskDiff hides registered secrets anywhere in the diff but only masks
// sensitive keys in the front matter section, so prose such as
// "+Access tokens: ..." in a post survives.
func (s *JSONStore) maskDiff(diff string) string {
	fm, content := splitDiff(s.maskSecrets(diff))
	return maskKeys(fm) + content
}

func splitDiff(diff string) (frontMatter, content string) {
	if !strings.HasPrefix(diff, frontMatterHeader) {
		return "", diff
	}
	if i := strings.Index(diff, "\n"+contentHeader); i >= 0 {
		return diff[:i+1], diff[i+1:]
	}
	return diff, ""
}

func (s *JSONStore) maskSecrets(text string) string {
	for _, secret := range s.secrets {
		text = strings.ReplaceAll(text, secret, maskValue)
	}
	return text
}

func maskKeys(text string) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if key, _, ok := strings.Cut(line, ":"); ok && isSensitiveKey(key) {
			lines[i] = key + ": " + maskValue
		}
	}
	return strings.Join(lines, "\n")
}

// isSensitiveKey accepts plain "key" as well as diff-prefixed and quoted
// forms such as `- \t"api_key"`.
func isSensitiveKey(k string) bool {
	kk := strings.ToLower(strings.TrimFunc(k, func(r rune) bool {
		return unicode.IsSpace(r) || r == '+' || r == '-' || r == '"'
	}))
	switch kk {
	case "authorization", "proxy-authorization", "cookie", "set-cookie", "api_key", "x-api-key":
		return true
	}
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password")
}
