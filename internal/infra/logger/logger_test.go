package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line is not JSON: %v (%s)", err, line)
		}
		out = append(out, rec)
	}
	return out
}

func TestSetup_WritesJSONToWorkspaceLog(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root, Debug: true, Command: "sync"})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if err := IsReady(); err != nil {
		t.Fatalf("expected ready logger, got %v", err)
	}

	want := filepath.Join(root, ".blogctl", "logs", "blogctl.log")
	if Path() != want {
		t.Fatalf("expected path %q, got %q", want, Path())
	}
	if InitTime().IsZero() {
		t.Fatalf("expected init time")
	}
	session := Session()
	if session == "" {
		t.Fatalf("expected session id")
	}

	L().Debug("sync.plan", "posts", 3)
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup error: %v", err)
	}
	if err := IsReady(); err == nil {
		t.Fatalf("expected logger not ready after cleanup")
	}
	if Session() != "" || Path() != "" {
		t.Fatalf("expected session cleared after cleanup")
	}

	recs := readRecords(t, want)
	if len(recs) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec["command"] != "sync" || rec["session"] != session {
			t.Fatalf("expected command/session on every record, got %v", rec)
		}
	}
	if recs[1]["msg"] != "sync.plan" {
		t.Fatalf("unexpected msg %v", recs[1]["msg"])
	}
	if _, ok := recs[1]["source"]; !ok {
		t.Fatalf("expected source attribute in debug mode")
	}
}

func TestSetup_DefaultCommandAndInfoLevel(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	L().Debug("hidden")
	L().Info("shown")
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup error: %v", err)
	}

	recs := readRecords(t, filepath.Join(root, ".blogctl", "logs", "blogctl.log"))
	if len(recs) != 2 {
		t.Fatalf("expected init + info records, got %d", len(recs))
	}
	if recs[1]["msg"] != "shown" || recs[1]["command"] != "blogctl" {
		t.Fatalf("unexpected record %v", recs[1])
	}
	if _, ok := recs[1]["source"]; ok {
		t.Fatalf("source should only be added in debug mode")
	}
}

func TestCleanup_StaleSessionLeavesNewerInstalled(t *testing.T) {
	first, err := Setup(Config{Root: t.TempDir(), Command: "status"})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	second, err := Setup(Config{Root: t.TempDir(), Command: "publish"})
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	defer func() { _ = second() }()

	_ = first()
	if err := IsReady(); err != nil {
		t.Fatalf("closing an older session must not uninstall the newer one: %v", err)
	}
}

func TestL_NeverNil(t *testing.T) {
	if L() == nil {
		t.Fatalf("expected default logger")
	}
}
