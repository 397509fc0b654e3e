package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicToast = "Unexpected error (see logs)"

// safeModel keeps a panic in a command handler or view from taking the
// terminal down with it. After a panic the user lands on the home screen
// with the workspace they had open; any in-flight plan or load is dropped.
type safeModel struct {
	m      model
	log    *slog.Logger
	panics int
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) logPanic(where string, r any, attrs ...any) {
	attrs = append([]any{
		"where", where,
		"screen", int(s.m.scr),
		"workspace", s.m.workspaceRoot,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	}, attrs...)
	s.log.Error("tui.panic", attrs...)
}

func (s safeModel) Init() (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("init", r)
			cmd = nil
		}
	}()
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("update", r, "msg", fmt.Sprintf("%T", msg))
			s.panics++
			s.m = s.m.home(panicToast)
			tm, cmd = s, nil
		}
	}()

	inner, c := s.m.Update(msg)
	switch v := inner.(type) {
	case model:
		s.m = v
	case safeModel:
		s = v
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("view", r)
			out = panicToast
		}
	}()
	return s.m.View()
}

var _ tea.Model = (*safeModel)(nil)
