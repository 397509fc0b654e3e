package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := deps.startDir()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadPosts(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		ws, err := deps.open()(root, deps.Logger)
		if err != nil {
			return postsLoadedMsg{root: root, err: err}
		}

		refs, err := ws.Posts.ListRefs()
		return postsLoadedMsg{root: root, refs: refs, err: err}
	}
}

func cmdPreviewPost(deps Deps, root, path string) tea.Cmd {
	return func() tea.Msg {
		p := filepath.Clean(path)

		ws, err := deps.open()(root, deps.Logger)
		if err != nil {
			return postPreviewMsg{path: p, err: err}
		}

		body, err := ws.ConvertPost().Execute(p)
		return postPreviewMsg{path: p, preview: body, err: err}
	}
}

func listenPlan(ch <-chan planDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return planDoneMsg{err: errors.New("plan channel closed")}
		}
		return msg
	}
}

// startPlanAsync computes a dry sync plan with diffs in the background.
func startPlanAsync(deps Deps, root string) (chan planDoneMsg, tea.Cmd) {
	ch := make(chan planDoneMsg, 1)

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	go func() {
		defer close(ch)
		defer func() {
			if r := recover(); r != nil {
				log.Error("plan.panic", "panic", fmt.Sprint(r))
				ch <- planDoneMsg{err: fmt.Errorf("plan aborted: %v", r)}
			}
		}()

		log.Info("plan.start", "workspace", root, "debug", deps.Debug)

		ws, err := deps.open()(root, log)
		if err != nil {
			log.Error("plan.open.failed", "err", err)
			ch <- planDoneMsg{err: err}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		plan, err := ws.SyncArticles(false).Plan(ctx, true)
		if err != nil {
			log.Error("plan.failed", "err", err)
		} else {
			log.Info("plan.ok",
				"upload", plan.Count(domain.ActionUpload),
				"update", plan.Count(domain.ActionUpdate),
				"none", plan.Count(domain.ActionNone),
			)
		}

		ch <- planDoneMsg{plan: plan, err: err}
	}()

	return ch, listenPlan(ch)
}
