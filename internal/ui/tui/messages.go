package tui

import "github.com/rvodden/rvodden.github.io/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type postsLoadedMsg struct {
	root string
	refs []domain.PostRef
	err  error
}

type postPreviewMsg struct {
	path    string
	preview string
	err     error
}

type planDoneMsg struct {
	plan domain.SyncPlan
	err  error
}
