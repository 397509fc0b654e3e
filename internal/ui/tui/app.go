package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

type screen int

const (
	screenHome screen = iota
	screenPosts
	screenPreview
	screenPlan
)

const (
	menuPosts = "Posts"
	menuPlan  = "Sync plan"
	menuInit  = "Init workspace"
	menuQuit  = "Quit"
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type postItem struct {
	ref domain.PostRef
}

func (p postItem) Title() string       { return p.ref.Title }
func (p postItem) Description() string { return filepath.Base(p.ref.Path) }
func (p postItem) FilterValue() string { return p.ref.Title }

type model struct {
	theme Theme
	deps  Deps

	scr     screen
	menu    list.Model
	posts   list.Model
	preview viewport.Model

	previewPath string
	plan        domain.SyncPlan
	planning    bool
	loading     bool
	toast       string

	cwd            string
	workspaceFound bool
	workspaceRoot  string
}

func Run(deps Deps) error {
	m := wrapSafe(newModel(deps), deps.Logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := []list.Item{
		menuItem{menuPosts, "Browse posts and preview their dev.to rendering"},
		menuItem{menuPlan, "Compare posts with dev.to articles (no changes made)"},
		menuItem{menuInit, "Create blogctl.yaml in the current directory"},
		menuItem{menuQuit, "Exit blogctl"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "blogctl"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	pl := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	pl.Title = "Posts"
	pl.SetShowHelp(false)

	m := model{
		theme:   t,
		deps:    deps,
		scr:     screenHome,
		menu:    l,
		posts:   pl,
		preview: viewport.New(80, 20),
	}

	wd, err := deps.startDir()
	if err == nil {
		m.cwd = wd
		if deps.WorkspaceLocator != nil {
			if root, findErr := deps.WorkspaceLocator.FindRoot(wd); findErr == nil {
				m.workspaceFound = true
				m.workspaceRoot = root
			}
		}
	}

	return m
}

func (m model) Init() tea.Cmd { return cmdRefreshWorkspace(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		m.menu.SetSize(w-4, h-10)
		m.posts.SetSize(w-4, h-10)
		m.preview.Width = max(w-8, 1)
		m.preview.Height = max(h-12, 1)
		return m, nil

	case workspaceRefreshedMsg:
		m.cwd = msg.cwd
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		return m, nil

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace initialized at " + msg.root
		m.workspaceFound = true
		m.workspaceRoot = msg.root
		return m, nil

	case postsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.home(userMessage(msg.err)), nil
		}
		items := make([]list.Item, 0, len(msg.refs))
		for _, r := range msg.refs {
			items = append(items, postItem{ref: r})
		}
		cmd := m.posts.SetItems(items)
		if len(items) == 0 {
			m.toast = "No posts found"
		}
		return m, cmd

	case postPreviewMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.previewPath = msg.path
		m.preview.SetContent(msg.preview)
		m.preview.GotoTop()
		m.scr = screenPreview
		return m, nil

	case planDoneMsg:
		m.planning = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = ""
		m.plan = msg.plan
		m.preview.SetContent(renderPlan(msg.plan, m.theme))
		m.preview.GotoTop()
		m.scr = screenPlan
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.filtering() {
			break
		}

		switch msg.String() {
		case "q":
			if m.scr == screenHome {
				return m, tea.Quit
			}
			m.scr = screenHome
			return m, nil

		case "esc", "b":
			switch m.scr {
			case screenPreview:
				m.scr = screenPosts
				return m, nil
			case screenPosts, screenPlan:
				m.scr = screenHome
				return m, nil
			}

		case "enter":
			switch m.scr {
			case screenHome:
				it, ok := m.menu.SelectedItem().(menuItem)
				if !ok {
					return m, nil
				}
				return m.openMenu(it)
			case screenPosts:
				it, ok := m.posts.SelectedItem().(postItem)
				if !ok {
					return m, nil
				}
				return m, cmdPreviewPost(m.deps, m.workspaceRoot, it.ref.Path)
			}
		}
	}

	var cmd tea.Cmd
	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenPosts:
		m.posts, cmd = m.posts.Update(msg)
	case screenPreview, screenPlan:
		m.preview, cmd = m.preview.Update(msg)
	}
	return m, cmd
}

// home returns to the menu, dropping in-flight work. The workspace stays.
func (m model) home(toast string) model {
	m.scr = screenHome
	m.planning = false
	m.loading = false
	m.plan = domain.SyncPlan{}
	m.previewPath = ""
	m.toast = toast
	return m
}

func (m model) filtering() bool {
	switch m.scr {
	case screenHome:
		return m.menu.FilterState() == list.Filtering
	case screenPosts:
		return m.posts.FilterState() == list.Filtering
	}
	return false
}

func (m model) openMenu(it menuItem) (tea.Model, tea.Cmd) {
	m.toast = ""
	switch it.title {
	case menuQuit:
		return m, tea.Quit

	case menuInit:
		root := m.cwd
		if root == "" {
			root = "."
		}
		return m, cmdInitWorkspaceHere(m.deps, root)

	case menuPosts:
		if !m.workspaceFound {
			m.toast = "No workspace found (choose " + menuInit + ")"
			return m, nil
		}
		m.loading = true
		m.scr = screenPosts
		return m, cmdLoadPosts(m.deps, m.workspaceRoot)

	case menuPlan:
		if !m.workspaceFound {
			m.toast = "No workspace found (choose " + menuInit + ")"
			return m, nil
		}
		if m.planning {
			return m, nil
		}
		m.planning = true
		m.toast = "Planning sync…"
		_, cmd := startPlanAsync(m.deps, m.workspaceRoot)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("blogctl") + "\n" +
		m.theme.Subtitle.Render("Hugo posts, dev.to cross-posting and site publishing") + "\n"

	var workspaceBanner string
	if m.workspaceFound {
		workspaceBanner = m.theme.Help.Render(fmt.Sprintf("Workspace: %s", m.workspaceRoot))
	} else {
		workspaceBanner = m.theme.Card.Render(
			"⚠ No workspace found.\n\nCreate one with " + menuInit + ".",
		)
	}

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Toast.Render(m.toast)
	}

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")
		return wrap.Render(header + "\n" + workspaceBanner + "\n\n" + m.theme.Card.Render(m.menu.View()) + "\n" + help + toast)

	case screenPosts:
		body := m.posts.View()
		if m.loading {
			body = "Loading posts…"
		}
		help := m.theme.Help.Render("enter preview • / search • esc back • q home")
		return wrap.Render(header + "\n" + workspaceBanner + "\n\n" + m.theme.Card.Render(body) + "\n" + help + toast)

	case screenPreview:
		title := m.theme.Title.Render(clampString(filepath.Base(m.previewPath), 60))
		help := m.theme.Help.Render("↑/↓ scroll • esc back • q home")
		return wrap.Render(header + "\n" + title + "\n\n" + m.theme.Card.Render(m.preview.View()) + "\n" + help + toast)

	case screenPlan:
		title := m.theme.Title.Render(menuPlan)
		help := m.theme.Help.Render("↑/↓ scroll • esc back • q home")
		return wrap.Render(header + "\n" + title + "\n\n" + m.theme.Card.Render(m.preview.View()) + "\n" + help + toast)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}
