package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles for the chrome and for sync plan rendering.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Toast    lipgloss.Style

	// Plan labels, keyed by what a sync would do to the post.
	Upload   lipgloss.Style
	Update   lipgloss.Style
	UpToDate lipgloss.Style
	Skip     lipgloss.Style
	Draft    lipgloss.Style

	DiffAdd lipgloss.Style
	DiffDel lipgloss.Style
	Link    lipgloss.Style
}

func DefaultTheme() Theme {
	faint := lipgloss.NewStyle().Faint(true)
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: faint,
		Help:     faint,
		Card: lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Toast: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),

		Upload:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Update:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		UpToDate: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Skip:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Draft:    faint.Italic(true),

		DiffAdd: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		DiffDel: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Link:    lipgloss.NewStyle().Underline(true),
	}
}

func (t Theme) action(label string) lipgloss.Style {
	switch label {
	case "UPLOAD":
		return t.Upload
	case "UPDATE":
		return t.Update
	case "OK":
		return t.UpToDate
	default:
		return t.Skip
	}
}

// diffLine colours one line of a unified diff. Headers are left plain.
func (t Theme) diffLine(line string) string {
	switch {
	case len(line) >= 3 && (line[:3] == "+++" || line[:3] == "---"):
		return line
	case len(line) > 0 && line[0] == '+':
		return t.DiffAdd.Render(line)
	case len(line) > 0 && line[0] == '-':
		return t.DiffDel.Render(line)
	default:
		return line
	}
}
