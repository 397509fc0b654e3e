package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func actionLabel(a domain.Action) string {
	switch a {
	case domain.ActionUpload:
		return "UPLOAD"
	case domain.ActionUpdate:
		return "UPDATE"
	case domain.ActionNone:
		return "OK"
	case domain.ActionSkip:
		return "SKIP"
	default:
		return strings.ToUpper(string(a))
	}
}

func renderPlan(plan domain.SyncPlan, t Theme) string {
	if len(plan.Items) == 0 {
		return "(no posts found)\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d to upload, %d to update, %d up to date",
		plan.Count(domain.ActionUpload), plan.Count(domain.ActionUpdate), plan.Count(domain.ActionNone)))
	if n := plan.Count(domain.ActionSkip); n > 0 {
		b.WriteString(fmt.Sprintf(", %d skipped", n))
	}
	b.WriteString("\n\n")

	for _, it := range plan.Items {
		label := actionLabel(it.Action)
		b.WriteString("  - ")
		b.WriteString(t.action(label).Render("[" + label + "]"))
		b.WriteString(" ")
		title := it.Post.Title
		if title == "" {
			title = filepath.Base(it.Post.Path)
		}
		b.WriteString(clampString(title, 70))
		if it.Post.Draft() {
			b.WriteString(" ")
			b.WriteString(t.Draft.Render("(draft)"))
		}
		b.WriteString("\n")

		var detail []string
		if it.Remote != nil && it.Remote.URL != "" {
			detail = append(detail, t.Link.Render(it.Remote.URL))
		}
		switch {
		case it.Err != nil:
			detail = append(detail, it.Err.Error())
		case it.Reason != "":
			detail = append(detail, it.Reason)
		}
		if it.Diff != "" {
			for _, line := range strings.Split(strings.TrimRight(it.Diff, "\n"), "\n") {
				detail = append(detail, t.diffLine(line))
			}
		}
		for _, line := range detail {
			b.WriteString("      ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
