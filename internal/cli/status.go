package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

func statusCmd(g *globalFlags) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "status",
		Short: "List posts with their dev.to counterpart and what sync would do",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, cleanup, err := openWorkspace(g, "status")
			defer cleanup()
			if err != nil {
				return err
			}

			plan, err := ws.SyncArticles(false).Plan(cmd.Context(), false)
			if err != nil {
				return err
			}
			return printStatus(cmd.OutOrStdout(), ws.Root, plan, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

type statusRow struct {
	Title     string        `json:"title"`
	Path      string        `json:"path"`
	Draft     bool          `json:"draft"`
	Action    domain.Action `json:"action"`
	ArticleID int           `json:"article_id,omitempty"`
	URL       string        `json:"url,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}

func statusRows(root string, plan domain.SyncPlan) []statusRow {
	rows := make([]statusRow, 0, len(plan.Items))
	for _, it := range plan.Items {
		path := it.Post.Path
		if rel, err := filepath.Rel(root, path); err == nil {
			path = rel
		}
		row := statusRow{
			Title:  it.Post.Title,
			Path:   path,
			Draft:  it.Post.Draft(),
			Action: it.Action,
			Reason: it.Reason,
		}
		if it.Err != nil {
			row.Reason = it.Err.Error()
		}
		if it.Remote != nil {
			row.ArticleID = it.Remote.ID
			row.URL = it.Remote.URL
		}
		rows = append(rows, row)
	}
	return rows
}

func printStatus(w io.Writer, root string, plan domain.SyncPlan, format string) error {
	rows := statusRows(root, plan)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "pretty", "":
		if len(rows) == 0 {
			fmt.Fprintln(w, "(no posts found)")
			return nil
		}
		for _, r := range rows {
			draft := ""
			if r.Draft {
				draft = " [draft]"
			}
			fmt.Fprintf(w, "- %-7s %s%s  (%s)\n", r.Action, r.Title, draft, r.Path)
			if r.URL != "" {
				fmt.Fprintf(w, "          %s\n", r.URL)
			}
			if r.Reason != "" {
				fmt.Fprintf(w, "          %s\n", r.Reason)
			}
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%d to upload, %d to update, %d up to date",
			plan.Count(domain.ActionUpload), plan.Count(domain.ActionUpdate), plan.Count(domain.ActionNone))
		if n := plan.Count(domain.ActionSkip); n > 0 {
			fmt.Fprintf(w, ", %d skipped", n)
		}
		fmt.Fprintln(w)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}
