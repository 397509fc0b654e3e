package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rvodden/rvodden.github.io/internal/domain"
	"github.com/rvodden/rvodden.github.io/internal/usecase"
)

func syncCmd(g *globalFlags) *cobra.Command {
	var dryRun bool
	var diff bool
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "sync",
		Short: "Cross-post every Hugo post to dev.to",
		Long: "Upload posts that have no dev.to article with the same title and update\n" +
			"articles whose front matter or content drifted from the converted post.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, cleanup, err := openWorkspace(g, "sync")
			defer cleanup()
			if err != nil {
				return err
			}

			uc := ws.SyncArticles(!noSave)
			report, reportID, err := uc.Execute(cmd.Context(), usecase.SyncRequest{DryRun: dryRun, Diff: diff})
			if err != nil {
				// Print what we have so partial progress is visible.
				_ = printReport(cmd.OutOrStdout(), report, reportID, format)
				return err
			}

			if err := printReport(cmd.OutOrStdout(), report, reportID, format); err != nil {
				return err
			}

			if fails := report.Failures(); fails > 0 {
				return fmt.Errorf("sync failed (%d failed post(s))", fails)
			}
			return nil
		},
	}

	c.Flags().BoolVar(&dryRun, "dry-run", false, "Plan only; do not upload or update")
	c.Flags().BoolVar(&diff, "diff", false, "Attach a diff to every planned update")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save the sync report under runs/")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

// checkFormat rejects unknown output formats before any work is done.
func checkFormat(format string) error {
	switch format {
	case "pretty", "json", "":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printReport(w io.Writer, report domain.SyncReport, reportID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"report_id": reportID,
			"report":    report,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyReport(w, report, reportID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyReport(w io.Writer, report domain.SyncReport, reportID string) {
	total := report.EndedAt.Sub(report.StartedAt)
	if report.StartedAt.IsZero() || report.EndedAt.IsZero() {
		total = 0
	}

	mode := "sync"
	if report.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(w, "Content:  %s\n", report.ContentDir)
	fmt.Fprintf(w, "Mode:     %s\n", mode)
	fmt.Fprintf(w, "Duration: %s\n", total)
	if reportID != "" {
		fmt.Fprintf(w, "Report:   %s\n", reportID)
	}
	fmt.Fprintln(w)

	for _, it := range report.Items {
		fmt.Fprintf(w, "- [%s] %s (%s)\n", outcomeLabel(it), it.Title, it.Action)
		if it.URL != "" {
			fmt.Fprintf(w, "  url: %s\n", it.URL)
		}
		if it.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", it.Error)
		}
		if it.Diff != "" {
			for _, line := range strings.Split(strings.TrimRight(it.Diff, "\n"), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d item(s), %d failed\n", len(report.Items), report.Failures())
}

func outcomeLabel(it domain.ItemResult) string {
	switch it.Outcome {
	case domain.OutcomeSuccess:
		return "OK"
	case domain.OutcomeFailure:
		return "FAIL"
	default:
		return "SKIP"
	}
}
