package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rvodden/rvodden.github.io/internal/domain"
)

func publishCmd(g *globalFlags) *cobra.Command {
	var branch string
	var format string

	c := &cobra.Command{
		Use:   "publish",
		Short: "Force-push the generated site (public/) to the hosting branch",
		Long: "Reads the remote URL from the workspace git config, commits the publish\n" +
			"directory as a single commit authored by USER_NAME <USER_EMAIL> and\n" +
			"force-pushes it. Stops at the first failing git command.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			ws, cleanup, err := openWorkspace(g, "publish")
			defer cleanup()
			if err != nil {
				return err
			}

			in := ws.PublishInput()
			if branch != "" {
				in.Branch = branch
			}

			rep, err := ws.PublishSite().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printPublish(cmd.OutOrStdout(), rep, format)
		},
	}

	c.Flags().StringVar(&branch, "branch", "", "Override the target branch from blogctl.yaml")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printPublish(w io.Writer, rep domain.PublishReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"remote": rep.RemoteURL,
			"branch": rep.Branch,
			"commit": rep.Commit,
			"files":  rep.Files,
		})
	case "pretty", "":
		fmt.Fprintf(w, "Published %d file(s) to %s (%s)\n", rep.Files, rep.RemoteURL, rep.Branch)
		fmt.Fprintf(w, "Commit: %s\n", rep.Commit)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}
