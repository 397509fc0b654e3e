package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func convertCmd(g *globalFlags) *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "convert <post>",
		Short: "Print a Hugo post as dev.to body markdown",
		Long: "Convert one post: skip shortcodes are removed, inline $math$ becomes a katex\n" +
			"liquid tag and the front matter is mapped to dev.to keys.\n" +
			"<post> is a path, a file name in the content dir, a slug or a title.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, cleanup, err := openWorkspace(g, "convert")
			defer cleanup()
			if err != nil {
				return err
			}

			path, err := resolvePostPath(ws, args[0])
			if err != nil {
				return err
			}

			body, err := ws.ConvertPost().Execute(path)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			if err := os.WriteFile(out, []byte(body), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
			return nil
		},
	}

	c.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return c
}
