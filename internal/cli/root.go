package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rvodden/rvodden.github.io/internal/buildinfo"
	"github.com/rvodden/rvodden.github.io/internal/infra/fsworkspace"
	"github.com/rvodden/rvodden.github.io/internal/infra/logger"
	"github.com/rvodden/rvodden.github.io/internal/infra/workspacefinder"
	"github.com/rvodden/rvodden.github.io/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	workspace string
	debug     bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:          "blogctl",
		Short:        "blogctl: cross-post, diff and publish a Hugo blog",
		Version:      buildinfo.Version,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			deps, logRoot, err := tuiDeps(g)
			if err != nil {
				return err
			}

			cleanup, _ := logger.Setup(logger.Config{
				Root:    logRoot,
				Debug:   g.debug,
				Command: "tui",
			})
			if cleanup != nil {
				defer func() { _ = cleanup() }()
			}
			deps.Logger = logger.L()

			return tui.Run(deps)
		},
	}
	cmd.SetVersionTemplate(buildinfo.String() + "\n")

	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable verbose logging to .blogctl/logs/blogctl.log")
	cmd.PersistentFlags().StringVarP(&g.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")

	cmd.AddCommand(
		initCmd(),
		convertCmd(g),
		syncCmd(g),
		statusCmd(g),
		publishCmd(g),
		sketchCmd(),
		versionCmd(),
	)
	return cmd
}

// tuiDeps starts the TUI at --workspace when given, else at the working
// directory. Logs go to the enclosing workspace, or to the start dir when
// there is none yet.
func tuiDeps(g *globalFlags) (tui.Deps, string, error) {
	start, err := tuiStartDir(g.workspace)
	if err != nil {
		return tui.Deps{}, "", err
	}

	finder := workspacefinder.NewFinder()
	logRoot := start
	if root, ferr := finder.FindRoot(start); ferr == nil && root != "" {
		logRoot = root
	}

	return tui.Deps{
		WorkspaceLocator:     finder,
		WorkspaceInitializer: fsworkspace.NewInitializer(),
		StartDir:             start,
		Debug:                g.debug,
	}, logRoot, nil
}

func tuiStartDir(workspaceFlag string) (string, error) {
	if strings.TrimSpace(workspaceFlag) != "" {
		return resolveWorkspaceRoot(workspaceFlag)
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return filepath.Abs(wd)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(buildinfo.String())
		},
	}
}
