// Command ucm is the CLI shell for the use case manager: a thin cobra
// wrapper over internal/coordinator. Argument parsing, prompts, and exit
// code mapping live here; every operation's semantics live in the
// coordinator and domain packages (spec §1, §6).
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/config"
	"github.com/Guillaumecoi/usecasemgr/internal/coordinator"
	"github.com/Guillaumecoi/usecasemgr/internal/methodology"
	"github.com/Guillaumecoi/usecasemgr/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "ucm",
	Short: "Generate and maintain methodology-driven use case documentation",
	Long: `ucm tracks use cases as structured source records and renders them into
Markdown and test stubs according to a project's configured documentation
methodologies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ucm:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a returned error to the process exit code spec §6/§7
// describes: 1 for user-facing errors, 2 for everything else.
func exitCode(err error) int {
	if appErr, ok := apperr.As(err); ok && appErr.Kind.User() {
		return 1
	}
	return 2
}

// projectRoot returns the current working directory, the project root for
// every command (ucm has no upward-search convention — run it from the
// project's own root).
func projectRoot() (string, error) {
	return os.Getwd()
}

// buildCoordinator loads the project descriptor, the methodology registry
// and template registry from the materialised workspace, and the
// configured repository backend, returning a ready coordinator plus its
// closer.
func buildCoordinator(root string) (*coordinator.UseCaseCoordinator, io.Closer, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}

	workspace := config.TemplateWorkspacePath(root)
	methodologies := methodology.NewRegistry()
	if err := methodologies.Load(filepath.Join(workspace, "methodologies")); err != nil {
		return nil, nil, err
	}

	templates := coordinator.BuildTemplateRegistry(workspace, "", methodologies, cfg.Generation.TestLanguage)

	repos, err := storage.Factory(root, cfg)
	if err != nil {
		return nil, nil, err
	}

	return coordinator.New(repos, methodologies, templates, cfg), repos.Closer, nil
}

// coordinatorArgs bundles the built coordinator for handlers wrapped by
// withCoordinator.
type coordinatorArgs struct {
	coord *coordinator.UseCaseCoordinator
}

// withCoordinator adapts a handler that only needs a ready coordinator into
// a cobra RunE, handling project-root resolution, coordinator construction,
// and closer cleanup once for every command that follows this shape.
func withCoordinator(fn func(cmd *cobra.Command, c *coordinatorArgs, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		coord, closer, err := buildCoordinator(root)
		if err != nil {
			return err
		}
		defer closer.Close()
		return fn(cmd, &coordinatorArgs{coord: coord}, args)
	}
}
