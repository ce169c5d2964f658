package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate [id]",
	Short: "Regenerate Markdown for one use case, or every use case if id is omitted",
	Args:  cobra.MaximumNArgs(1),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		if len(args) == 1 {
			return c.coord.RegenerateMarkdown(cmd.Context(), args[0])
		}
		return c.coord.RegenerateAllMarkdown(cmd.Context())
	}),
}

var regenerateWithMethodologyCmd = &cobra.Command{
	Use:   "regenerate-with-methodology <id> <methodology>",
	Short: "Validate a methodology exists, then regenerate a use case's Markdown",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		return c.coord.RegenerateUseCaseWithMethodology(cmd.Context(), args[0], args[1])
	}),
}

var (
	cleanupID     string
	cleanupDryRun bool
)

var cleanupMethodologyFieldsCmd = &cobra.Command{
	Use:   "cleanup-methodology-fields",
	Short: "Remove methodology_fields entries whose methodology is no longer an enabled view",
	Args:  cobra.NoArgs,
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		var id *string
		if cleanupID != "" {
			id = &cleanupID
		}
		cleaned, checked, details, err := c.coord.CleanupMethodologyFields(cmd.Context(), id, cleanupDryRun)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, d := range details {
			fmt.Fprintf(out, "%s: removed %v\n", d.ID, d.RemovedMethodologies)
		}
		fmt.Fprintf(out, "%d/%d use case(s) had orphaned methodology fields\n", cleaned, checked)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(regenerateCmd, regenerateWithMethodologyCmd, cleanupMethodologyFieldsCmd)
	cleanupMethodologyFieldsCmd.Flags().StringVar(&cleanupID, "id", "", "limit to one use case id")
	cleanupMethodologyFieldsCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "report without persisting changes")
}
