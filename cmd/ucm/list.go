package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every use case on record",
	Args:  cobra.NoArgs,
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		all, err := c.coord.ListUseCases(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, uc := range all {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", uc.ID, uc.Category, uc.Priority, uc.Title)
		}
		return nil
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Show one use case's full record",
	Args:  cobra.ExactArgs(1),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		uc, err := c.coord.GetUseCase(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %s\n", uc.ID, uc.Title)
		fmt.Fprintf(out, "category: %s\npriority: %s\n", uc.Category, uc.Priority)
		fmt.Fprintf(out, "description: %s\n", uc.Description)
		for _, v := range uc.Views {
			fmt.Fprintf(out, "view: %s:%s enabled=%t\n", v.Methodology, v.Level, v.Enabled)
		}
		for _, sc := range uc.Scenarios {
			fmt.Fprintf(out, "scenario: %s %q [%s/%s]\n", sc.ID, sc.Title, sc.ScenarioType, sc.Status)
		}
		return nil
	}),
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a use case's source record and generated Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		return c.coord.DeleteUseCase(cmd.Context(), args[0])
	}),
}

func init() {
	rootCmd.AddCommand(listCmd, statusCmd, deleteCmd)
}
