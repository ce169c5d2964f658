package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

var addPreconditionCmd = &cobra.Command{
	Use:   "add-precondition <id> <text>",
	Short: "Append a precondition to a use case",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		return c.coord.AddPrecondition(cmd.Context(), args[0], args[1])
	}),
}

var addPostconditionCmd = &cobra.Command{
	Use:   "add-postcondition <id> <text>",
	Short: "Append a postcondition to a use case",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		return c.coord.AddPostcondition(cmd.Context(), args[0], args[1])
	}),
}

var removePreconditionCmd = &cobra.Command{
	Use:   "remove-precondition <id> <index>",
	Short: "Remove a 1-based indexed precondition",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		return c.coord.RemovePrecondition(cmd.Context(), args[0], idx)
	}),
}

var removePostconditionCmd = &cobra.Command{
	Use:   "remove-postcondition <id> <index>",
	Short: "Remove a 1-based indexed postcondition",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		return c.coord.RemovePostcondition(cmd.Context(), args[0], idx)
	}),
}

var (
	refRelationship string
	refDescription  string
)

var addReferenceCmd = &cobra.Command{
	Use:   "add-reference <id> <target-id>",
	Short: "Add a use-case-to-use-case reference",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		return c.coord.AddUseCaseReference(cmd.Context(), args[0], domain.UseCaseReference{
			TargetID:     args[1],
			Relationship: refRelationship,
			Description:  refDescription,
		})
	}),
}

func init() {
	rootCmd.AddCommand(addPreconditionCmd, addPostconditionCmd, removePreconditionCmd, removePostconditionCmd, addReferenceCmd)
	addReferenceCmd.Flags().StringVar(&refRelationship, "relationship", domain.RelationshipDependency, "dependency|extension|inclusion|alternative")
	addReferenceCmd.Flags().StringVar(&refDescription, "description", "", "reference description")
}
