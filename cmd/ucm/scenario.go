package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

var (
	scenarioType   string
	scenarioPersona string
)

var addScenarioCmd = &cobra.Command{
	Use:   "add-scenario <id> <scenario-id> <title> <description>",
	Short: "Add a scenario to a use case",
	Args:  cobra.ExactArgs(4),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		sc := domain.NewScenario(args[1], args[2], args[3], domain.ScenarioType(scenarioType))
		sc.Persona = scenarioPersona
		return c.coord.AddScenario(cmd.Context(), args[0], *sc)
	}),
}

var deleteScenarioCmd = &cobra.Command{
	Use:   "delete-scenario <id> <scenario-id>",
	Short: "Delete a scenario, rejected while another scenario references it",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		return c.coord.DeleteScenario(cmd.Context(), args[0], args[1])
	}),
}

var editScenarioCmd = &cobra.Command{
	Use:   "edit-scenario <id> <scenario-id>",
	Short: "Edit a scenario's title/description",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		var title, description *string
		if v, _ := cmd.Flags().GetString("title"); v != "" {
			title = &v
		}
		if v, _ := cmd.Flags().GetString("description"); v != "" {
			description = &v
		}
		return c.coord.EditScenario(cmd.Context(), args[0], args[1], title, description)
	}),
}

var updateScenarioStatusCmd = &cobra.Command{
	Use:   "update-status <id> <scenario-id> <status>",
	Short: "Transition a scenario's status (forward-only)",
	Args:  cobra.ExactArgs(3),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		return c.coord.UpdateScenarioStatus(cmd.Context(), args[0], args[1], domain.Status(args[2]))
	}),
}

var (
	stepReceiver string
	stepNotes    string
)

var addScenarioStepCmd = &cobra.Command{
	Use:   "add-scenario-step <id> <scenario-id> <order> <actor> <action> <description>",
	Short: "Append a step to a scenario",
	Args:  cobra.ExactArgs(6),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		order, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		return c.coord.AddScenarioStep(cmd.Context(), args[0], args[1], domain.Step{
			Order:       order,
			Actor:       args[3],
			Receiver:    stepReceiver,
			Action:      args[4],
			Description: args[5],
			Notes:       stepNotes,
		})
	}),
}

var removeScenarioStepCmd = &cobra.Command{
	Use:   "remove-scenario-step <id> <scenario-id> <order>",
	Short: "Remove a step by its 1-based order",
	Args:  cobra.ExactArgs(3),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		order, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		return c.coord.RemoveScenarioStep(cmd.Context(), args[0], args[1], order)
	}),
}

var (
	scenarioRefType         string
	scenarioRefRelationship string
	scenarioRefDescription  string
)

var addScenarioReferenceCmd = &cobra.Command{
	Use:   "add-scenario-reference <id> <scenario-id> <target-id>",
	Short: "Add a scenario reference, rejecting a cycle-closing scenario reference",
	Args:  cobra.ExactArgs(3),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		return c.coord.AddScenarioReference(cmd.Context(), args[0], args[1], domain.ScenarioReference{
			RefType:      domain.ReferenceType(scenarioRefType),
			TargetID:     args[2],
			Relationship: scenarioRefRelationship,
			Description:  scenarioRefDescription,
		})
	}),
}

func init() {
	rootCmd.AddCommand(addScenarioCmd, deleteScenarioCmd, editScenarioCmd, updateScenarioStatusCmd,
		addScenarioStepCmd, removeScenarioStepCmd, addScenarioReferenceCmd)

	addScenarioCmd.Flags().StringVar(&scenarioType, "type", string(domain.ScenarioHappyPath), "HappyPath|AlternativeFlow|ExceptionFlow")
	addScenarioCmd.Flags().StringVar(&scenarioPersona, "persona", "", "actor/persona id driving this scenario")

	editScenarioCmd.Flags().String("title", "", "new title")
	editScenarioCmd.Flags().String("description", "", "new description")

	addScenarioStepCmd.Flags().StringVar(&stepReceiver, "receiver", "", "the actor receiving this step's action")
	addScenarioStepCmd.Flags().StringVar(&stepNotes, "notes", "", "free-form notes")

	addScenarioReferenceCmd.Flags().StringVar(&scenarioRefType, "ref-type", "", "UseCase|Scenario")
	addScenarioReferenceCmd.Flags().StringVar(&scenarioRefRelationship, "relationship", domain.RelationshipDependency, "dependency|extension|inclusion|alternative")
	addScenarioReferenceCmd.Flags().StringVar(&scenarioRefDescription, "description", "", "reference description")
}
