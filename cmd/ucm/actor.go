package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
	"github.com/Guillaumecoi/usecasemgr/internal/domain"
)

var actorType string

var createActorCmd = &cobra.Command{
	Use:   "create-actor <id> <name>",
	Short: "Create a non-persona actor (System, ExternalService, Database, Custom)",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		a, err := c.coord.CreateActor(cmd.Context(), args[0], args[1], domain.ActorType(actorType))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.ID)
		return nil
	}),
}

var personaFields []string

var createPersonaCmd = &cobra.Command{
	Use:   "create-persona <id> <name>",
	Short: "Create a Persona actor, applying the project's configured persona fields",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		fields, err := parseSimpleFieldFlags(personaFields)
		if err != nil {
			return err
		}
		a, err := c.coord.CreatePersona(cmd.Context(), args[0], args[1], fields)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.ID)
		return nil
	}),
}

var listActorsCmd = &cobra.Command{
	Use:   "list-actors",
	Short: "List every actor on record",
	Args:  cobra.NoArgs,
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		all, err := c.coord.ListActors(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, a := range all {
			fmt.Fprintf(out, "%s\t%s\t%s\n", a.ID, a.Type, a.Name)
		}
		return nil
	}),
}

var deleteActorCmd = &cobra.Command{
	Use:   "delete-actor <id>",
	Short: "Delete an actor",
	Args:  cobra.ExactArgs(1),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		return c.coord.DeleteActor(cmd.Context(), args[0])
	}),
}

func init() {
	rootCmd.AddCommand(createActorCmd, createPersonaCmd, listActorsCmd, deleteActorCmd)
	createActorCmd.Flags().StringVar(&actorType, "type", string(domain.ActorTypeSystem), "System|ExternalService|Database|Custom")
	createPersonaCmd.Flags().StringArrayVar(&personaFields, "field", nil, `persona field value as "name=value" (repeatable)`)
}

// parseSimpleFieldFlags turns ["goals=ship faster"] into {"goals": "ship faster"}.
func parseSimpleFieldFlags(raw []string) (map[string]string, error) {
	out := map[string]string{}
	for _, entry := range raw {
		eq := strings.Index(entry, "=")
		if eq < 0 {
			return nil, apperr.Validation("--field %q must be name=value", entry)
		}
		out[entry[:eq]] = entry[eq+1:]
	}
	return out, nil
}
