package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Guillaumecoi/usecasemgr/internal/apperr"
)

var (
	createDescription string
	createMethodology string
	createViews       string
	createFields      []string
)

var createCmd = &cobra.Command{
	Use:   "create <category> <title>",
	Short: "Create a use case and render its Markdown",
	Args:  cobra.ExactArgs(2),
	RunE: withCoordinator(func(cmd *cobra.Command, c *coordinatorArgs, args []string) error {
		category, title := args[0], args[1]

		views := createViews
		if views == "" {
			m := createMethodology
			if m == "" {
				m = "feature"
			}
			views = m + ":normal"
		}

		userFields, err := parseFieldFlags(createFields)
		if err != nil {
			return err
		}

		uc, err := c.coord.CreateUseCaseWithViews(cmd.Context(), title, category, createDescription, views, userFields)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), uc.ID)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createDescription, "description", "", "use case description")
	createCmd.Flags().StringVar(&createMethodology, "methodology", "", "single methodology, rendered at its default level")
	createCmd.Flags().StringVar(&createViews, "views", "", `one or more "methodology:level" pairs, comma-separated`)
	createCmd.Flags().StringArrayVar(&createFields, "field", nil, `custom field value as "methodology.field=value" (repeatable)`)
}

// parseFieldFlags turns ["feature.user_story=As a user..."] into
// {"feature": {"user_story": "As a user..."}}.
func parseFieldFlags(raw []string) (map[string]map[string]string, error) {
	out := map[string]map[string]string{}
	for _, entry := range raw {
		eq := strings.Index(entry, "=")
		if eq < 0 {
			return nil, apperr.Validation("--field %q must be methodology.field=value", entry)
		}
		key, value := entry[:eq], entry[eq+1:]
		dot := strings.Index(key, ".")
		if dot < 0 {
			return nil, apperr.Validation("--field %q must be methodology.field=value", entry)
		}
		m, field := key[:dot], key[dot+1:]
		if out[m] == nil {
			out[m] = map[string]string{}
		}
		out[m][field] = value
	}
	return out, nil
}
