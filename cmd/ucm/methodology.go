package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Guillaumecoi/usecasemgr/internal/config"
	"github.com/Guillaumecoi/usecasemgr/internal/generate"
	"github.com/Guillaumecoi/usecasemgr/internal/methodology"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Print supported test languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, lang := range generate.SupportedLanguages() {
			fmt.Fprintln(cmd.OutOrStdout(), lang)
		}
		return nil
	},
}

var methodologiesCmd = &cobra.Command{
	Use:   "methodologies",
	Short: "List methodologies materialised in this project's template workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		registry, err := loadMethodologyRegistry(root)
		if err != nil {
			return err
		}
		for _, m := range registry.List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.Name, m.Title)
		}
		return nil
	},
}

var methodologyCmd = &cobra.Command{
	Use:   "methodology <name>",
	Short: "Describe one methodology",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		registry, err := loadMethodologyRegistry(root)
		if err != nil {
			return err
		}
		m, err := registry.Get(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %s\n", m.Name, m.Title)
		fmt.Fprintln(out, m.Description)
		for _, u := range m.WhenToUse {
			fmt.Fprintf(out, "when to use: %s\n", u)
		}
		for level := range m.Levels {
			fmt.Fprintf(out, "level: %s\n", level)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd, methodologiesCmd, methodologyCmd)
}

func loadMethodologyRegistry(root string) (*methodology.Registry, error) {
	workspace := config.TemplateWorkspacePath(root)
	registry := methodology.NewRegistry()
	if err := registry.Load(filepath.Join(workspace, "methodologies")); err != nil {
		return nil, err
	}
	return registry, nil
}
