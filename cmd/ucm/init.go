package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Guillaumecoi/usecasemgr/internal/assets"
	"github.com/Guillaumecoi/usecasemgr/internal/config"
)

var (
	initLanguage    string
	initMethodology string
	initStorage     string
	initFinalize    bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise a project descriptor, or materialise its template workspace",
	Long: `Without --finalize, init writes the project descriptor (phase one): review
or hand-edit it before committing to it. With --finalize, init requires an
existing descriptor and materialises its methodology and language templates
into the template workspace (phase two).`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initLanguage, "language", "", "default test language")
	initCmd.Flags().StringVar(&initMethodology, "methodology", "", "default documentation methodology")
	initCmd.Flags().StringVar(&initStorage, "storage", "", "storage backend: text|relational")
	initCmd.Flags().BoolVar(&initFinalize, "finalize", false, "materialise templates for the existing descriptor")
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	if initFinalize {
		if err := config.Finalize(root, assets.NewSource()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "template workspace materialised")
		return nil
	}

	opts := config.DescriptorOptions{
		Language:    initLanguage,
		Methodology: initMethodology,
		StorageBack: config.StorageBackend(initStorage),
	}
	if err := config.Descriptor(root, opts); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "project descriptor created at", config.ConfigPath(root))
	return nil
}
