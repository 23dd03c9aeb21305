package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "attendancectl",
		Short:         "Operator tooling for attendance rules, exports and schema",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newClassifyCmd(), newExportCmd(), newMigrateCmd())
	return root
}
