package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "territorios",
		Short:         "Asignación de territorios comerciales (comercial × CP × marca)",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newAsignarCmd())
	cmd.AddCommand(newProvinciaCmd())
	cmd.AddCommand(newPrioridadCmd())
	return cmd
}
