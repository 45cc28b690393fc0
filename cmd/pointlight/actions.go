package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newActionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List available actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, name := range a.registry.List() {
				act, err := a.registry.Get(string(name))
				if err != nil {
					return err
				}
				kind := "built-in"
				if act.Custom {
					kind = "custom"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", act.Name, kind, act.Description)
			}
			return tw.Flush()
		},
	}
}
