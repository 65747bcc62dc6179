package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpredict/pkg/schema"
)

func newTasksCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the registered prediction tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := c.registry()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tMODEL\tFEATURES")
			for _, s := range registry.Schemas() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", schema.Slug(s.Name), s.Name, s.ModelRef, len(s.Features))
			}
			return w.Flush()
		},
	}
}
