package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpredict/pkg/surfaces/tui"
)

func newPromptCmd(c *cli) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "prompt [task]",
		Short: "Fill in a prediction form in the terminal",
		Long: `Prompts for every feature of the task, in grid order, and prints the
verdict. Without a task argument a menu lists the registered tasks. The form
is shown again after each verdict until interrupted with Ctrl+C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			surface := tui.New(tui.WithOutput(cmd.OutOrStdout()))

			name := ""
			if len(args) == 1 {
				task, err := app.Registry.Lookup(args[0])
				if err != nil {
					return err
				}
				name = task.Name
			}

			for {
				task := name
				if task == "" {
					task, err = surface.SelectTask(ctx, app.Registry)
					if err != nil {
						return ignoreAbort(err)
					}
				}
				if _, err := app.Controller.Cycle(ctx, surface, task); err != nil {
					return ignoreAbort(err)
				}
				if once {
					return nil
				}
			}
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "exit after one form")
	return cmd
}

func ignoreAbort(err error) error {
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	return err
}
