package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formpredict/pkg/form"
)

// errRejected signals a submission that produced no verdict.
var errRejected = errors.New("formpredict: no verdict")

func newPredictCmd(c *cli) *cobra.Command {
	var (
		values map[string]string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "predict <task>",
		Short: "Run one prediction from feature values given as flags",
		Example: `  formpredict predict diabetes_prediction \
    --set pregnancies=2 --set glucose=138 --set insulin=0 \
    --set bmi=33.6 --set diabetes_pedigree_function=0.627 --set age=47`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			task, err := app.Registry.Lookup(args[0])
			if err != nil {
				return err
			}

			submission, err := form.SubmissionFromStrings(task, values)
			if err != nil {
				return err
			}

			report := app.Controller.Evaluate(ctx, task.Name, submission)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, report.Message)
			}

			if report.Result == nil {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&values, "set", nil, "feature value as name=value or label=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	return cmd
}
