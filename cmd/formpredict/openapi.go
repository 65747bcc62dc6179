package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formpredict "github.com/goliatone/go-formpredict"
	"github.com/goliatone/go-formpredict/pkg/openapi"
	"github.com/goliatone/go-formpredict/pkg/schema"
)

func newOpenAPICmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document of the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := c.registry()
			if err != nil {
				return err
			}
			doc, err := openapi.Describe(cmd.Context(), registry, openapi.Options{})
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if output != "" {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return err
				}
				c.logger.Info("openapi document written", zap.String("path", output))
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (c *cli) registry() (*schema.Registry, error) {
	return formpredict.LoadRegistry(c.cfg.Registry.Dir)
}
