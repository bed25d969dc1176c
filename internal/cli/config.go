package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(opts *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pricecat configuration",
		Long: `Inspect pricecat configuration.

Configuration hierarchy (highest to lowest priority):
1. Environment variables (PORT, PRICE_DIR, TAX_RATE, ... or SECTION_KEY)
2. .env file in the working directory
3. Config file (./config.yaml or --config)
4. Defaults`,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(opts.cfg)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	return configCmd
}
