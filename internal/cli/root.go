package cli

import (
	"fmt"

	"precios/catalog/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "pricecat v0.3.0"

// options carries the persistent flags and the configuration they resolve
// to once a subcommand runs.
type options struct {
	cfgFile string
	verbose bool
	remote  string

	cfg *config.Config
}

// NewRootCommand builds the pricecat command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "pricecat",
		Short: "Pricecat - read-only price catalog served from JSON files",
		Long: `Pricecat loads product and price records from a directory of JSON files,
applies the configured tax rate and serves them by category or free-text search.

The directory is re-read on every request; edit the files and the next read
sees the change.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newCategoriesCommand(opts),
		newItemsCommand(opts),
		newSearchCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *options) load() error {
	cfg, err := config.LoadWith(viper.New(), o.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		return err
	}

	log.Debugf("Configuration loaded: sources %s, tax rate %v", cfg.Catalog.PriceDir, cfg.Catalog.TaxRate)
	o.cfg = cfg
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
