// =============================================================================
// JPK V7M Converter - Root Command
// =============================================================================
//
// Base command for the Cobra CLI. The subcommands hang off this one:
//
//   jpkconv
//   ├── convert (jpkconv convert)
//   └── version (jpkconv version)
//
// The root command owns the global flags (--config, --verbose) shared by
// every subcommand.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the path to the configuration file, overridable with --config.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "jpkconv",
	Short: "Convert tabular VAT records into JPK_V7M XML filings",
	Long: `jpkconv transforms CSV and XLSX exports of VAT sales and purchase
records into JPK_V7M XML documents ready for submission.

Key features:
  - Accepts two input layouts: sectioned files with marker rows, and
    flat files with section-prefixed column headers
  - Resolves the filer as a natural person or an organization
  - Derives control-section totals when the input omits them
  - Validates the generated document against the configured schema
  - Archives processed files after a successful run

Example usage:
  jpkconv convert                      # Convert every file in the input directory
  jpkconv convert --config ./my.yaml   # Use a custom configuration file
  jpkconv convert --single --file f.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
