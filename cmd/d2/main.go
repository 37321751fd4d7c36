package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HISPSA/d2/cmd/d2/commands"
	"github.com/HISPSA/d2/config"
	"github.com/HISPSA/d2/logger"
)

var rootCmd = &cobra.Command{
	Use:   "d2",
	Short: "d2 - Client for a DHIS2-style web API",
	Long: `d2 - Command line client for a DHIS2-style web API.

d2 talks to the server's data store endpoints: it lists namespaces,
inspects and edits their keys, and deletes namespaces or single entries.

Configuration is read from d2.toml (working directory or any parent),
~/.d2/config.toml, and D2_* environment variables (D2_BASE_URL,
D2_USERNAME, D2_PASSWORD, D2_API_TOKEN).

Examples:
  d2 datastore ls                        # List all namespaces
  d2 datastore keys settings             # List keys in the settings namespace
  d2 datastore get settings ui           # Print the value stored under settings/ui
  d2 datastore set settings ui '{...}'   # Create or update settings/ui
  d2 datastore rm settings               # Delete the whole namespace
  d2 version                             # Show build information`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		verbosity, _ := cmd.Flags().GetCount("verbose")

		if !jsonOutput {
			if cfg, err := config.Load(); err == nil {
				jsonOutput = cfg.Logging.JSON
			}
		}

		if err := logger.InitializeWithVerbosity(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "JSON log output instead of console")

	rootCmd.AddCommand(commands.DataStoreCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
