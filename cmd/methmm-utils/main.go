// methmm-utils holds the offline builders that produce the data files read by
// the search service.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/yumyai/methmmdb/cmd/methmm-utils/internal/commands"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "methmm-utils",
		Short: "Data builders for the MetHMMDB search service",
		Long: `methmm-utils builds the JSON files served next to the HMM collection.

  extract-info     merge curated metadata with HMM statistics into browse_models_data.json
  prepare-models   list HMM files by their <metal>_<mechanism>_<gene> names into models.json`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	commands.InitBuilderCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
