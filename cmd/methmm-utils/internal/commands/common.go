package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yumyai/methmmdb/logger"
)

// setupLogger initialises the shared logger from the --log-level flag.
func setupLogger(cmd *cobra.Command) error {
	raw, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(raw)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}
