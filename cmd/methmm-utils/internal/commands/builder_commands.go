package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/methmmdb/internal/util"
	"github.com/yumyai/methmmdb/logger"
	"github.com/yumyai/methmmdb/pkg/builder"
	mydb "github.com/yumyai/methmmdb/pkg/db"
)

// ExtractInfoCmd writes browse_models_data.json and, with --catalog, the
// SQLite model catalog built from the same records.
func ExtractInfoCmd(cmd *cobra.Command, _ []string) error {
	if err := setupLogger(cmd); err != nil {
		return err
	}
	defer logger.Sync()

	hmmDir, _ := cmd.Flags().GetString("hmm-dir")
	metadataPath, _ := cmd.Flags().GetString("metadata")
	output, _ := cmd.Flags().GetString("output")
	catalogPath, _ := cmd.Flags().GetString("catalog")

	if !util.DirExists(hmmDir) {
		return fmt.Errorf("HMM directory %s does not exist", hmmDir)
	}
	if !util.FileExists(metadataPath) {
		return fmt.Errorf("metadata file %s does not exist", metadataPath)
	}

	res, err := builder.BuildBrowseData(hmmDir, metadataPath)
	if err != nil {
		return err
	}

	if err := builder.WriteJSON(output, res.Data); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	logger.Info("Wrote browse data",
		zap.String("output", output),
		zap.Int("models", res.Data.Metadata.TotalModels),
		zap.Int("related_groups", res.Groups),
	)

	if catalogPath != "" {
		if err := mydb.CreateCatalog(cmd.Context(), catalogPath, res.Data.Models); err != nil {
			return fmt.Errorf("build catalog %s: %w", catalogPath, err)
		}
		logger.Info("Wrote model catalog", zap.String("catalog", catalogPath))
	}
	return nil
}

// PrepareModelsCmd writes the simple models.json listing.
func PrepareModelsCmd(cmd *cobra.Command, _ []string) error {
	if err := setupLogger(cmd); err != nil {
		return err
	}
	defer logger.Sync()

	hmmDir, _ := cmd.Flags().GetString("hmm-dir")
	output, _ := cmd.Flags().GetString("output")

	if !util.DirExists(hmmDir) {
		return fmt.Errorf("HMM directory %s does not exist", hmmDir)
	}

	entries, err := builder.BuildModelListing(hmmDir)
	if err != nil {
		return err
	}
	if err := builder.WriteJSON(output, entries); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	logger.Info("Wrote model listing", zap.String("output", output), zap.Int("models", len(entries)))
	return nil
}

// InitBuilderCommands registers the data builder commands
func InitBuilderCommands(rootCmd *cobra.Command) {
	var extractInfoCmd = &cobra.Command{
		Use:   "extract-info",
		Short: "Build browse_models_data.json from curated metadata and HMM files",
		Args:  cobra.NoArgs,
		RunE:  ExtractInfoCmd,
	}
	extractInfoCmd.Flags().String("hmm-dir", "DATA/HMMS", "Directory of per-model .hmm files")
	extractInfoCmd.Flags().String("metadata", "DATA/methmm_metadata_v1.0.json", "Curated metadata JSON")
	extractInfoCmd.Flags().String("output", "browse_models_data.json", "Output JSON path")
	extractInfoCmd.Flags().String("catalog", "", "Also write a SQLite model catalog to this path")
	rootCmd.AddCommand(extractInfoCmd)

	var prepareModelsCmd = &cobra.Command{
		Use:   "prepare-models",
		Short: "Build models.json from HMM file names",
		Args:  cobra.NoArgs,
		RunE:  PrepareModelsCmd,
	}
	prepareModelsCmd.Flags().String("hmm-dir", "HMMS", "Directory of .hmm files")
	prepareModelsCmd.Flags().String("output", "models.json", "Output JSON path")
	rootCmd.AddCommand(prepareModelsCmd)
}
