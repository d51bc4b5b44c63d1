package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voltlane/silt/internal/config"
	"github.com/voltlane/silt/internal/filter"
	"github.com/voltlane/silt/internal/output"
	"github.com/voltlane/silt/internal/stream"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags] <file...>",
	Short: "Show what the filter would keep and suppress",
	Long: `Run the filter over simulator logs without emitting any lines, then
print the session statistics: how many lines were observed, how many
each category matched, what the active level would suppress, and the
resulting reduction ratio.

Examples:
  silt stats sim.log
  silt stats --filter-level aggressive --format json sim.log
  silt stats "logs/run_*.log"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	level, err := resolveLevel()
	if err != nil {
		return err
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}

	format := output.ParseFormat(viper.GetString("format"))
	writer := output.New(cmd.OutOrStdout(), format)
	multiFile := len(files) > 1
	ctx := context.Background()

	if format == output.FormatJSON && multiFile {
		result := make(map[string]filter.Statistics, len(files))
		for _, filePath := range files {
			stats, err := statsForFile(ctx, filePath, level)
			if err != nil {
				return err
			}
			result[filePath] = stats
		}
		return writer.WriteJSON(result)
	}

	for _, filePath := range files {
		stats, err := statsForFile(ctx, filePath, level)
		if err != nil {
			return err
		}
		if multiFile {
			fmt.Fprintf(cmd.OutOrStdout(), "==> %s <==\n", filePath)
		}
		if err := writer.WriteStats(stats); err != nil {
			return err
		}
	}

	return nil
}

func statsForFile(ctx context.Context, filePath string, level filter.FilterLevel) (filter.Statistics, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return filter.Statistics{}, err
	}
	defer f.Close()

	stats, err := stream.Filter(ctx, f, io.Discard, level)
	if err != nil {
		return filter.Statistics{}, fmt.Errorf("filtering %s: %w", filePath, err)
	}
	return stats, nil
}
