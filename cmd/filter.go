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

var filterCmd = &cobra.Command{
	Use:   "filter [flags] [file...]",
	Short: "Filter a simulator log file or stdin",
	Long: `Filter simulator output, keeping errors, failures, test results, and
first occurrences of each warning while suppressing the noise the active
filter level covers. With no file argument (or "-") stdin is filtered,
so silt can sit directly behind a live simulator pipe.

Each file is one simulator invocation: duplicate memory resets between
files and never leaks from one run into the next.

Examples:
  silt filter sim.log
  silt filter --filter-level aggressive --stats sim.log
  ghdl -r tb | silt filter -l minimal
  silt filter "logs/run_*.log"`,
	Args: cobra.ArbitraryArgs,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().Bool("stats", false, "print a statistics summary to stderr after filtering")
	filterCmd.Flags().Bool("no-color", false, "disable colored output")

	_ = viper.BindPFlag("stats", filterCmd.Flags().Lookup("stats"))

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	level, err := resolveLevel()
	if err != nil {
		return err
	}
	showStats := viper.GetBool("stats")

	out := cmd.OutOrStdout()
	sink, emit := emitOptions(out, resolveColor(cmd))
	ctx := context.Background()

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		stats, err := filterReader(ctx, cmd.InOrStdin(), level, sink, emit)
		if err != nil {
			return err
		}
		if showStats {
			return writeStatsSummary(cmd, stats)
		}
		return nil
	}

	files, err := config.ExpandGlobs(args)
	if err != nil {
		return err
	}
	multiFile := len(files) > 1

	for _, filePath := range files {
		f, err := os.Open(filePath)
		if err != nil {
			return err
		}

		if multiFile {
			fmt.Fprintf(out, "==> %s <==\n", filePath)
		}

		stats, err := filterReader(ctx, f, level, sink, emit)
		f.Close()
		if err != nil {
			return fmt.Errorf("filtering %s: %w", filePath, err)
		}

		if showStats {
			if multiFile {
				fmt.Fprintf(cmd.ErrOrStderr(), "==> %s <==\n", filePath)
			}
			if err := writeStatsSummary(cmd, stats); err != nil {
				return err
			}
		}
	}

	return nil
}

// filterReader pumps one reader through one fresh session, so each input
// source keeps isolated duplicate memory and statistics.
func filterReader(ctx context.Context, r io.Reader, level filter.FilterLevel, sink io.Writer, emit func(filter.Result) error) (filter.Statistics, error) {
	session, err := filter.New(level)
	if err != nil {
		return filter.Statistics{}, err
	}

	driver := stream.New(session, stream.Options{Output: sink, Emit: emit})
	runErr := driver.Run(ctx, r)
	return session.Close(), runErr
}

func writeStatsSummary(cmd *cobra.Command, stats filter.Statistics) error {
	format := output.ParseFormat(viper.GetString("format"))
	return output.New(cmd.ErrOrStderr(), format).WriteStats(stats)
}
