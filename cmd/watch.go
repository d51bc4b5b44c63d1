package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voltlane/silt/internal/filter"
	"github.com/voltlane/silt/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file>",
	Short: "Follow a growing simulator log with filtering",
	Long: `Watch a simulator log file in real-time, similar to 'tail -f' but with
the noise filter applied to every new line. Truncation and rotation both
start a fresh filter session, since a rewritten file is a new simulator
run with its own duplicate memory.

Examples:
  silt watch logs/sim.log
  silt watch --replay --filter-level aggressive logs/sim.log
  silt watch --follow-rotate --stats logs/sim.log`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("replay", false, "filter existing content before following")
	watchCmd.Flags().Bool("follow-rotate", false, "follow through log rotations (continue when file is renamed/removed)")
	watchCmd.Flags().Bool("stats", false, "print each session's statistics to stderr when it ends")
	watchCmd.Flags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	replay, _ := cmd.Flags().GetBool("replay")
	followRotate, _ := cmd.Flags().GetBool("follow-rotate")
	showStats, _ := cmd.Flags().GetBool("stats")

	level, err := resolveLevel()
	if err != nil {
		return err
	}

	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %s", filePath)
	}

	sink, emit := emitOptions(cmd.OutOrStdout(), resolveColor(cmd))

	var onSessionEnd func(filter.Statistics)
	if showStats {
		onSessionEnd = func(stats filter.Statistics) {
			_ = writeStatsSummary(cmd, stats)
		}
	}

	watcher := watch.New(watch.Options{
		FilePath:     filePath,
		Level:        level,
		Replay:       replay,
		FollowRotate: followRotate,
		Output:       sink,
		Emit:         emit,
		OnSessionEnd: onSessionEnd,
		Logger:       newLogger(),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, watch.ErrFileRotated) {
		return err
	}
	return nil
}
