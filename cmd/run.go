package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voltlane/silt/internal/filter"
	"github.com/voltlane/silt/internal/runner"
	"github.com/voltlane/silt/internal/stream"
)

// ExitError carries a simulator's non-zero exit code through the command
// error path so main can propagate it as the process exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("simulator exited with code %d", e.Code)
}

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Run a simulator command and filter its output live",
	Long: `Run a simulator command with stdout and stderr merged into one stream,
filtering diagnostics as they arrive. The child's exit code becomes
silt's exit code, so a failing simulation still fails the invocation
that wrapped it.

Examples:
  silt run -- ghdl -r tb_conversions --stop-time=1ms
  silt run -l aggressive --stats -- make SIM=ghdl results
  silt run -l none -- pytest tests/`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	runCmd.Flags().Bool("stats", false, "print a statistics summary to stderr after the run")
	runCmd.Flags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	level, err := resolveLevel()
	if err != nil {
		return err
	}
	showStats, _ := cmd.Flags().GetBool("stats")

	session, err := filter.New(level)
	if err != nil {
		return err
	}

	sink, emit := emitOptions(cmd.OutOrStdout(), resolveColor(cmd))
	driver := stream.New(session, stream.Options{Output: sink, Emit: emit})

	// Interrupts cancel the context, which kills the child; the driver
	// then drains whatever the pipe still holds.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code, runErr := runner.New(driver, newLogger()).Run(ctx, args)
	stats := session.Close()

	if showStats {
		if err := writeStatsSummary(cmd, stats); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
