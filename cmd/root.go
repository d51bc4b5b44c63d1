package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voltlane/silt/internal/filter"
	"github.com/voltlane/silt/internal/output"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "silt",
	Short: "Filter hardware-simulator log noise without losing failures",
	Long: `Silt sifts hardware-simulator diagnostic output down to the lines that
matter. Repeated warnings collapse to their first occurrence, simulator
bookkeeping can be dropped entirely, and anything carrying an error,
failure, or test result marker is kept at every filter level.

Examples:
  silt filter --filter-level aggressive sim.log
  ghdl -r tb --wave=tb.ghw | silt filter
  silt run -l normal -- make SIM=ghdl results
  silt watch --follow-rotate logs/sim.log
  silt stats --format json sim.log
  silt explain --model llama3.2 sim.log`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.silt.yaml)")
	rootCmd.PersistentFlags().StringP("filter-level", "l", "normal", "filter level (none, minimal, normal, aggressive)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize retained lines (auto, always, never)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("level", rootCmd.PersistentFlags().Lookup("filter-level"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".silt")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SILT")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("level", "normal")
	viper.SetDefault("format", "text")
	viper.SetDefault("color", "auto")
	viper.SetDefault("stats", false)
	viper.SetDefault("triage.model", "llama3.2")
	viper.SetDefault("triage.temperature", 0.0)
	viper.SetDefault("triage.max_lines", 200)

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// resolveLevel turns the configured level name into a FilterLevel. An
// unrecognized name is fatal before any session opens; there is no
// silent fallback to a default level.
func resolveLevel() (filter.FilterLevel, error) {
	return filter.ParseLevel(viper.GetString("level"))
}

// resolveColor returns the configured color mode, honoring a command's
// local --no-color flag when it has one.
func resolveColor(cmd *cobra.Command) output.ColorMode {
	if noColor, err := cmd.Flags().GetBool("no-color"); err == nil && noColor {
		return output.ColorNever
	}
	return output.ParseColorMode(viper.GetString("color"))
}

// newLogger builds the operational logger. Debug detail only appears with
// --verbose; the log always goes to stderr so stdout stays a clean
// subsequence of the input.
func newLogger() *slog.Logger {
	if viper.GetBool("verbose") {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// emitOptions builds the per-line forwarding used by filter, run, and
// watch: plain byte-preserving passthrough, or a colorizing hook when the
// destination wants decoration.
func emitOptions(w io.Writer, mode output.ColorMode) (io.Writer, func(filter.Result) error) {
	if !output.Enabled(mode, w) {
		return w, nil
	}
	return nil, func(res filter.Result) error {
		_, err := fmt.Fprintln(w, output.ColorizeResult(res))
		return err
	}
}
