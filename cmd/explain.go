package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voltlane/silt/internal/config"
	"github.com/voltlane/silt/internal/filter"
	"github.com/voltlane/silt/internal/output"
	"github.com/voltlane/silt/internal/stream"
	"github.com/voltlane/silt/internal/triage"
)

var explainCmd = &cobra.Command{
	Use:   "explain [flags] <file>",
	Short: "Ask a local AI model to triage a simulation log",
	Long: `Filter a simulator log at the active level, then send the retained
lines and session statistics to a local Ollama model for a first-pass
failure triage. The model only ever sees what the filter kept: warning
floods are already collapsed before they can burn context.

Requires a running Ollama instance (ollama serve).

Examples:
  silt explain sim.log
  silt explain --question "why is the operand undefined?" sim.log
  silt explain --model qwen2.5 --filter-level aggressive sim.log`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringP("question", "q", "", "specific question to ask (default: pass/fail verdict and root cause)")
	explainCmd.Flags().String("model", "", "Ollama model to use (overrides config)")
	explainCmd.Flags().String("host", "", "Ollama API endpoint (overrides config and OLLAMA_HOST)")

	_ = viper.BindPFlag("triage.model", explainCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("triage.host", explainCmd.Flags().Lookup("host"))

	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	question, _ := cmd.Flags().GetString("question")

	level, err := resolveLevel()
	if err != nil {
		return err
	}

	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	format := output.ParseFormat(viper.GetString("format"))
	ctx := context.Background()

	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	// Collect retained lines instead of printing them; the model is the
	// consumer of this run.
	session, err := filter.New(level)
	if err != nil {
		return err
	}
	var lines []string
	driver := stream.New(session, stream.Options{
		Emit: func(res filter.Result) error {
			lines = append(lines, res.Text)
			return nil
		},
	})
	if err := driver.Run(ctx, f); err != nil {
		return err
	}
	stats := session.Close()

	if stats.Observed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Log file is empty, nothing to triage.")
		return nil
	}

	logger := newLogger()
	client, err := triage.New(triage.Config{
		Host:        cfg.Triage.Host,
		Model:       cfg.Triage.Model,
		Temperature: cfg.Triage.Temperature,
		MaxTokens:   cfg.Triage.MaxTokens,
		MaxLines:    cfg.Triage.MaxLines,
	}, logger)
	if err != nil {
		return err
	}

	if err := client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("cannot reach Ollama: %w\n\nStart Ollama with: ollama serve", err)
	}

	report := triage.Report{
		Command:  filePath,
		Lines:    lines,
		Stats:    stats,
		Question: question,
	}

	events, err := client.ExplainStream(ctx, report)
	if err != nil {
		return err
	}

	if format == output.FormatText {
		fmt.Fprintln(cmd.OutOrStdout(), "=== Triage ===")
		fmt.Fprintln(cmd.OutOrStdout())
	}

	var fullResponse strings.Builder
	for event := range events {
		if event.Error != nil {
			if fullResponse.Len() > 0 {
				fmt.Fprintf(os.Stderr, "\n\nError during streaming: %v\n", event.Error)
			}
			return event.Error
		}

		if event.Content != "" {
			if format == output.FormatText {
				fmt.Fprint(cmd.OutOrStdout(), event.Content)
			}
			fullResponse.WriteString(event.Content)
		}
	}

	if format == output.FormatJSON {
		return output.New(cmd.OutOrStdout(), output.FormatJSON).WriteJSON(map[string]interface{}{
			"file":     filePath,
			"question": question,
			"model":    cfg.Triage.Model,
			"stats":    stats,
			"answer":   fullResponse.String(),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
