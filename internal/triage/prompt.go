package triage

import (
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/voltlane/silt/internal/filter"
)

// systemPrompt sets up the triage persona. The model is told explicitly
// that the log has been filtered, so missing repetition is not evidence
// of anything, and it is grounded to the provided lines only.
const systemPrompt = `You are a hardware verification engineer triaging the output of a
simulation run. The log excerpt you receive has already been filtered:
repeated warnings are collapsed to their first occurrence and routine
simulator bookkeeping may have been removed. The absence of a line is
never evidence.

Guidelines:
1. Only reference lines present in the provided log excerpt
2. Distinguish observations ("the log shows...") from inferences ("this suggests...")
3. Never invent log lines, signal names, values, or timestamps
4. Weigh assertion failures and FAIL markers above warnings
5. Metavalue and null-argument warnings at or near time zero are usually
   initialization noise; treat them as a root cause only when the failure
   evidence points at them
6. End with a verdict: PASSING, FAILING, or INCONCLUSIVE. If failing,
   name the single most likely root cause and the first line that shows it`

// defaultQuestion is asked when the caller has no specific question.
const defaultQuestion = "Did this simulation pass, and if not, what is the most likely root cause?"

// buildMessages assembles the chat messages for a report. At most
// maxLines retained lines are included; when the report is longer, the
// earliest lines are dropped, since verdicts and failure detail cluster
// at the end of a run.
func buildMessages(report Report, maxLines int) []api.Message {
	return []api.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(report, maxLines)},
	}
}

// buildUserPrompt combines the question, run context, session statistics
// and the retained lines into a single user message.
func buildUserPrompt(report Report, maxLines int) string {
	var sb strings.Builder

	question := report.Question
	if question == "" {
		question = defaultQuestion
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\n")

	if report.Command != "" {
		sb.WriteString("Simulator invocation: ")
		sb.WriteString(report.Command)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Session statistics: ")
	sb.WriteString(summarizeStats(report.Stats))
	sb.WriteString("\n\n")

	lines, omitted := tailLines(report.Lines, maxLines)
	sb.WriteString("Filtered log:\n")
	if omitted > 0 {
		fmt.Fprintf(&sb, "[... %d earlier lines omitted ...]\n", omitted)
	}
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// summarizeStats renders the session counters in one sentence, so the
// model knows how much noise the filter removed.
func summarizeStats(stats filter.Statistics) string {
	summary := fmt.Sprintf("observed %d lines, kept %d, suppressed %d (%.1f%% reduction) at level %s",
		stats.Observed, stats.Emitted, stats.TotalSuppressed(), stats.Reduction*100, stats.Level)
	if stats.Duplicates > 0 {
		summary += fmt.Sprintf("; %d duplicate warnings collapsed", stats.Duplicates)
	}
	return summary
}

// tailLines returns the last max lines and how many were cut from the
// front. max <= 0 means no limit.
func tailLines(lines []string, max int) ([]string, int) {
	if max <= 0 || len(lines) <= max {
		return lines, 0
	}
	return lines[len(lines)-max:], len(lines) - max
}
