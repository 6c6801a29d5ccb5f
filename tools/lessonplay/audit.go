package main

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/iskawarran/lessonplay/internal/lesson"
)

func generateAudit(result SimulationResult) string {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "# Lesson Simulation: %s\n\n", result.Lesson.Title)
	fmt.Fprintf(buf, "- Lesson: %s (`%s`)\n", result.Lesson.CatalogKey, result.Lesson.ID)
	fmt.Fprintf(buf, "- Run started: %s\n", result.Started.Format(time.RFC3339))
	fmt.Fprintf(buf, "- Duration: %s\n", result.Duration.String())
	fmt.Fprintf(buf, "- Seed: %d\n", result.Seed)
	fmt.Fprintf(buf, "- Accuracy: %.2f\n", result.Accuracy)
	fmt.Fprintf(buf, "- Rounds played: %d\n", result.Metrics.Rounds)
	fmt.Fprintf(buf, "- Rounds replayed: %d\n", result.Metrics.Replayed)
	fmt.Fprintf(buf, "- Total score: %d\n", result.Result.Total)
	if result.Result.Flawless {
		fmt.Fprintf(buf, "- Flawless: no replay needed\n")
	}

	for _, s := range result.Result.Sessions {
		fmt.Fprintf(buf, "\n## %s session `%s`\n\n", titleCase(s.Mode.String()), s.ID)
		fmt.Fprintf(buf, "| # | round | game | score |\n|---|---|---|---|\n")
		for i, r := range s.Rounds {
			score := "-"
			if i < len(s.Scores) {
				score = fmt.Sprint(s.Scores[i])
				if !s.Passed(i) {
					score += " ❌"
				}
			}
			fmt.Fprintf(buf, "| %d | %s | %s | %s |\n", i+1, r.ID, r.Kind, score)
		}
		if s.Batch != nil {
			fmt.Fprintf(buf, "\nReplay queued for: %s\n", strings.Join(roundIDs(s.Batch.RoundsToReplay), ", "))
		}
		if s.State == lesson.StateFinished {
			fmt.Fprintf(buf, "\nReported total: %d\n", s.Total)
		}
	}
	return buf.String()
}

func roundIDs(rounds []lesson.Round) []string {
	ids := make([]string, len(rounds))
	for i, r := range rounds {
		ids[i] = r.ID
	}
	return ids
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func summarizeReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if len(reason) > 120 {
		return reason[:117] + "..."
	}
	return reason
}
