package main

import (
	"errors"
	"fmt"

	"github.com/iskawarran/lessonplay/internal/catalog"
)

type CheckResult struct {
	Lessons int
	Rejects []catalog.Reject
	Strict  bool
}

func runCheck(c *catalog.Catalog, strict bool) (CheckResult, error) {
	result := CheckResult{
		Lessons: c.Len(),
		Rejects: c.Check(strict),
		Strict:  strict,
	}
	if strict && len(result.Rejects) > 0 {
		return result, errors.New("strict mode: catalog has rejects")
	}
	return result, nil
}

func formatCheckLines(result CheckResult) []string {
	lines := []string{
		fmt.Sprintf("🔍  Checked %d lessons", result.Lessons),
		fmt.Sprintf("🚫  %d rejects", len(result.Rejects)),
	}
	for _, r := range result.Rejects {
		where := r.Source
		if r.Lesson != "" {
			where += " " + r.Lesson
		}
		lines = append(lines, fmt.Sprintf("⚠️  %s: %s", where, summarizeReason(r.Reason)))
	}
	if result.Strict && len(result.Rejects) > 0 {
		lines = append(lines, "❌  strict mode failed")
	} else {
		lines = append(lines, "✨ Done! Catalog check completed")
	}
	return lines
}
