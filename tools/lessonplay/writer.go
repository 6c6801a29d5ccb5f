package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iskawarran/lessonplay/internal/catalog"
	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/itchyny/json2yaml"
	"github.com/samber/lo"
	"github.com/tidwall/sjson"
)

type lessonReport struct {
	Lesson   reportLesson      `json:"lesson"`
	Seed     uint64            `json:"seed"`
	Accuracy float64           `json:"accuracy"`
	Total    int               `json:"totalScore"`
	Flawless bool              `json:"flawless"`
	Sessions []*lesson.Session `json:"sessions"`
	Plays    []PlayRecord      `json:"plays"`
}

type reportLesson struct {
	Key   string `json:"key"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

// writeReports writes the simulation as JSON, YAML and a markdown audit,
// named after the lesson key and the initial session id.
func writeReports(dir string, result *SimulationResult) error {
	if err := ensureDir(dir); err != nil {
		return err
	}
	if len(result.Result.Sessions) == 0 {
		return fmt.Errorf("no sessions to report")
	}

	base := filepath.Join(dir, slugify(result.Lesson.CatalogKey)+"-"+result.Result.Sessions[0].ID)
	report := lessonReport{
		Lesson: reportLesson{
			Key:   result.Lesson.CatalogKey,
			ID:    result.Lesson.ID,
			Title: result.Lesson.Title,
		},
		Seed:     result.Seed,
		Accuracy: result.Accuracy,
		Total:    result.Result.Total,
		Flawless: result.Result.Flawless,
		Sessions: result.Result.Sessions,
		Plays:    result.Plays,
	}

	if err := writeJSON(base+".json", report); err != nil {
		return err
	}
	if err := writeYAML(base+".yaml", report); err != nil {
		return err
	}
	if err := os.WriteFile(base+".md", []byte(generateAudit(*result)), 0o644); err != nil {
		return err
	}

	result.Wrote = true
	result.ReportDir = dir
	result.Reports = []string{base + ".json", base + ".yaml", base + ".md"}
	return nil
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeYAML(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data, err = sjson.SetBytes(data, "meta.generated_at", time.Now().Format(time.RFC3339))
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json2yaml.Convert(&out, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}
	return os.WriteFile(path, out.Bytes(), 0o644)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, s)
	s = strings.Trim(s, "-")
	if s == "" {
		return "lesson"
	}
	return s
}

func formatSimulationLines(result SimulationResult) []string {
	if result.Lesson.CatalogKey == "" {
		return nil
	}
	lines := []string{
		fmt.Sprintf("🔍  %s: %s (seed %d)", result.Lesson.CatalogKey, result.Lesson.Title, result.Seed),
		fmt.Sprintf("🎮  %d rounds played | %d replayed", result.Metrics.Rounds, result.Metrics.Replayed),
		fmt.Sprintf("✅  %d passed", result.Metrics.Passed),
		fmt.Sprintf("⚠️  %d failed", result.Metrics.Failed),
		fmt.Sprintf("🏁  total score %d", result.Result.Total),
	}
	switch {
	case result.Wrote:
		lines = append(lines, "✨ Done! Reports written to "+result.ReportDir+"/")
	case result.Result.Flawless:
		lines = append(lines, "✨ Done! Flawless, no replay needed")
	default:
		lines = append(lines, "✨ Done! Simulation completed (no files written)")
	}
	return lines
}

func formatLessonLines(c *catalog.Catalog, b *lesson.Builder) []string {
	lessons := c.Lessons()
	keyWidth := lo.Max(lo.Map(lessons, func(d lesson.Descriptor, _ int) int { return len(d.CatalogKey) }))
	lines := make([]string, 0, len(lessons)+len(lessons)/2)
	for _, s := range c.Sections() {
		lines = append(lines, fmt.Sprintf("📚  %s (%s)", s.Name, s.Key))
		for _, d := range s.Lessons {
			lines = append(lines, fmt.Sprintf("    %-*s  %s  [%d rounds]", keyWidth, d.CatalogKey, d.Title, len(b.Rounds(d))))
		}
	}
	lines = append(lines, fmt.Sprintf("✨ %d lessons in %d sections", c.Len(), len(c.Sections())))
	return lines
}
