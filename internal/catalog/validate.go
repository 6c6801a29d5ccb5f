package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/tidwall/gjson"
)

// Check validates every lesson and returns the load rejects followed by one
// reject per problem. None of these stop a lesson from being played: they
// point at content that will degrade to empty or placeholder rounds.
func (c *Catalog) Check(strict bool) []Reject {
	rejects := c.Rejects()
	for _, d := range c.lessons {
		source := ""
		if sources := c.sources[d.CatalogKey]; len(sources) > 0 {
			source = sources[len(sources)-1]
		}
		for _, reason := range validateLesson(d, strict) {
			rejects = append(rejects, Reject{Source: source, Lesson: d.CatalogKey, Reason: reason})
		}
	}
	return rejects
}

func validateLesson(d lesson.Descriptor, strict bool) []string {
	var problems []string
	if d.ID == "" {
		problems = append(problems, "lesson id is required")
	}
	if d.Title == "" {
		problems = append(problems, "lesson title is required")
	}
	if d.Section == "" {
		problems = append(problems, "lesson section is required")
	}
	if strict {
		if d.Description == "" {
			problems = append(problems, "lesson description is required")
		}
		if d.SectionKey == "" {
			problems = append(problems, "lesson section key is required")
		}
	}

	if len(d.Games) == 0 {
		return append(problems, "games missing")
	}
	games := gjson.ParseBytes(d.Games)
	if !games.IsObject() {
		return append(problems, "games is not a mapping")
	}
	games.ForEach(func(key, list gjson.Result) bool {
		kind := lesson.Kind(key.String())
		if !kind.Known() {
			problems = append(problems, fmt.Sprintf("unsupported game kind %s", kind))
		}
		if !list.IsArray() || len(list.Array()) == 0 {
			problems = append(problems, fmt.Sprintf("%s has no variations", kind))
			return true
		}
		for i, v := range list.Array() {
			if reason := validateVariation(kind, json.RawMessage(v.Raw)); reason != "" {
				problems = append(problems, fmt.Sprintf("%s variation %d: %s", kind, i, reason))
			}
		}
		return true
	})
	return problems
}

func validateVariation(kind lesson.Kind, variation json.RawMessage) string {
	data := gjson.GetBytes(variation, "data")
	if !data.IsObject() {
		return "data missing"
	}
	switch kind {
	case lesson.KindFlashcard, lesson.KindSentenceBuilder:
		if items := data.Get("items"); !items.IsArray() || len(items.Array()) == 0 {
			return "items missing or empty"
		}
	case lesson.KindTileMatching:
		valid, malformed := lesson.CountTilePairs(variation)
		switch {
		case valid == 0:
			return "no valid tile pairs"
		case malformed > 0:
			return fmt.Sprintf("%d malformed tile groups", malformed)
		}
	case lesson.KindDialogue:
		if turns := data.Get("turns"); !turns.IsArray() || len(turns.Array()) == 0 {
			return "turns missing or empty"
		}
	}
	return ""
}
