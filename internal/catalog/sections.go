package catalog

import (
	"github.com/iskawarran/lessonplay/internal/lesson"
	"golang.org/x/exp/slices"
)

// MiscSection collects lessons without a section key.
const MiscSection = "misc"

var sectionOrder = map[string]int{
	"greetings":       0,
	"grammarBasics":   1,
	"everydayActions": 2,
	MiscSection:       3,
}

// Section is a group of lessons on the lesson map.
type Section struct {
	Key     string
	Name    string
	Lessons []lesson.Descriptor
}

// Sections groups lessons by section key. Known sections come first in their
// curriculum order; others follow in order of first appearance.
func (c *Catalog) Sections() []Section {
	sections := make([]Section, 0)
	position := map[string]int{}
	for _, d := range c.lessons {
		key := d.SectionKey
		if key == "" {
			key = MiscSection
		}
		i, ok := position[key]
		if !ok {
			i = len(sections)
			position[key] = i
			name := d.Section
			if name == "" {
				name = "Misc"
			}
			sections = append(sections, Section{Key: key, Name: name})
		}
		sections[i].Lessons = append(sections[i].Lessons, d)
	}
	slices.SortStableFunc(sections, func(a, b Section) int {
		return compareSection(a.Key, b.Key)
	})
	return sections
}

func compareSection(a, b string) int {
	ai, aok := sectionOrder[a]
	bi, bok := sectionOrder[b]
	if !aok {
		ai = sectionOrder[MiscSection]
	}
	if !bok {
		bi = sectionOrder[MiscSection]
	}
	return ai - bi
}
