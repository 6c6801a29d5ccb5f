// Package catalog loads the static lesson catalog. Lessons keep the order in
// which they are declared; problems in the data are collected as rejects
// rather than returned as errors.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/tidwall/gjson"
)

//go:embed beginner.json
var beginnerCatalog []byte

// DefaultSource names the embedded catalog in rejects and listings.
const DefaultSource = "embedded:beginner.json"

// ErrLessonNotFound is returned when a lesson key is not in the catalog.
var ErrLessonNotFound = errors.New("lesson not found")

// Reject records a non-fatal problem found in catalog data.
type Reject struct {
	Source string `json:"source"`
	Lesson string `json:"lesson,omitempty"`
	Reason string `json:"reason"`
}

// Catalog is the read-only set of lessons available to play.
type Catalog struct {
	lessons []lesson.Descriptor
	index   map[string]int
	sources map[string][]string
	rejects []Reject
}

func newCatalog() *Catalog {
	return &Catalog{
		lessons: make([]lesson.Descriptor, 0),
		index:   make(map[string]int),
		sources: make(map[string][]string),
		rejects: make([]Reject, 0),
	}
}

// Default returns the embedded beginner catalog.
func Default() *Catalog {
	c, err := Parse(beginnerCatalog, DefaultSource)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Parse decodes a catalog document: an object mapping lesson keys to lessons.
func Parse(data []byte, source string) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse %s: invalid json", source)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("parse %s: catalog must be an object keyed by lesson", source)
	}

	c := newCatalog()
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			c.reject(source, key.String(), "lesson entry is not an object")
			return true
		}
		c.add(decodeLesson(key.String(), value), source)
		return true
	})
	return c, nil
}

func decodeLesson(key string, value gjson.Result) lesson.Descriptor {
	d := lesson.Descriptor{
		CatalogKey:  key,
		ID:          value.Get("id").String(),
		Title:       value.Get("title").String(),
		Description: value.Get("description").String(),
		Section:     value.Get("section").String(),
		SectionKey:  value.Get("key").String(),
	}
	if games := value.Get("games"); games.Exists() {
		d.Games = json.RawMessage(games.Raw)
	}
	return d
}

// add appends d, merging it into an existing lesson with the same key.
func (c *Catalog) add(d lesson.Descriptor, source string) {
	if i, ok := c.index[d.CatalogKey]; ok {
		c.lessons[i] = mergeLessons(c.lessons[i], d)
	} else {
		c.index[d.CatalogKey] = len(c.lessons)
		c.lessons = append(c.lessons, d)
	}
	c.sources[d.CatalogKey] = append(c.sources[d.CatalogKey], source)
}

func (c *Catalog) reject(source, key, reason string) {
	c.rejects = append(c.rejects, Reject{Source: source, Lesson: key, Reason: reason})
}

// Lesson returns the lesson stored under key.
func (c *Catalog) Lesson(key string) (lesson.Descriptor, error) {
	i, ok := c.index[key]
	if !ok {
		return lesson.Descriptor{}, fmt.Errorf("%q: %w", key, ErrLessonNotFound)
	}
	return c.lessons[i], nil
}

// Lessons returns every lesson in declaration order.
func (c *Catalog) Lessons() []lesson.Descriptor {
	return append([]lesson.Descriptor(nil), c.lessons...)
}

// Len returns the number of lessons.
func (c *Catalog) Len() int { return len(c.lessons) }

// Sources returns the files a lesson was read from.
func (c *Catalog) Sources(key string) []string {
	return append([]string(nil), c.sources[key]...)
}

// Rejects returns the structural problems found while loading.
func (c *Catalog) Rejects() []Reject {
	return append([]Reject(nil), c.rejects...)
}
