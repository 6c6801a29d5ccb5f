package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	keys := lo.Map(c.Lessons(), func(d lesson.Descriptor, _ int) string { return d.CatalogKey })
	assert.Equal(t, []string{"Lesson1", "Lesson2", "Lesson3", "Lesson5", "Lesson6"}, keys)
	assert.Empty(t, c.Rejects())

	l, err := c.Lesson("Lesson2")
	require.NoError(t, err)
	assert.Equal(t, "Greetings_IskaWarran", l.ID)
	assert.Equal(t, "greetings", l.SectionKey)
	assert.True(t, gjson.GetBytes(l.Games, "TwoPeopleInteraction").IsArray())
	assert.Equal(t, []string{DefaultSource}, c.Sources("Lesson2"))
}

func TestLessonNotFound(t *testing.T) {
	_, err := Default().Lesson("Lesson4")
	require.ErrorIs(t, err, ErrLessonNotFound)
	assert.Contains(t, err.Error(), "Lesson4")
}

func TestParse(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		_, err := Parse([]byte(`{"Lesson1":`), "broken.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken.json")
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := Parse([]byte(`[1,2]`), "list.json")
		require.Error(t, err)
	})

	t.Run("non-object lesson is rejected", func(t *testing.T) {
		c, err := Parse([]byte(`{"A":{"id":"a","title":"A","section":"S","games":{}},"B":"oops"}`), "mixed.json")
		require.NoError(t, err)
		assert.Equal(t, 1, c.Len())
		require.Len(t, c.Rejects(), 1)
		assert.Equal(t, Reject{Source: "mixed.json", Lesson: "B", Reason: "lesson entry is not an object"}, c.Rejects()[0])
	})
}

func TestLoadNoPathsReturnsDefault(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), c.Len())
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadDirectoryMergesLessons(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.json", `{
		"Lesson1": {"id":"greet","title":"Old title","description":"first","section":"Greetings","key":"greetings",
			"games":{"FlashcardLearning":[{"data":{"items":[{"id":"a"}]}}]}}
	}`)
	writeFixture(t, dir, "nested/b.json", `{
		"Lesson1": {"title":"New title","games":{
			"FlashcardLearning":[{"data":{"items":[{"id":"a"}]}},{"data":{"items":[{"id":"b"}]}}],
			"SentenceBuilder":[{"data":{"items":[{"prompt":"x","translation":"y"}]}}]}}
	}`)
	writeFixture(t, dir, "notes.txt", `ignored`)
	writeFixture(t, dir, "bad.json", `{nope`)

	c, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	l, err := c.Lesson("Lesson1")
	require.NoError(t, err)
	assert.Equal(t, "greet", l.ID)
	assert.Equal(t, "New title", l.Title)
	assert.Equal(t, "first", l.Description)
	assert.Len(t, gjson.GetBytes(l.Games, "FlashcardLearning").Array(), 2)
	assert.Len(t, gjson.GetBytes(l.Games, "SentenceBuilder").Array(), 1)

	var kinds []string
	gjson.ParseBytes(l.Games).ForEach(func(key, _ gjson.Result) bool {
		kinds = append(kinds, key.String())
		return true
	})
	assert.Equal(t, []string{"FlashcardLearning", "SentenceBuilder"}, kinds)

	assert.Len(t, c.Sources("Lesson1"), 2)
	require.Len(t, c.Rejects(), 1)
	assert.Equal(t, filepath.Join(dir, "bad.json"), c.Rejects()[0].Source)
}

func TestLoadSingleFile(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "one.json", `{"X":{"id":"x","title":"X","section":"Misc","games":{}}}`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{path}, c.Sources("X"))
}

func TestMergeKeepsRepeatedVariations(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.json", `{
		"Lesson1": {"id":"greet","title":"Greetings","section":"Greetings","games":{"FlashcardLearning":[
			{"data":{"items":[{"id":"a"}]}},
			{"data":{"items":[{"id":"a"}]}}
		]}}
	}`)
	writeFixture(t, dir, "b.json", `{
		"Lesson1": {"games":{"FlashcardLearning":[
			{"data":{"items":[{"id":"a"}]}},
			{"data": {"items": [{"id": "b"}]}}
		]}}
	}`)

	c, err := Load(dir)
	require.NoError(t, err)
	l, err := c.Lesson("Lesson1")
	require.NoError(t, err)

	variations := gjson.GetBytes(l.Games, "FlashcardLearning").Array()
	require.Len(t, variations, 3)
	assert.Equal(t, "a", variations[0].Get("data.items.0.id").String())
	assert.Equal(t, "a", variations[1].Get("data.items.0.id").String())
	assert.Equal(t, "b", variations[2].Get("data.items.0.id").String())
}
