package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// mergeLessons combines two declarations of the same lesson key. Non-empty
// metadata from b wins. Variations of a game kind already declared are
// extended with the incoming ones not yet present; new kinds are appended.
func mergeLessons(a, b lesson.Descriptor) lesson.Descriptor {
	merged := a
	merged.ID = preferLater(a.ID, b.ID)
	merged.Title = preferLater(a.Title, b.Title)
	merged.Description = preferLater(a.Description, b.Description)
	merged.Section = preferLater(a.Section, b.Section)
	merged.SectionKey = preferLater(a.SectionKey, b.SectionKey)
	merged.Games = mergeGames(a.Games, b.Games)
	return merged
}

func preferLater(a, b string) string {
	if strings.TrimSpace(b) != "" {
		return b
	}
	return a
}

func mergeGames(a, b json.RawMessage) json.RawMessage {
	ga, gb := gjson.ParseBytes(a), gjson.ParseBytes(b)
	if !gb.IsObject() {
		return a
	}
	if !ga.IsObject() {
		return b
	}

	out := bytes.Clone(a)
	gb.ForEach(func(key, list gjson.Result) bool {
		var kept []gjson.Result
		if existing := ga.Get(pathEscape(key.String())); existing.IsArray() {
			kept = existing.Array()
		}
		combined := append(kept, newVariations(kept, list.Array())...)
		raw := "[" + strings.Join(lo.Map(combined, func(v gjson.Result, _ int) string { return v.Raw }), ",") + "]"
		if patched, err := sjson.SetRawBytes(out, pathEscape(key.String()), []byte(raw)); err == nil {
			out = patched
		}
		return true
	})
	return out
}

// newVariations returns the incoming variations that are not already
// declared. Repeats within either list are left alone.
func newVariations(existing, incoming []gjson.Result) []gjson.Result {
	seen := lo.Associate(existing, func(v gjson.Result) (string, bool) { return compactJSON(v), true })
	return lo.Filter(incoming, func(v gjson.Result, _ int) bool { return !seen[compactJSON(v)] })
}

func compactJSON(v gjson.Result) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(v.Raw)); err != nil {
		return v.Raw
	}
	return buf.String()
}

// pathEscape escapes the gjson/sjson path syntax in a game kind key.
func pathEscape(key string) string {
	r := strings.NewReplacer(`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return r.Replace(key)
}
