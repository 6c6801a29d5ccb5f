package lesson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stillRand never swaps during a shuffle and always picks the last element.
type stillRand struct{}

func (stillRand) IntN(n int) int { return n - 1 }

func flashcardVariation(ids ...string) json.RawMessage {
	items := make([]string, len(ids))
	for i, id := range ids {
		items[i] = fmt.Sprintf(`{"id":%q,"prompt":"p-%s","translation":"t-%s","options":["t-%s","x"]}`, id, id, id, id)
	}
	return json.RawMessage(`{"data":{"items":[` + strings.Join(items, ",") + `]}}`)
}

func tileVariation(pairs int) json.RawMessage {
	tiles := make([]string, 0, pairs*2)
	for i := 1; i <= pairs; i++ {
		tiles = append(tiles,
			fmt.Sprintf(`{"id":%d,"name":"label-%d","type":"label"}`, i, i),
			fmt.Sprintf(`{"id":%d,"name":"answer-%d","type":"answer"}`, i, i))
	}
	return json.RawMessage(`{"data":{"tiles":[` + strings.Join(tiles, ",") + `]}}`)
}

const dialogueVariation = `{"data":{"turns":[{"speaker":"CPU","isInteractive":false,"words":[{"word":"Subax"}]},{"speaker":"Player","isInteractive":true,"missingWord":"nabad","options":["nabad","subax"]}]}}`

func testLesson() Descriptor {
	games := `{
		"FlashcardLearning": [` + string(flashcardVariation("a", "b", "c")) + `,` + string(flashcardVariation("d", "e")) + `],
		"TileMatchingGame": [` + string(tileVariation(9)) + `],
		"SentenceBuilder": [{"data":{"items":[{"prompt":"Waa nabad","translation":"It is peace.","filler":"sure|always"},{"prompt":"Subax wanaagsan.","translation":"Good morning.","filler":"evening|hello"}]}}],
		"TwoPeopleInteraction": [` + dialogueVariation + `]
	}`
	return Descriptor{
		CatalogKey: "Lesson1",
		ID:         "Greetings_IskaWarran",
		Title:      "Greetings Vocab",
		Section:    "Greetings",
		SectionKey: "greetings",
		Games:      json.RawMessage(games),
	}
}

func round(kind Kind, index int) Round {
	var variation json.RawMessage
	switch kind {
	case KindTileMatching:
		variation = tileVariation(3)
	case KindDialogue:
		variation = json.RawMessage(dialogueVariation)
	default:
		variation = flashcardVariation(fmt.Sprintf("item-%d", index))
	}
	return Round{ID: roundID(kind, index), Kind: kind, Variation: variation}
}
