package play

import (
	"encoding/json"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iskawarran/lessonplay/internal/catalog"
	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// stillRand never swaps during a shuffle, so options keep their authored order.
type stillRand struct{}

func (stillRand) IntN(n int) int { return n - 1 }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

const (
	flashcardData = `{"data":{"items":[{"id":"subax","prompt":"Morning","translation":"Subax","options":["Subax","Nabad","Waa"]}]}}`
	sentenceData  = `{"data":{"items":[{"prompt":"Waa nabad","translation":"It is peace.","filler":"sure|always"}]}}`
	tileData      = `{"data":{"tiles":[{"id":1,"name":"Subax","type":"label"},{"id":1,"name":"Morning","type":"answer"},{"id":2,"name":"Nabad","type":"label"},{"id":2,"name":"Peace","type":"answer"}]}}`
	dialogueData  = `{"data":{"turns":[{"speaker":"CPU","isInteractive":false,"words":[{"word":"Subax","translation":"morning"},{"word":"wanaagsan.","translation":"good."}]},{"speaker":"Player","isInteractive":true,"missingWord":"nabad","options":["nabad","subax"],"promptWords":[{"word":"Ma"},{"word":"____"},{"word":"baa?"}],"words":[{"word":"Ma"},{"word":"nabad"},{"word":"baa?"}]}]}}`
)

func data(t *testing.T, variation string) gjson.Result {
	t.Helper()
	return lesson.Round{Variation: json.RawMessage(variation)}.Data()
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(`{
		"Lesson1": {"id":"cards","title":"Greetings Vocab","section":"Greetings","key":"greetings",
			"games":{"FlashcardLearning":[`+flashcardData+`]}},
		"Lesson2": {"id":"empty","title":"Nothing Yet","section":"Everyday","key":"everydayActions","games":{}},
		"Lesson3": {"id":"pronouns","title":"Pronouns","section":"Grammar","key":"grammarBasics",
			"games":{"TwoPeopleInteraction":[`+dialogueData+`]}}
	}`), "fixture.json")
	require.NoError(t, err)
	return c
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	b := lesson.NewBuilder(lesson.WithRand(stillRand{}))
	return New(testCatalog(t), b, WithRand(stillRand{}))
}

// send delivers msg and then any round completion it produced, the way the
// bubbletea runtime would.
func send(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		_, cmd := m.Update(msg)
		for cmd != nil {
			next, ok := cmd().(roundDoneMsg)
			if !ok {
				break
			}
			_, cmd = m.Update(next)
		}
	}
}

// finish runs cmd and returns the round completion it carries.
func finish(t *testing.T, cmd tea.Cmd) roundDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(roundDoneMsg)
	require.True(t, ok, "expected a round completion")
	return msg
}
