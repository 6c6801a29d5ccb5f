package play

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// game is the component presenting one round. It reports completion by
// returning the command built by done.
type game interface {
	Update(msg tea.Msg) (game, tea.Cmd)
	View() string
}

// roundDoneMsg carries a round's score. seq identifies the round it belongs to
// so a late message from a previous round is ignored.
type roundDoneMsg struct {
	seq   int
	score int
}

func done(seq, score int) tea.Cmd {
	return func() tea.Msg { return roundDoneMsg{seq: seq, score: score} }
}

// newGameFunc builds the component for a round. It returns false when the
// payload has nothing to play.
type newGameFunc func(data gjson.Result, seq int, r lesson.Rand) (game, bool)

var gameComponents = map[lesson.Kind]newGameFunc{
	lesson.KindFlashcard:       newFlashcardGame,
	lesson.KindSentenceBuilder: newSentenceGame,
	lesson.KindTileMatching:    newTileGame,
	lesson.KindDialogue:        newDialogueGame,
}

// newGame picks the component for the round's kind.
func newGame(round lesson.Round, seq int, r lesson.Rand) game {
	data := round.Data()
	if !data.IsObject() || len(data.Map()) == 0 {
		return &placeholderGame{seq: seq, text: "No lesson data."}
	}
	build, ok := gameComponents[round.Kind]
	if !ok {
		return &placeholderGame{seq: seq, text: "Unsupported game type: " + round.Kind.String()}
	}
	g, ok := build(data, seq, r)
	if !ok {
		return &placeholderGame{seq: seq, text: "No lesson data."}
	}
	return g
}

// placeholderGame stands in for rounds that cannot be played. It completes
// with a score of zero.
type placeholderGame struct {
	seq  int
	text string
}

func (g *placeholderGame) Update(msg tea.Msg) (game, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		return g, done(g.seq, 0)
	}
	return g, nil
}

func (g *placeholderGame) View() string {
	return g.text + "\n\n" + styleSubtle.Render("Press Enter to continue.")
}

func stringValues(list gjson.Result) []string {
	return lo.Map(list.Array(), func(v gjson.Result, _ int) string { return v.String() })
}

func joinWords(words gjson.Result, field string) string {
	parts := make([]string, 0)
	words.ForEach(func(_, w gjson.Result) bool {
		if s := w.Get(field).String(); s != "" {
			parts = append(parts, s)
		}
		return true
	})
	return strings.Join(parts, " ")
}

func moveCursor(cursor, n int, key tea.KeyMsg) int {
	switch key.String() {
	case "up", "k", "left", "h":
		if cursor > 0 {
			return cursor - 1
		}
	case "down", "j", "right", "l":
		if cursor < n-1 {
			return cursor + 1
		}
	}
	return cursor
}
