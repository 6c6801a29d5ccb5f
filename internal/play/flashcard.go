package play

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/tidwall/gjson"
)

const flashcardPoints = 10

// flashcardGame asks for the translation of a single prompt.
type flashcardGame struct {
	seq      int
	prompt   string
	answer   string
	options  []string
	cursor   int
	answered bool
	correct  bool
}

func newFlashcardGame(data gjson.Result, seq int, r lesson.Rand) (game, bool) {
	item := data.Get("items.0")
	if !item.IsObject() {
		return nil, false
	}
	options := stringValues(item.Get("options"))
	answer := item.Get("translation").String()
	if len(options) == 0 {
		options = []string{answer}
	}
	return &flashcardGame{
		seq:     seq,
		prompt:  item.Get("prompt").String(),
		answer:  answer,
		options: lesson.Shuffle(r, options),
	}, true
}

func (g *flashcardGame) Update(msg tea.Msg) (game, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}
	if g.answered {
		if key.Type == tea.KeyEnter {
			return g, done(g.seq, g.score())
		}
		return g, nil
	}
	if key.Type == tea.KeyEnter {
		g.answered = true
		g.correct = g.options[g.cursor] == g.answer
		return g, nil
	}
	g.cursor = moveCursor(g.cursor, len(g.options), key)
	return g, nil
}

func (g *flashcardGame) score() int {
	if g.correct {
		return flashcardPoints
	}
	return 0
}

func (g *flashcardGame) View() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Flashcard"))
	b.WriteString("\n\n")
	b.WriteString(g.prompt)
	b.WriteString("\n\n")
	for i, opt := range g.options {
		line := fmt.Sprintf("%s %s", cursorMark(i == g.cursor), opt)
		if i == g.cursor {
			line = styleHighlight.Render(line)
		}
		b.WriteString(line)
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	switch {
	case !g.answered:
		b.WriteString(styleSubtle.Render("↑/↓: Choose | enter: Answer | esc: Leave lesson"))
	case g.correct:
		b.WriteString(styleCorrect.Render("🎉 Correct!"))
		b.WriteString(styleSubtle.Render("\n\nPress Enter to continue."))
	default:
		b.WriteString(styleIncorrect.Render("❌ Not quite."))
		b.WriteString(fmt.Sprintf("\nAnswer: %s", styleCorrect.Render(g.answer)))
		b.WriteString(styleSubtle.Render("\n\nPress Enter to continue."))
	}
	return b.String()
}
