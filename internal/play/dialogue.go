package play

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/tidwall/gjson"
)

const dialoguePoints = 100

// dialogueGame walks through a conversation. Interactive turns ask for the
// missing word among the turn's options.
type dialogueGame struct {
	seq      int
	turns    []gjson.Result
	turn     int
	cursor   int
	answered bool
	correct  bool
	score    int
}

func newDialogueGame(data gjson.Result, seq int, _ lesson.Rand) (game, bool) {
	turns := data.Get("turns").Array()
	if len(turns) == 0 {
		return nil, false
	}
	return &dialogueGame{seq: seq, turns: turns}, true
}

func (g *dialogueGame) current() gjson.Result { return g.turns[g.turn] }

func (g *dialogueGame) interactive() bool {
	return g.current().Get("isInteractive").Bool()
}

func (g *dialogueGame) Update(msg tea.Msg) (game, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}
	if key.Type != tea.KeyEnter {
		if g.interactive() && !g.answered {
			g.cursor = moveCursor(g.cursor, len(g.current().Get("options").Array()), key)
		}
		return g, nil
	}

	if g.interactive() && !g.answered {
		options := stringValues(g.current().Get("options"))
		g.answered = true
		g.correct = g.cursor < len(options) && options[g.cursor] == g.current().Get("missingWord").String()
		if g.correct {
			g.score += dialoguePoints
		}
		return g, nil
	}

	if g.turn == len(g.turns)-1 {
		return g, done(g.seq, g.score)
	}
	g.turn++
	g.cursor, g.answered, g.correct = 0, false, false
	return g, nil
}

func (g *dialogueGame) View() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Conversation"))
	b.WriteString(styleSubtle.Render(fmt.Sprintf(" [%d/%d]", g.turn+1, len(g.turns))))
	b.WriteString("\n\n")

	for i := 0; i < g.turn; i++ {
		t := g.turns[i]
		b.WriteString(styleSubtle.Render(fmt.Sprintf("%s: %s", t.Get("speaker").String(), joinWords(t.Get("words"), "word"))))
		b.WriteRune('\n')
	}

	t := g.current()
	speaker := styleSection.Render(t.Get("speaker").String() + ":")
	if !g.interactive() || g.answered {
		b.WriteString(fmt.Sprintf("%s %s\n", speaker, joinWords(t.Get("words"), "word")))
		if tr := joinWords(t.Get("words"), "translation"); tr != "" {
			b.WriteString(styleSubtle.Render("   " + tr))
			b.WriteRune('\n')
		}
	} else {
		b.WriteString(fmt.Sprintf("%s %s\n\n", speaker, joinWords(t.Get("promptWords"), "word")))
		for i, opt := range stringValues(t.Get("options")) {
			line := fmt.Sprintf("%s %s", cursorMark(i == g.cursor), opt)
			if i == g.cursor {
				line = styleHighlight.Render(line)
			}
			b.WriteString(line)
			b.WriteRune('\n')
		}
	}

	b.WriteRune('\n')
	switch {
	case g.interactive() && !g.answered:
		b.WriteString(styleSubtle.Render("↑/↓: Choose | enter: Answer | esc: Leave lesson"))
	case g.interactive() && g.correct:
		b.WriteString(styleCorrect.Render("🎉 Correct!"))
		b.WriteString(styleSubtle.Render("\n\nPress Enter to continue."))
	case g.interactive():
		b.WriteString(styleIncorrect.Render("❌ Not quite."))
		b.WriteString("\nMissing word: " + styleCorrect.Render(t.Get("missingWord").String()))
		b.WriteString(styleSubtle.Render("\n\nPress Enter to continue."))
	default:
		b.WriteString(styleSubtle.Render("Press Enter to continue."))
	}
	return b.String()
}
