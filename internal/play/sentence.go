package play

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

const sentencePoints = 100

// sentenceGame has the learner translate a sentence using a word bank made
// of the translation's words plus filler words.
type sentenceGame struct {
	seq         int
	prompt      string
	translation string
	bank        []string
	input       textinput.Model
	answered    bool
	correct     bool
}

func newSentenceGame(data gjson.Result, seq int, r lesson.Rand) (game, bool) {
	item := data.Get("items.0")
	translation := item.Get("translation").String()
	if !item.IsObject() || translation == "" {
		return nil, false
	}

	words := lo.Map(strings.Fields(translation), func(w string, _ int) string { return trimPunct(w) })
	filler := lo.Filter(lo.Map(strings.Split(item.Get("filler").String(), "|"), func(w string, _ int) string {
		return strings.TrimSpace(w)
	}), func(w string, _ int) bool { return w != "" })
	bank := lesson.Shuffle(r, append(words, filler...))

	ti := textinput.New()
	ti.Placeholder = "Type the sentence and press Enter..."
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 60
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	return &sentenceGame{
		seq:         seq,
		prompt:      item.Get("prompt").String(),
		translation: translation,
		bank:        bank,
		input:       ti,
	}, true
}

func (g *sentenceGame) Update(msg tea.Msg) (game, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		if g.answered {
			return g, done(g.seq, g.score())
		}
		g.answered = true
		g.correct = normalizeSentence(g.input.Value()) == normalizeSentence(g.translation)
		g.input.Blur()
		return g, nil
	}
	if g.answered {
		return g, nil
	}
	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	return g, cmd
}

func (g *sentenceGame) score() int {
	if g.correct {
		return sentencePoints
	}
	return 0
}

func (g *sentenceGame) View() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Sentence Builder"))
	b.WriteString("\n\n")
	b.WriteString(g.prompt)
	b.WriteString("\n\n")
	b.WriteString(styleSubtle.Render("Words: "))
	b.WriteString(strings.Join(g.bank, "  "))
	b.WriteString("\n\n")
	b.WriteString(g.input.View())
	b.WriteString("\n\n")
	switch {
	case !g.answered:
		b.WriteString(styleSubtle.Render("enter: Check | esc: Leave lesson"))
	case g.correct:
		b.WriteString(styleCorrect.Render("🎉 Correct!"))
		b.WriteString(styleSubtle.Render("\n\nPress Enter to continue."))
	default:
		b.WriteString(styleIncorrect.Render("❌ Not quite."))
		b.WriteString("\nAnswer: " + styleCorrect.Render(g.translation))
		b.WriteString(styleSubtle.Render("\n\nPress Enter to continue."))
	}
	return b.String()
}

func trimPunct(w string) string {
	return strings.Trim(w, ".,!?;:¿¡\"'")
}

func normalizeSentence(s string) string {
	words := lo.Map(strings.Fields(strings.ToLower(s)), func(w string, _ int) string { return trimPunct(w) })
	return strings.Join(lo.Filter(words, func(w string, _ int) bool { return w != "" }), " ")
}
