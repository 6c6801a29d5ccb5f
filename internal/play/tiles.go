package play

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

const (
	tilePoints   = 10
	tilesPerLine = 4
)

type tile struct {
	id      string
	name    string
	kind    string
	matched bool
}

// tileGame has the learner pair each label with its answer. A pair is two
// tiles with the same id and different types.
type tileGame struct {
	seq      int
	tiles    []tile
	cursor   int
	selected int
	score    int
	feedback string
}

func newTileGame(data gjson.Result, seq int, r lesson.Rand) (game, bool) {
	tiles := lo.FilterMap(data.Get("tiles").Array(), func(t gjson.Result, _ int) (tile, bool) {
		id := t.Get("id")
		return tile{id: id.String(), name: t.Get("name").String(), kind: t.Get("type").String()}, t.IsObject() && id.Exists()
	})
	if len(tiles) < 2 {
		return nil, false
	}
	return &tileGame{seq: seq, tiles: lesson.Shuffle(r, tiles), selected: -1}, true
}

func (g *tileGame) Update(msg tea.Msg) (game, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}
	if g.complete() {
		if key.Type == tea.KeyEnter {
			return g, done(g.seq, g.score)
		}
		return g, nil
	}
	switch key.String() {
	case "enter", " ":
		g.pick(g.cursor)
	case "up", "k":
		if g.cursor >= tilesPerLine {
			g.cursor -= tilesPerLine
		}
	case "down", "j":
		if g.cursor+tilesPerLine < len(g.tiles) {
			g.cursor += tilesPerLine
		}
	default:
		g.cursor = moveCursor(g.cursor, len(g.tiles), key)
	}
	return g, nil
}

func (g *tileGame) pick(i int) {
	if g.tiles[i].matched {
		return
	}
	if g.selected < 0 {
		g.selected = i
		g.feedback = ""
		return
	}
	if g.selected == i {
		g.selected = -1
		return
	}
	a, b := &g.tiles[g.selected], &g.tiles[i]
	g.selected = -1
	if a.id == b.id && a.kind != b.kind {
		a.matched, b.matched = true, true
		g.score += tilePoints
		g.feedback = styleCorrect.Render(fmt.Sprintf("✅ %s = %s", a.name, b.name))
		return
	}
	g.feedback = styleIncorrect.Render(fmt.Sprintf("❌ %s and %s do not match", a.name, b.name))
}

// complete reports whether every tile that has a partner is matched.
func (g *tileGame) complete() bool {
	for i, t := range g.tiles {
		if t.matched {
			continue
		}
		for j, other := range g.tiles {
			if i != j && !other.matched && other.id == t.id && other.kind != t.kind {
				return false
			}
		}
	}
	return true
}

func (g *tileGame) View() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Tile Matching"))
	b.WriteString("\n\n")
	rows := lo.Chunk(lo.Range(len(g.tiles)), tilesPerLine)
	for _, row := range rows {
		cells := lo.Map(row, func(i int, _ int) string {
			t := g.tiles[i]
			style := styleTile
			switch {
			case t.matched:
				style = style.Foreground(lipgloss.Color("8"))
			case i == g.selected:
				style = style.BorderForeground(lipgloss.Color("13")).Inherit(styleSelected)
			case i == g.cursor:
				style = style.BorderForeground(lipgloss.Color("14"))
			}
			return style.Render(t.name)
		})
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteRune('\n')
	}
	b.WriteString(fmt.Sprintf("\nScore: %d\n", g.score))
	if g.feedback != "" {
		b.WriteString(g.feedback)
		b.WriteRune('\n')
	}
	if g.complete() {
		b.WriteString(styleCorrect.Render("\n🎉 All pairs matched!"))
		b.WriteString(styleSubtle.Render("\n\nPress Enter to continue."))
	} else {
		b.WriteString(styleSubtle.Render("\narrows: Move | enter/space: Select | esc: Leave lesson"))
	}
	return b.String()
}
