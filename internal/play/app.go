// Package play is the interactive terminal player: a lesson map, one
// component per game kind, the replay transition and the end-of-game screen.
package play

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/iskawarran/lessonplay/internal/catalog"
	"github.com/iskawarran/lessonplay/internal/lesson"
	"go.uber.org/zap"
)

type appState int

const (
	stateLessonMap appState = iota
	statePlaying
	stateReplayTransition
	stateGameOver
)

// roundResult receives the outcome of the controller callback for one round.
type roundResult struct {
	applied bool
	out     lesson.Outcome
	err     error
}

// Model is the bubbletea model of the player.
type Model struct {
	lessons  []lesson.Descriptor
	sections []catalog.Section
	builder  *lesson.Builder
	rand     lesson.Rand
	log      *zap.Logger

	state      appState
	cursor     int
	controller *lesson.Controller
	game       game
	seq        int
	complete   func(score int)
	result     *roundResult
	replayLen  int
	total      int
	err        error
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger. The player owns the terminal, so it should
// write to a file.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithRand sets the source used to shuffle options and tiles on screen.
func WithRand(r lesson.Rand) Option {
	return func(m *Model) { m.rand = r }
}

// New creates the player for the catalog's lessons.
func New(cat *catalog.Catalog, b *lesson.Builder, opts ...Option) *Model {
	sections := cat.Sections()
	lessons := make([]lesson.Descriptor, 0, cat.Len())
	for _, s := range sections {
		lessons = append(lessons, s.Lessons...)
	}
	m := &Model{
		lessons:  lessons,
		sections: sections,
		builder:  b,
		rand:     lesson.GlobalRand(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the player on the terminal until the user quits or ctx ends.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run player: %w", err)
	}
	return nil
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.state {
	case stateLessonMap:
		return m.updateLessonMap(msg)
	case statePlaying:
		return m.updatePlaying(msg)
	case stateReplayTransition:
		return m.updateReplayTransition(msg)
	case stateGameOver:
		return m.updateGameOver(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateLessonMap(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.lessons)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.lessons) > 0 {
			m.start(m.lessons[m.cursor])
		}
	}
	return m, nil
}

func (m *Model) start(d lesson.Descriptor) {
	m.err = nil
	m.controller = lesson.NewController(m.builder, d)
	m.log.Info("lesson started", zap.String("lesson", d.ID), zap.String("key", d.CatalogKey))
	m.nextRound()
}

// nextRound presents the controller's active round, or the end screen when
// the session has nothing left to play.
func (m *Model) nextRound() {
	if total, ok := m.controller.Finished(); ok {
		m.finish(total)
		return
	}
	round, ok := m.controller.Active()
	if !ok {
		m.abandon("no active round")
		return
	}
	m.seq++
	res := &roundResult{}
	m.result = res
	m.complete = m.controller.Callback(func(out lesson.Outcome, err error) {
		res.applied, res.out, res.err = true, out, err
	})
	m.game = newGame(round, m.seq, m.rand)
	m.state = statePlaying
}

func (m *Model) updatePlaying(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case roundDoneMsg:
		if msg.seq != m.seq || m.complete == nil {
			return m, nil
		}
		m.complete(msg.score)
		if !m.result.applied {
			return m, nil
		}
		return m, m.handleOutcome(m.result.out, m.result.err)
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			m.abandon("left lesson")
			return m, nil
		}
	}
	if m.game == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.game, cmd = m.game.Update(msg)
	return m, cmd
}

func (m *Model) handleOutcome(out lesson.Outcome, err error) tea.Cmd {
	if err != nil {
		m.err = err
		m.abandon(err.Error())
		return nil
	}
	switch out.Step {
	case lesson.StepReplay:
		m.game, m.complete = nil, nil
		m.replayLen = len(out.Batch.RoundsToReplay)
		m.state = stateReplayTransition
	case lesson.StepFinished:
		m.finish(out.Total)
	default:
		m.nextRound()
	}
	return nil
}

func (m *Model) updateReplayTransition(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyEsc:
		m.abandon("left before replay")
	case tea.KeyEnter:
		if _, err := m.controller.ContinueReplay(); err != nil {
			m.err = err
			m.abandon(err.Error())
			return m, nil
		}
		m.nextRound()
	}
	return m, nil
}

func (m *Model) updateGameOver(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && (key.Type == tea.KeyEnter || key.Type == tea.KeyEsc) {
		m.controller = nil
		m.state = stateLessonMap
	}
	return m, nil
}

func (m *Model) finish(total int) {
	m.total = total
	m.game, m.complete, m.result = nil, nil, nil
	m.state = stateGameOver
}

// abandon discards the lesson attempt and returns to the lesson map.
func (m *Model) abandon(reason string) {
	if m.controller != nil {
		m.log.Info("session abandoned",
			zap.String("session", m.controller.Session().ID),
			zap.String("reason", reason))
	}
	m.controller = nil
	m.game, m.complete, m.result = nil, nil, nil
	m.state = stateLessonMap
}

func (m *Model) View() string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(styleError.Render("Error: " + m.err.Error()))
		b.WriteRune('\n')
	}
	switch m.state {
	case stateLessonMap:
		b.WriteString(m.viewLessonMap())
	case statePlaying:
		b.WriteString(m.viewPlaying())
	case stateReplayTransition:
		b.WriteString(m.viewReplayTransition())
	case stateGameOver:
		b.WriteString(m.viewGameOver())
	default:
		b.WriteString("Unknown state.")
	}
	return b.String()
}

func (m *Model) viewLessonMap() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("lessonplay: Lesson Map"))
	b.WriteString("\n")
	if len(m.lessons) == 0 {
		b.WriteString("\nNo lessons in the catalog.\n")
	}
	i := 0
	for _, s := range m.sections {
		b.WriteString("\n")
		b.WriteString(styleSection.Render(s.Name))
		b.WriteRune('\n')
		for _, d := range s.Lessons {
			line := fmt.Sprintf("%s %s", cursorMark(i == m.cursor), d.Title)
			if i == m.cursor {
				line = styleHighlight.Render(line)
			}
			b.WriteString(line)
			b.WriteRune('\n')
			i++
		}
	}
	b.WriteString(styleSubtle.Render("\n ↑/↓: Navigate | enter: Start | esc: Quit"))
	return b.String()
}

func (m *Model) viewPlaying() string {
	var b strings.Builder
	s := m.controller.Session()
	header := m.controller.Lesson().Title
	if s.Mode == lesson.ModeReplay {
		header += " (review)"
	}
	b.WriteString(styleSection.Render(header))
	b.WriteString(styleSubtle.Render(fmt.Sprintf(" [%d/%d]", s.Index+1, len(s.Rounds))))
	b.WriteString("\n\n")
	if m.game != nil {
		b.WriteString(m.game.View())
	}
	return b.String()
}

func (m *Model) viewReplayTransition() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Review what you missed"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%d round(s) to practise again.\n", m.replayLen))
	b.WriteString(styleSubtle.Render("\nPress Enter to continue, Esc to leave the lesson."))
	return b.String()
}

func (m *Model) viewGameOver() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Lesson complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Total score: %s\n", styleCorrect.Render(fmt.Sprint(m.total))))
	b.WriteString(styleSubtle.Render("\nPress Enter to return to the lesson map."))
	return b.String()
}
