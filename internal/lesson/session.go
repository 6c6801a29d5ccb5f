package lesson

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ScoreThreshold is the minimum round score that counts as a pass.
const ScoreThreshold = 1

// Mode distinguishes a first attempt from the replay of failed rounds.
type Mode int

const (
	ModeInitial Mode = iota
	ModeReplay
)

func (m Mode) String() string {
	switch m {
	case ModeInitial:
		return "initial"
	case ModeReplay:
		return "replay"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "initial":
		*m = ModeInitial
	case "replay":
		*m = ModeReplay
	default:
		return fmt.Errorf("unknown session mode %q", text)
	}
	return nil
}

// State is the position of a session in its lifecycle.
type State int

const (
	StatePlaying State = iota
	// StateAwaitingReplay is only reached by an initial session whose last
	// round completed with replay-eligible failures.
	StateAwaitingReplay
	StateFinished
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateAwaitingReplay:
		return "awaiting_replay"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "playing":
		*s = StatePlaying
	case "awaiting_replay":
		*s = StateAwaitingReplay
	case "finished":
		*s = StateFinished
	default:
		return fmt.Errorf("unknown session state %q", text)
	}
	return nil
}

var (
	// ErrSessionFinished is returned when a result is submitted to a finished session.
	ErrSessionFinished = errors.New("session finished")
	// ErrHandedOff is returned when a result is submitted to an initial
	// session that already produced its replay batch.
	ErrHandedOff = errors.New("session handed off to replay")
)

// Session is one attempt (initial or replay) at a lesson's rounds.
type Session struct {
	ID       string  `json:"id"`
	LessonID string  `json:"lessonId"`
	Mode     Mode    `json:"mode"`
	Rounds   []Round `json:"rounds"`
	// Index is the cursor into Rounds; it stays on the last round once the
	// session leaves StatePlaying.
	Index  int   `json:"currentIndex"`
	Scores []int `json:"scores"`
	// OriginalScores are the initial session's scores a replay reports.
	OriginalScores []int        `json:"originalScores,omitempty"`
	State          State        `json:"state"`
	Total          int          `json:"totalScore"`
	Batch          *ReplayBatch `json:"replayBatch,omitempty"`

	registry *Registry
}

// Step tells the caller what a submitted result led to.
type Step int

const (
	// StepNext means the session advanced to Outcome.Next.
	StepNext Step = iota
	// StepReplay means the initial session ended with failures; Outcome.Batch
	// seeds the replay session.
	StepReplay
	// StepFinished means the session ended with Outcome.Total.
	StepFinished
)

func (s Step) String() string {
	switch s {
	case StepNext:
		return "next"
	case StepReplay:
		return "replay"
	case StepFinished:
		return "finished"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Outcome is the result of a state transition.
type Outcome struct {
	Step  Step
	Next  Round
	Batch *ReplayBatch
	Total int
}

func newSession(id, lessonID string, mode Mode, rounds []Round, original []int, registry *Registry) *Session {
	s := &Session{
		ID:             id,
		LessonID:       lessonID,
		Mode:           mode,
		Rounds:         rounds,
		Scores:         make([]int, 0, len(rounds)),
		OriginalScores: original,
		registry:       registry,
	}
	if len(rounds) == 0 {
		s.finish(s.reportedTotal())
	}
	return s
}

// Active returns the round being played.
func (s *Session) Active() (Round, bool) {
	if s.State != StatePlaying || s.Index >= len(s.Rounds) {
		return Round{}, false
	}
	return s.Rounds[s.Index], true
}

// Submit records the score of the active round and advances the session.
func (s *Session) Submit(score int) (Outcome, error) {
	switch s.State {
	case StateFinished:
		return Outcome{}, ErrSessionFinished
	case StateAwaitingReplay:
		return Outcome{}, ErrHandedOff
	}

	s.Scores = append(s.Scores, score)
	if s.Index < len(s.Rounds)-1 {
		s.Index++
		return Outcome{Step: StepNext, Next: s.Rounds[s.Index]}, nil
	}

	if s.Mode == ModeInitial {
		failed := EligibleFailures(s.registry, s.Rounds, s.Scores)
		if len(failed) > 0 {
			s.Batch = &ReplayBatch{
				RoundsToReplay: failed,
				OriginalScores: append([]int(nil), s.Scores...),
			}
			s.State = StateAwaitingReplay
			return Outcome{Step: StepReplay, Batch: s.Batch}, nil
		}
	}

	s.finish(s.reportedTotal())
	return Outcome{Step: StepFinished, Total: s.Total}, nil
}

// Passed reports whether the round at index i met the score threshold.
func (s *Session) Passed(i int) bool {
	return i < len(s.Scores) && s.Scores[i] >= ScoreThreshold
}

// reportedTotal is the sum of this session's scores for an initial session
// and the sum of the original scores for a replay. Replayed rounds do not
// change the reported total.
func (s *Session) reportedTotal() int {
	if s.Mode == ModeReplay {
		return lo.Sum(s.OriginalScores)
	}
	return lo.Sum(s.Scores)
}

func (s *Session) finish(total int) {
	s.State = StateFinished
	s.Total = total
}
