package lesson

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrNoReplayPending is returned by ContinueReplay when the current session
// has not handed off a replay batch.
var ErrNoReplayPending = errors.New("no replay pending")

// Controller drives one lesson attempt: the initial session and, when rounds
// failed, the replay session seeded from it.
type Controller struct {
	builder  *Builder
	lesson   Descriptor
	session  *Session
	sessions []*Session
	log      *zap.Logger
}

// NewController builds the initial session for d.
func NewController(b *Builder, d Descriptor) *Controller {
	s := b.Initial(d)
	return &Controller{
		builder:  b,
		lesson:   d,
		session:  s,
		sessions: []*Session{s},
		log:      b.log.With(zap.String("lesson", d.ID)),
	}
}

// Lesson returns the lesson being played.
func (c *Controller) Lesson() Descriptor { return c.lesson }

// Session returns the current session.
func (c *Controller) Session() *Session { return c.session }

// Sessions returns every session of the attempt, initial first.
func (c *Controller) Sessions() []*Session {
	return append([]*Session(nil), c.sessions...)
}

// Active returns the round to present.
func (c *Controller) Active() (Round, bool) { return c.session.Active() }

// Finished returns the total score once the attempt is over.
func (c *Controller) Finished() (int, bool) {
	if c.session.State != StateFinished {
		return 0, false
	}
	return c.session.Total, true
}

// Submit records the active round's score on the current session.
func (c *Controller) Submit(score int) (Outcome, error) {
	round, _ := c.session.Active()
	out, err := c.session.Submit(score)
	if err != nil {
		return out, err
	}
	c.log.Debug("round completed",
		zap.String("session", c.session.ID),
		zap.String("round", round.ID),
		zap.Int("score", score),
		zap.Stringer("step", out.Step))
	switch out.Step {
	case StepReplay:
		c.log.Info("replay required",
			zap.String("session", c.session.ID),
			zap.Int("rounds", len(out.Batch.RoundsToReplay)))
	case StepFinished:
		c.log.Info("session finished",
			zap.String("session", c.session.ID),
			zap.Stringer("mode", c.session.Mode),
			zap.Int("total", out.Total))
	}
	return out, nil
}

// Callback returns the completion callback for the active round. Only the
// first invocation is applied; later ones, and invocations after the session
// moved past that round, are ignored. onOutcome may be nil.
func (c *Controller) Callback(onOutcome func(Outcome, error)) func(score int) {
	session := c.session
	index := session.Index
	var once sync.Once
	return func(score int) {
		once.Do(func() {
			if c.session != session || session.State != StatePlaying ||
				session.Index != index || len(session.Scores) != index {
				c.log.Debug("stale round callback ignored",
					zap.String("session", session.ID),
					zap.Int("index", index))
				return
			}
			out, err := c.Submit(score)
			if onOutcome != nil {
				onOutcome(out, err)
			}
		})
	}
}

// ContinueReplay replaces the current session with the replay session built
// from its batch.
func (c *Controller) ContinueReplay() (*Session, error) {
	if c.session.State != StateAwaitingReplay || c.session.Batch == nil {
		return nil, ErrNoReplayPending
	}
	replay := c.builder.Replay(c.lesson, *c.session.Batch)
	c.session = replay
	c.sessions = append(c.sessions, replay)
	return replay, nil
}
