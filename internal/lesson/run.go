package lesson

import (
	"context"
	"fmt"
)

// Player plays one round and returns its score.
type Player interface {
	Play(ctx context.Context, r Round) (int, error)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(ctx context.Context, r Round) (int, error)

func (f PlayerFunc) Play(ctx context.Context, r Round) (int, error) { return f(ctx, r) }

// Result summarises a completed lesson attempt.
type Result struct {
	Total    int
	Flawless bool
	Sessions []*Session
}

// Run plays every round of the controller's sessions, including the replay
// hand-off, until the attempt finishes. Cancelling ctx abandons the attempt.
func Run(ctx context.Context, c *Controller, p Player) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		switch c.Session().State {
		case StateFinished:
			sessions := c.Sessions()
			return Result{
				Total:    c.Session().Total,
				Flawless: len(sessions) == 1,
				Sessions: sessions,
			}, nil
		case StateAwaitingReplay:
			if _, err := c.ContinueReplay(); err != nil {
				return Result{}, err
			}
		default:
			round, ok := c.Active()
			if !ok {
				return Result{}, fmt.Errorf("session %s has no active round", c.Session().ID)
			}
			score, err := p.Play(ctx, round)
			if err != nil {
				return Result{}, fmt.Errorf("play round %s: %w", round.ID, err)
			}
			if _, err := c.Submit(score); err != nil {
				return Result{}, err
			}
		}
	}
}
