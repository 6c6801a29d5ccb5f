package lesson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_CallbackFiresOncePerRound(t *testing.T) {
	c := NewController(NewBuilder(WithRand(NewSeededRand(1))), testLesson())
	var outcomes []Outcome

	complete := c.Callback(func(out Outcome, err error) {
		require.NoError(t, err)
		outcomes = append(outcomes, out)
	})
	complete(10)
	complete(10)
	complete(0)

	assert.Len(t, outcomes, 1)
	assert.Equal(t, []int{10}, c.Session().Scores)
	assert.Equal(t, 1, c.Session().Index)
}

func TestController_StaleCallbackIgnored(t *testing.T) {
	c := NewController(NewBuilder(WithRand(NewSeededRand(1))), testLesson())

	stale := c.Callback(nil)
	_, err := c.Submit(10)
	require.NoError(t, err)

	stale(10)
	assert.Equal(t, []int{10}, c.Session().Scores)

	c.Callback(nil)(20)
	assert.Equal(t, []int{10, 20}, c.Session().Scores)
}

func TestController_ReplayHandOff(t *testing.T) {
	c := NewController(NewBuilder(WithRand(NewSeededRand(3))), testLesson())
	initial := c.Session()

	var last Outcome
	for {
		round, ok := c.Active()
		require.True(t, ok)
		score := 10
		if round.Kind == KindFlashcard || round.Kind == KindTileMatching {
			score = 0
		}
		out, err := c.Submit(score)
		require.NoError(t, err)
		if out.Step != StepNext {
			last = out
			break
		}
	}

	require.Equal(t, StepReplay, last.Step)
	assert.Len(t, last.Batch.RoundsToReplay, 2)
	for _, r := range last.Batch.RoundsToReplay {
		assert.Equal(t, KindFlashcard, r.Kind)
	}
	_, done := c.Finished()
	assert.False(t, done)

	replay, err := c.ContinueReplay()
	require.NoError(t, err)
	assert.Same(t, replay, c.Session())
	assert.Equal(t, ModeReplay, replay.Mode)
	assert.Equal(t, last.Batch.RoundsToReplay, replay.Rounds)
	assert.Equal(t, initial.Scores, replay.OriginalScores)

	_, err = c.ContinueReplay()
	assert.ErrorIs(t, err, ErrNoReplayPending)

	for i := 0; i < 2; i++ {
		c.Callback(nil)(10)
	}
	total, done := c.Finished()
	assert.True(t, done)
	assert.Equal(t, 20, total, "only the sentence and dialogue rounds passed initially")
	assert.Len(t, c.Sessions(), 2)
}

func TestController_ContinueReplayWithoutBatch(t *testing.T) {
	c := NewController(NewBuilder(), Descriptor{ID: "empty"})
	_, err := c.ContinueReplay()
	assert.ErrorIs(t, err, ErrNoReplayPending)

	total, done := c.Finished()
	assert.True(t, done)
	assert.Zero(t, total)
}
