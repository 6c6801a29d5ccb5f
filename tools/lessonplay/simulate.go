package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/iskawarran/lessonplay/internal/lesson"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Points a scripted player earns for a passed round, matching the
// interactive components.
const (
	flashcardPoints = 10
	sentencePoints  = 100
	tilePairPoints  = 10
	dialoguePoints  = 100
)

type SimulationConfig struct {
	Lesson    lesson.Descriptor
	Seed      uint64
	Accuracy  float64
	FailKinds []lesson.Kind
	Registry  *lesson.Registry
	Log       *zap.Logger
}

// PlayRecord is one round played during a simulation.
type PlayRecord struct {
	Session string      `json:"session"`
	Mode    lesson.Mode `json:"mode"`
	Round   string      `json:"round"`
	Kind    lesson.Kind `json:"gameKey"`
	Score   int         `json:"score"`
}

type Metrics struct {
	Rounds   int
	Replayed int
	Passed   int
	Failed   int
}

type SimulationResult struct {
	Lesson    lesson.Descriptor
	Seed      uint64
	Accuracy  float64
	Result    lesson.Result
	Plays     []PlayRecord
	Metrics   Metrics
	Started   time.Time
	Duration  time.Duration
	Wrote     bool
	ReportDir string
	Reports   []string
}

// scriptedPlayer passes a round with probability accuracy, and never passes
// rounds of the kinds in fail.
type scriptedPlayer struct {
	rand     lesson.Rand
	accuracy float64
	fail     map[lesson.Kind]bool
}

func (p *scriptedPlayer) Play(ctx context.Context, r lesson.Round) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if p.fail[r.Kind] || float64(p.rand.IntN(1000)) >= p.accuracy*1000 {
		return 0, nil
	}
	return passingScore(r), nil
}

// passingScore is what the interactive component awards for a round played
// without mistakes.
func passingScore(r lesson.Round) int {
	switch r.Kind {
	case lesson.KindFlashcard:
		return flashcardPoints
	case lesson.KindSentenceBuilder:
		return sentencePoints
	case lesson.KindTileMatching:
		pairs, _ := lesson.CountTilePairs(r.Variation)
		return pairs * tilePairPoints
	case lesson.KindDialogue:
		interactive := lo.CountBy(r.Data().Get("turns").Array(), func(t gjson.Result) bool {
			return t.Get("isInteractive").Bool()
		})
		return interactive * dialoguePoints
	default:
		return lesson.ScoreThreshold
	}
}

func runSimulation(ctx context.Context, cfg SimulationConfig) (SimulationResult, error) {
	if cfg.Accuracy < 0 || cfg.Accuracy > 1 {
		return SimulationResult{}, errors.New("accuracy must be between 0 and 1")
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	if cfg.Registry == nil {
		cfg.Registry = lesson.DefaultRegistry()
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	start := time.Now()
	rnd := lesson.NewSeededRand(cfg.Seed)
	builder := lesson.NewBuilder(
		lesson.WithRand(rnd),
		lesson.WithRegistry(cfg.Registry),
		lesson.WithLogger(cfg.Log),
	)
	c := lesson.NewController(builder, cfg.Lesson)

	player := &scriptedPlayer{
		rand:     rnd,
		accuracy: cfg.Accuracy,
		fail:     lo.Associate(cfg.FailKinds, func(k lesson.Kind) (lesson.Kind, bool) { return k, true }),
	}
	result := SimulationResult{
		Lesson:   cfg.Lesson,
		Seed:     cfg.Seed,
		Accuracy: cfg.Accuracy,
		Started:  start,
	}
	recorder := lesson.PlayerFunc(func(ctx context.Context, r lesson.Round) (int, error) {
		score, err := player.Play(ctx, r)
		if err != nil {
			return 0, err
		}
		s := c.Session()
		result.Plays = append(result.Plays, PlayRecord{
			Session: s.ID,
			Mode:    s.Mode,
			Round:   r.ID,
			Kind:    r.Kind,
			Score:   score,
		})
		return score, nil
	})

	res, err := lesson.Run(ctx, c, recorder)
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}
	result.Result = res
	result.Metrics = collectMetrics(result.Plays)
	return result, nil
}

func collectMetrics(plays []PlayRecord) Metrics {
	return Metrics{
		Rounds:   len(plays),
		Replayed: lo.CountBy(plays, func(p PlayRecord) bool { return p.Mode == lesson.ModeReplay }),
		Passed:   lo.CountBy(plays, func(p PlayRecord) bool { return p.Score >= lesson.ScoreThreshold }),
		Failed:   lo.CountBy(plays, func(p PlayRecord) bool { return p.Score < lesson.ScoreThreshold }),
	}
}
