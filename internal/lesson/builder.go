package lesson

import (
	"encoding/json"

	"github.com/segmentio/ksuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Builder turns lesson descriptors and replay batches into sessions.
type Builder struct {
	registry *Registry
	rand     Rand
	log      *zap.Logger
	newID    func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithRand sets the random source used for pruning and shuffling.
func WithRand(r Rand) Option {
	return func(b *Builder) { b.rand = r }
}

// WithRegistry sets the policy table.
func WithRegistry(r *Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// WithLogger sets the logger used by the builder and its sessions.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// NewBuilder creates a builder with the default registry and the process-wide
// random source unless overridden.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		registry: DefaultRegistry(),
		rand:     GlobalRand(),
		log:      zap.NewNop(),
		newID:    func() string { return ksuid.New().String() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry returns the policy table in use.
func (b *Builder) Registry() *Registry { return b.registry }

// Rounds expands the lesson's games into pruned, shuffled rounds. Games are
// visited in the order they are declared; malformed game data contributes no
// rounds.
func (b *Builder) Rounds(d Descriptor) []Round {
	rounds := make([]Round, 0)
	if !gjson.ValidBytes(d.Games) {
		return rounds
	}
	games := gjson.ParseBytes(d.Games)
	if !games.IsObject() {
		return rounds
	}

	games.ForEach(func(key, list gjson.Result) bool {
		if !list.IsArray() {
			return true
		}
		kind := Kind(key.String())
		policy := b.registry.Policy(kind)
		for i, v := range list.Array() {
			variation := json.RawMessage(v.Raw)
			if policy.SingleItem {
				variation = SelectSingleItem(variation, b.rand)
			}
			if policy.TilePairs {
				variation = SelectTilePairs(variation, policy.MaxTiles, b.rand)
			}
			rounds = append(rounds, Round{ID: roundID(kind, i), Kind: kind, Variation: variation})
		}
		return true
	})

	return Shuffle(b.rand, rounds)
}

// Initial builds a fresh session for the lesson.
func (b *Builder) Initial(d Descriptor) *Session {
	rounds := b.Rounds(d)
	s := newSession(b.newID(), d.ID, ModeInitial, rounds, nil, b.registry)
	b.log.Info("session built",
		zap.String("session", s.ID),
		zap.String("lesson", d.ID),
		zap.Stringer("mode", s.Mode),
		zap.Int("rounds", len(rounds)))
	return s
}

// Replay builds a replay session from the batch exactly as given: the rounds
// are neither pruned nor shuffled again.
func (b *Builder) Replay(d Descriptor, batch ReplayBatch) *Session {
	rounds := append([]Round(nil), batch.RoundsToReplay...)
	original := append([]int(nil), batch.OriginalScores...)
	s := newSession(b.newID(), d.ID, ModeReplay, rounds, original, b.registry)
	b.log.Info("session built",
		zap.String("session", s.ID),
		zap.String("lesson", d.ID),
		zap.Stringer("mode", s.Mode),
		zap.Int("rounds", len(rounds)))
	return s
}
