package lesson

import (
	"errors"
	"fmt"
)

// Kind identifies a registered game. The string value is the key used for
// the game in lesson catalogs.
type Kind string

const (
	KindFlashcard       Kind = "FlashcardLearning"
	KindSentenceBuilder Kind = "SentenceBuilder"
	KindTileMatching    Kind = "TileMatchingGame"
	KindDialogue        Kind = "TwoPeopleInteraction"
)

// DefaultMaxTiles is the number of tiles a tile matching round keeps.
const DefaultMaxTiles = 6

var kindOrder = []Kind{KindFlashcard, KindSentenceBuilder, KindTileMatching, KindDialogue}

// Policy is the per-kind pruning and replay behaviour.
type Policy struct {
	// SingleItem keeps one random entry of data.items per variation.
	SingleItem bool `json:"singleItem" yaml:"single_item"`
	// Replayable rounds are queued for replay when they fail.
	Replayable bool `json:"replayable" yaml:"replayable"`
	// TilePairs enables tile pair pruning down to MaxTiles tiles.
	TilePairs bool `json:"tilePairs" yaml:"tile_pairs"`
	MaxTiles  int  `json:"maxTiles,omitempty" yaml:"max_tiles"`
}

var defaultPolicies = map[Kind]Policy{
	KindFlashcard:       {SingleItem: true, Replayable: true},
	KindSentenceBuilder: {SingleItem: true, Replayable: true},
	KindTileMatching:    {Replayable: false, TilePairs: true, MaxTiles: DefaultMaxTiles},
	KindDialogue:        {Replayable: true},
}

// unknownPolicy applies to kinds missing from the registry: the round is
// played as authored and may be replayed.
var unknownPolicy = Policy{Replayable: true}

// ErrUnknownKind is returned when a policy override names an unregistered kind.
var ErrUnknownKind = errors.New("unknown game kind")

// Kinds returns every registered kind in registration order.
func Kinds() []Kind {
	return append([]Kind(nil), kindOrder...)
}

// Known reports whether k is a registered kind.
func (k Kind) Known() bool {
	_, ok := defaultPolicies[k]
	return ok
}

func (k Kind) String() string { return string(k) }

// Registry holds the policy table used by a Builder and its sessions.
type Registry struct {
	policies map[Kind]Policy
}

// DefaultRegistry returns a registry populated with the built-in policies.
func DefaultRegistry() *Registry {
	policies := make(map[Kind]Policy, len(defaultPolicies))
	for k, p := range defaultPolicies {
		policies[k] = p
	}
	return &Registry{policies: policies}
}

// Policy returns the policy for k. Unregistered kinds get a pass-through
// policy rather than an error.
func (r *Registry) Policy(k Kind) Policy {
	if r == nil {
		r = DefaultRegistry()
	}
	if p, ok := r.policies[k]; ok {
		return p
	}
	return unknownPolicy
}

// Override replaces the policy of a registered kind. Tile pair pruning can
// only be tuned, not switched on or off, since it depends on the payload shape.
func (r *Registry) Override(k Kind, p Policy) error {
	current, ok := r.policies[k]
	if !ok {
		return fmt.Errorf("override %q: %w", k, ErrUnknownKind)
	}
	p.TilePairs = current.TilePairs
	if !p.TilePairs {
		p.MaxTiles = 0
	} else if p.MaxTiles <= 0 {
		return fmt.Errorf("override %q: max tiles must be positive, got %d", k, p.MaxTiles)
	}
	r.policies[k] = p
	return nil
}
