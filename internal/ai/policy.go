// Package ai decides the opponent's intents.
package ai

import (
	"github.com/Darkprix/Memora-Duel/internal/game"
)

// DefaultAccuracy is the chance the opponent plays a matching card it holds.
const DefaultAccuracy = 0.9

// Brain is the decision interface the session drives. It reads snapshots
// only and never touches match state.
type Brain interface {
	// ChooseAttack picks a card to attack with. ok is false when the
	// snapshot offers nothing to attack with.
	ChooseAttack(snap game.Snapshot, side game.Side) (in game.Intent, ok bool)
	// ChooseDefense answers the table's attack card, or passes.
	ChooseDefense(snap game.Snapshot, side game.Side) game.Intent
	// Name returns a human-readable identifier for debugging.
	Name() string
}

// Policy attacks with a uniformly random card and answers correctly with
// probability Accuracy. A miss is a pass.
type Policy struct {
	Accuracy float64
	rng      game.Random
}

// NewPolicy creates a policy. Accuracy outside [0, 1] is clamped.
func NewPolicy(accuracy float64, rng game.Random) *Policy {
	if rng == nil {
		rng = game.NewRandom(0)
	}
	return &Policy{Accuracy: min(max(accuracy, 0), 1), rng: rng}
}

func (p *Policy) Name() string { return "policy" }

func (p *Policy) ChooseAttack(snap game.Snapshot, side game.Side) (game.Intent, bool) {
	hand := snap.Hand(side)
	if snap.Attack != nil || len(hand) == 0 {
		return game.Intent{}, false
	}
	card := hand[p.rng.Intn(len(hand))]
	return game.Intent{Type: game.IntentAttack, Side: side, CardID: card.ID}, true
}

func (p *Policy) ChooseDefense(snap game.Snapshot, side game.Side) game.Intent {
	miss := game.Intent{Type: game.IntentPass, Side: side}
	if snap.Attack == nil {
		return miss
	}
	match := FindMatch(snap.Hand(side), snap.Attack)
	if match == nil {
		return miss
	}
	if p.rng.Float64() >= p.Accuracy {
		return miss
	}
	return game.Intent{Type: game.IntentDefend, Side: side, CardID: match.ID}
}

// FindMatch returns the first card in hand that answers attack.
func FindMatch(hand []game.Card, attack *game.Card) *game.Card {
	for i := range hand {
		if hand[i].Matches(attack) {
			return &hand[i]
		}
	}
	return nil
}
