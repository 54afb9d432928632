package game

import (
	"github.com/google/uuid"
)

const (
	DefaultInitialHealth = 5
	DefaultHandSize      = 8
)

// Player represents one side's entire state.
type Player struct {
	Health  int
	Hand    []*Card
	Discard []*Card
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// FindInHand returns the hand card with the given instance ID, or nil.
func (p *Player) FindInHand(id uuid.UUID) *Card {
	for _, c := range p.Hand {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// MatchFor returns the first hand card that answers the given card, or nil.
func (p *Player) MatchFor(card *Card) *Card {
	for _, c := range p.Hand {
		if c.Matches(card) {
			return c
		}
	}
	return nil
}

// RemoveFromHand removes a card from the hand by instance ID.
func (p *Player) RemoveFromHand(card *Card) {
	for i, c := range p.Hand {
		if c.ID == card.ID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// SendToDiscard moves a card to the discard pile.
func (p *Player) SendToDiscard(card *Card) {
	p.Discard = append(p.Discard, card)
}

// TableSlot holds the pending attack card and the transient resolution card.
type TableSlot struct {
	Attack     *Card
	Resolution *Card
	Status     CardStatus
}

// Empty reports whether nothing is on the table.
func (t TableSlot) Empty() bool {
	return t.Attack == nil && t.Resolution == nil
}

// --- MatchState ---

// MatchState holds the complete state of one match.
type MatchState struct {
	Match         int // 1-based match counter within an engine
	Transition    int // incremented on every accepted transition
	Players       [2]*Player
	InitialHealth int
	Turn          Side // side owed the next action
	Attacker      Side // side whose card is on the table
	Phase         Phase
	Table         TableSlot
	Pending       *Resolution
	Pairs         []int // dealt pair IDs

	Outcome Outcome
	Result  string
	Message string
}

// NewMatchState creates a freshly dealt match.
func NewMatchState(match, health int, player, opponent []*Card) *MatchState {
	ms := &MatchState{
		Match: match,
		Players: [2]*Player{
			{Health: health, Hand: player},
			{Health: health, Hand: opponent},
		},
		InitialHealth: health,
		Turn:          SideOpponent,
		Attacker:      SideOpponent,
		Phase:         PhaseDealt,
	}
	for _, c := range player {
		ms.Pairs = append(ms.Pairs, c.PairID)
	}
	return ms
}

// Player returns the state of one side.
func (ms *MatchState) Player(side Side) *Player {
	return ms.Players[side]
}

func (ms *MatchState) PlayerHealth() int {
	return ms.Players[SidePlayer].Health
}

func (ms *MatchState) OpponentHealth() int {
	return ms.Players[SideOpponent].Health
}

// Over reports whether the match has finished.
func (ms *MatchState) Over() bool {
	return ms.Phase == PhaseFinished
}

// allCards lists every card in the match with its container name.
func (ms *MatchState) allCards() map[string][]*Card {
	return map[string][]*Card{
		"player hand":      ms.Players[SidePlayer].Hand,
		"opponent hand":    ms.Players[SideOpponent].Hand,
		"player discard":   ms.Players[SidePlayer].Discard,
		"opponent discard": ms.Players[SideOpponent].Discard,
		"table attack":     nonNil(ms.Table.Attack),
		"table resolution": nonNil(ms.Table.Resolution),
	}
}

func nonNil(c *Card) []*Card {
	if c == nil {
		return nil
	}
	return []*Card{c}
}

// CheckInvariants verifies card ownership, table shape, pair integrity and
// health bounds. It returns an error wrapping ErrInvariantViolation.
func (ms *MatchState) CheckInvariants() error {
	seen := make(map[uuid.UUID]string)
	type roles struct{ prompt, answer int }
	perPair := make(map[int]*roles)
	for _, id := range ms.Pairs {
		perPair[id] = &roles{}
	}

	for where, cards := range ms.allCards() {
		for _, c := range cards {
			if prev, dup := seen[c.ID]; dup {
				return invariant("card %s is in both %s and %s", c.ID, prev, where)
			}
			seen[c.ID] = where
			r, ok := perPair[c.PairID]
			if !ok {
				return invariant("card %q (%s) belongs to undealt pair %d", c.Text, where, c.PairID)
			}
			if c.Role == RolePrompt {
				r.prompt++
			} else {
				r.answer++
			}
		}
	}
	for id, r := range perPair {
		if r.prompt != 1 || r.answer != 1 {
			return invariant("pair %d has %d prompts and %d answers", id, r.prompt, r.answer)
		}
	}

	if ms.Table.Resolution != nil && ms.Table.Attack == nil {
		return invariant("resolution card %q without an attack card", ms.Table.Resolution.Text)
	}

	for side, p := range ms.Players {
		if p.Health < 0 || p.Health > ms.InitialHealth {
			return invariant("%s health %d outside [0, %d]", Side(side), p.Health, ms.InitialHealth)
		}
	}
	return nil
}

// discarded reports whether a card matching the given one sits in either discard pile.
func (ms *MatchState) discarded(card *Card) bool {
	for _, p := range ms.Players {
		for _, c := range p.Discard {
			if c.Matches(card) {
				return true
			}
		}
	}
	return false
}
