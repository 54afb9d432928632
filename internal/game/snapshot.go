package game

// Snapshot is a read-only copy of MatchState for renderers and the AI.
type Snapshot struct {
	Match          int
	Transition     int
	Phase          Phase
	Turn           Side
	Attacker       Side
	PlayerHealth   int
	OpponentHealth int
	InitialHealth  int
	PlayerHand     []Card
	OpponentHand   []Card
	Attack         *Card
	Resolution     *Card
	Status         CardStatus
	Pending        *Resolution
	DiscardCount   [2]int
	Outcome        Outcome
	Result         string
	Message        string
}

// Hand returns the given side's hand.
func (s Snapshot) Hand(side Side) []Card {
	if side == SideOpponent {
		return s.OpponentHand
	}
	return s.PlayerHand
}

// Health returns the given side's health.
func (s Snapshot) Health(side Side) int {
	if side == SideOpponent {
		return s.OpponentHealth
	}
	return s.PlayerHealth
}

// AwaitingDecision reports whether side is expected to submit the next intent.
func (s Snapshot) AwaitingDecision(side Side) bool {
	return (s.Phase == PhaseAwaitingAttack || s.Phase == PhaseAwaitingDefense) && s.Turn == side
}

// Over reports whether the match has finished.
func (s Snapshot) Over() bool {
	return s.Phase == PhaseFinished
}

// Snapshot copies the state. A nil state yields an empty PhaseNone snapshot.
func (ms *MatchState) Snapshot() Snapshot {
	if ms == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		Match:          ms.Match,
		Transition:     ms.Transition,
		Phase:          ms.Phase,
		Turn:           ms.Turn,
		Attacker:       ms.Attacker,
		PlayerHealth:   ms.PlayerHealth(),
		OpponentHealth: ms.OpponentHealth(),
		InitialHealth:  ms.InitialHealth,
		PlayerHand:     copyCards(ms.Players[SidePlayer].Hand),
		OpponentHand:   copyCards(ms.Players[SideOpponent].Hand),
		Attack:         copyCard(ms.Table.Attack),
		Resolution:     copyCard(ms.Table.Resolution),
		Status:         ms.Table.Status,
		DiscardCount:   [2]int{len(ms.Players[SidePlayer].Discard), len(ms.Players[SideOpponent].Discard)},
		Outcome:        ms.Outcome,
		Result:         ms.Result,
		Message:        ms.Message,
	}
	if ms.Pending != nil {
		p := *ms.Pending
		snap.Pending = &p
	}
	return snap
}

func copyCards(cards []*Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = *c
	}
	return out
}

func copyCard(c *Card) *Card {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
