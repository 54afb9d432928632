package game

import (
	"fmt"

	"github.com/Darkprix/Memora-Duel/internal/log"
)

// DealConfig holds the parameters for starting a match.
type DealConfig struct {
	Pairs         []CardDefinition
	HandSize      int // <= 0 selects min(DefaultHandSize, len(Pairs))
	InitialHealth int // <= 0 selects DefaultInitialHealth
}

func (c DealConfig) withDefaults() DealConfig {
	if c.HandSize <= 0 {
		c.HandSize = min(DefaultHandSize, len(c.Pairs))
	}
	if c.InitialHealth <= 0 {
		c.InitialHealth = DefaultInitialHealth
	}
	return c
}

// Engine is the only mutator of MatchState. Every exported method is a
// complete transition: it validates first, then mutates, then re-checks
// invariants. Engine is not safe for concurrent use; callers serialize.
type Engine struct {
	State  *MatchState
	Logger log.EventLogger
	Notify func(log.GameEvent) // optional, called after Logger for every event
	rng    Random
	match  int
}

// NewEngine creates an engine with no match in progress.
func NewEngine(logger log.EventLogger, rng Random) *Engine {
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	if rng == nil {
		rng = NewRandom(0)
	}
	return &Engine{Logger: logger, rng: rng}
}

// StartGame deals a fresh match and hands the first attack to the opponent.
// On error the previous state is left untouched.
func (e *Engine) StartGame(cfg DealConfig) error {
	cfg = cfg.withDefaults()
	player, opponent, err := BuildHands(cfg.Pairs, cfg.HandSize, e.rng)
	if err != nil {
		return err
	}

	e.match++
	e.State = NewMatchState(e.match, cfg.InitialHealth, player, opponent)
	gs := e.State
	e.log(log.NewDealEvent(gs.Match, gs.Phase.String(), cfg.HandSize, cfg.InitialHealth))

	gs.Phase = PhaseAwaitingAttack
	gs.Turn = SideOpponent
	gs.Message = "Opponent starts..."
	e.log(log.NewTurnHandoffEvent(gs.Match, gs.Phase.String(), int(gs.Turn), "attack"))
	return e.commit()
}

// Apply dispatches an intent to the matching transition.
func (e *Engine) Apply(in Intent) error {
	switch in.Type {
	case IntentAttack:
		return e.Attack(in)
	case IntentDefend:
		return e.Defend(in)
	case IntentPass:
		return e.Pass(in)
	default:
		return illegal(in, "unknown intent type %d", in.Type)
	}
}

// Attack places a card from the attacker's hand on the table.
func (e *Engine) Attack(in Intent) error {
	gs := e.State
	if err := e.expect(in, PhaseAwaitingAttack); err != nil {
		return err
	}
	if gs.Table.Attack != nil {
		return illegal(in, "table already holds %q", gs.Table.Attack.Text)
	}
	p := gs.Player(in.Side)
	card := p.FindInHand(in.CardID)
	if card == nil {
		return illegal(in, "card is not in %s's hand", in.Side)
	}

	p.RemoveFromHand(card)
	gs.Table = TableSlot{Attack: card}
	gs.Attacker = in.Side
	gs.Turn = in.Side.Other()
	gs.Phase = PhaseAwaitingDefense
	e.log(log.NewAttackEvent(gs.Match, gs.Phase.String(), int(in.Side), card.Text))

	// A last card still has to be answered: the attacker's win for an
	// empty hand is decided when the table clears.
	if gs.Turn == SidePlayer {
		gs.Message = "Your turn! Find the answer."
	} else {
		gs.Message = "Opponent is answering..."
	}
	e.log(log.NewTurnHandoffEvent(gs.Match, gs.Phase.String(), int(gs.Turn), "defend"))
	return e.commit()
}

// Defend answers the table's attack card. A match grants the defender the
// next attack; a mismatch costs one health and starts the forced correction.
func (e *Engine) Defend(in Intent) error {
	gs := e.State
	if err := e.expectDefense(in); err != nil {
		return err
	}
	p := gs.Player(in.Side)
	card := p.FindInHand(in.CardID)
	if card == nil {
		return illegal(in, "card is not in %s's hand", in.Side)
	}
	attack := gs.Table.Attack
	if card.PairID == attack.PairID && card.Role == attack.Role {
		return invariant("pair %d dealt %q and %q with the same role", card.PairID, attack.Text, card.Text)
	}

	p.RemoveFromHand(card)
	gs.Table.Resolution = card

	if card.Matches(attack) {
		gs.Table.Status = StatusCorrect
		gs.Phase = PhaseResolving
		gs.Pending = &Resolution{Defender: in.Side, Correct: true}
		e.log(log.NewCorrectEvent(gs.Match, gs.Phase.String(), int(in.Side), card.Text, attack.Text))
		if p.HandCount() == 0 {
			e.finishWinner(in.Side, "answered every card")
			return e.commit()
		}
		if in.Side == SidePlayer {
			gs.Message = "Great! Correct answer."
		} else {
			gs.Message = "Opponent found the answer!"
		}
		return e.commit()
	}

	gs.Table.Status = StatusWrong
	gs.Phase = PhaseResolving
	gs.Pending = &Resolution{Defender: in.Side, RevealDue: true}
	e.log(log.NewWrongEvent(gs.Match, gs.Phase.String(), int(in.Side), card.Text, attack.Text))
	gs.Message = "Wrong! Here comes the right answer..."
	e.damage(in.Side)
	return e.commit()
}

// Pass declines to answer. It resolves like a wrong answer without
// discarding a hand card.
func (e *Engine) Pass(in Intent) error {
	gs := e.State
	if err := e.expectDefense(in); err != nil {
		return err
	}

	gs.Table.Status = StatusWrong
	gs.Phase = PhaseResolving
	gs.Pending = &Resolution{Defender: in.Side, RevealDue: true}
	e.log(log.NewPassEvent(gs.Match, gs.Phase.String(), int(in.Side), gs.Table.Attack.Text))
	if in.Side == SideOpponent {
		gs.Message = "Opponent missed! Your chance."
	} else {
		gs.Message = "No answer..."
	}
	e.damage(in.Side)
	return e.commit()
}

// Settle advances a judgment by one step: the forced reveal after a miss,
// then clearing the table and handing over the attack right.
func (e *Engine) Settle() error {
	gs := e.State
	if gs == nil || gs.Phase != PhaseResolving || gs.Pending == nil {
		return fmt.Errorf("%w: nothing to settle", ErrIllegalMove)
	}
	res := gs.Pending
	defender := gs.Player(res.Defender)
	attack := gs.Table.Attack

	if res.RevealDue {
		res.RevealDue = false
		if match := defender.MatchFor(attack); match != nil {
			if gs.Table.Resolution != nil {
				defender.SendToDiscard(gs.Table.Resolution)
			}
			defender.RemoveFromHand(match)
			gs.Table.Resolution = match
			gs.Table.Status = StatusCorrect
			gs.Message = "Here is the right answer!"
			e.log(log.NewRevealEvent(gs.Match, gs.Phase.String(), int(res.Defender), match.Text))
			return e.commit()
		}
		if !gs.discarded(attack) {
			return invariant("%s holds no answer to %q and none was discarded", res.Defender, attack.Text)
		}
	}

	// Clear the table.
	gs.Player(gs.Attacker).SendToDiscard(attack)
	if gs.Table.Resolution != nil {
		defender.SendToDiscard(gs.Table.Resolution)
	}
	gs.Table = TableSlot{}
	gs.Pending = nil
	e.log(log.NewTableClearedEvent(gs.Match, gs.Phase.String()))

	attacker := gs.Attacker
	next := attacker
	if res.Correct {
		next = res.Defender
	}
	gs.Turn = next
	gs.Phase = PhaseAwaitingAttack

	switch {
	case gs.Player(attacker).HandCount() == 0 && gs.Player(attacker).Health < defender.Health:
		e.finishByHealth("played every card")
		return e.commit()
	case gs.Player(attacker).HandCount() == 0:
		e.finishWinner(attacker, "played every card")
		return e.commit()
	case !res.Correct && defender.HandCount() == 0:
		e.finishByHealth("no cards left")
		return e.commit()
	}

	if next == SidePlayer {
		gs.Message = "Your turn to attack."
	} else {
		gs.Message = "Opponent attacks..."
	}
	gs.Attacker = next
	e.log(log.NewTurnHandoffEvent(gs.Match, gs.Phase.String(), int(next), "attack"))
	return e.commit()
}

// Thinking announces that side is deciding on a defense. It changes only
// the status message and does not count as a transition.
func (e *Engine) Thinking(side Side) {
	gs := e.State
	if gs == nil || gs.Phase != PhaseAwaitingDefense || gs.Turn != side {
		return
	}
	if side == SideOpponent {
		gs.Message = "Opponent is thinking..."
	} else {
		gs.Message = "Thinking..."
	}
	e.log(log.NewAIThinkingEvent(gs.Match, gs.Phase.String()))
}

// expect validates phase and turn for an intent.
func (e *Engine) expect(in Intent, phase Phase) error {
	gs := e.State
	if !in.Side.valid() {
		return illegal(in, "unknown side %d", in.Side)
	}
	if gs == nil {
		return illegal(in, "no match in progress")
	}
	if gs.Phase != phase {
		return illegal(in, "phase is %s", gs.Phase)
	}
	if gs.Turn != in.Side {
		return illegal(in, "it is %s's turn", gs.Turn)
	}
	return nil
}

func (e *Engine) expectDefense(in Intent) error {
	if err := e.expect(in, PhaseAwaitingDefense); err != nil {
		return err
	}
	if e.State.Table.Attack == nil {
		return illegal(in, "no attack card on the table")
	}
	return nil
}

// damage removes one health from side and ends the match at zero.
func (e *Engine) damage(side Side) {
	gs := e.State
	p := gs.Player(side)
	if p.Health == 0 {
		return
	}
	old := p.Health
	p.Health--
	e.log(log.NewHealthChangeEvent(gs.Match, gs.Phase.String(), int(side), old, p.Health))
	if p.Health == 0 {
		e.finishByHealth(fmt.Sprintf("%s ran out of health", side))
	}
}

// finishWinner ends the match in favour of side. Emptying a hand by a correct
// answer, or by a legal attack without a health deficit, takes precedence
// over the health comparison.
func (e *Engine) finishWinner(side Side, reason string) {
	gs := e.State
	gs.Phase = PhaseFinished
	gs.Pending = nil
	if side == SidePlayer {
		gs.Outcome = OutcomeWin
	} else {
		gs.Outcome = OutcomeLoss
	}
	gs.Result = fmt.Sprintf("%s wins: %s", side, reason)
	gs.Message = gs.Result
	e.log(log.NewWinEvent(gs.Match, gs.Phase.String(), int(side), reason))
}

// finishByHealth ends the match by comparing remaining health.
func (e *Engine) finishByHealth(reason string) {
	gs := e.State
	ph, oh := gs.PlayerHealth(), gs.OpponentHealth()
	switch {
	case ph > oh:
		e.finishWinner(SidePlayer, fmt.Sprintf("%s, %d to %d health", reason, ph, oh))
	case oh > ph:
		e.finishWinner(SideOpponent, fmt.Sprintf("%s, %d to %d health", reason, oh, ph))
	default:
		gs.Phase = PhaseFinished
		gs.Pending = nil
		gs.Outcome = OutcomeDraw
		gs.Result = fmt.Sprintf("Draw: %s, %d health each", reason, ph)
		gs.Message = gs.Result
		e.log(log.NewDrawEvent(gs.Match, gs.Phase.String(), reason))
	}
}

// commit closes a transition.
func (e *Engine) commit() error {
	e.State.Transition++
	return e.State.CheckInvariants()
}

// Snapshot returns a read-only copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return e.State.Snapshot()
}

// log emits an event through the logger and the notify hook.
func (e *Engine) log(event log.GameEvent) {
	e.Logger.Log(event)
	if e.Notify != nil {
		e.Notify(event)
	}
}
