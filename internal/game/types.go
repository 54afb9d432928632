package game

import (
	"fmt"

	"github.com/google/uuid"
)

// --- Enums ---

// Side identifies one of the two participants. Values double as indexes
// into MatchState.Players and match log.SidePlayer / log.SideOpponent.
type Side int

const (
	SidePlayer Side = iota
	SideOpponent
)

func (s Side) String() string {
	if s == SideOpponent {
		return "Opponent"
	}
	return "Player"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

func (s Side) valid() bool {
	return s == SidePlayer || s == SideOpponent
}

type Role int

const (
	RolePrompt Role = iota
	RoleAnswer
)

func (r Role) String() string {
	if r == RoleAnswer {
		return "Answer"
	}
	return "Prompt"
}

// Phase is the engine's state-machine position.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseDealt
	PhaseAwaitingAttack
	PhaseAwaitingDefense
	PhaseResolving
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseDealt:
		return "Dealt"
	case PhaseAwaitingAttack:
		return "Awaiting Attack"
	case PhaseAwaitingDefense:
		return "Awaiting Defense"
	case PhaseResolving:
		return "Resolving"
	case PhaseFinished:
		return "Finished"
	default:
		return "None"
	}
}

// Outcome is the match result from the player's perspective.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "Win"
	case OutcomeLoss:
		return "Loss"
	case OutcomeDraw:
		return "Draw"
	default:
		return "None"
	}
}

// CardStatus is the judgment shown on the table while resolving.
type CardStatus int

const (
	StatusNormal CardStatus = iota
	StatusWrong
	StatusCorrect
)

func (s CardStatus) String() string {
	switch s {
	case StatusWrong:
		return "wrong"
	case StatusCorrect:
		return "correct"
	default:
		return "normal"
	}
}

// --- Card definition (static, from a content set) ---

// CardDefinition is one matchable prompt/answer pair.
type CardDefinition struct {
	ID     int
	Prompt string
	Answer string
}

// --- Card (runtime instance in a hand, on the table, or discarded) ---

type Card struct {
	ID     uuid.UUID
	PairID int
	Text   string
	Role   Role
	Owner  Side // side the card was dealt to
}

func (c *Card) String() string {
	if c == nil {
		return "(empty)"
	}
	return c.Text
}

// Matches reports whether c and other form a matching pair.
func (c *Card) Matches(other *Card) bool {
	return c != nil && other != nil && c.PairID == other.PairID && c.Role != other.Role
}

// --- Intents ---

type IntentType int

const (
	IntentAttack IntentType = iota
	IntentDefend
	IntentPass
)

func (t IntentType) String() string {
	switch t {
	case IntentAttack:
		return "Attack"
	case IntentDefend:
		return "Defend"
	case IntentPass:
		return "Pass"
	default:
		return "Unknown"
	}
}

// Intent is a request to change match state, submitted by the input layer
// or the AI policy. CardID is ignored for IntentPass.
type Intent struct {
	Type   IntentType
	Side   Side
	CardID uuid.UUID
}

func (i Intent) String() string {
	if i.Type == IntentPass {
		return fmt.Sprintf("%s %s", i.Side, i.Type)
	}
	return fmt.Sprintf("%s %s %s", i.Side, i.Type, i.CardID)
}

// Resolution describes the judgment in progress while the phase is PhaseResolving.
type Resolution struct {
	Defender  Side
	Correct   bool
	RevealDue bool // forced correction not yet shown
}
