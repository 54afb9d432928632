package log

// EventType enumerates all observable duel events.
type EventType int

const (
	EventDeal EventType = iota
	EventAttack
	EventCorrect
	EventWrong
	EventPass
	EventReveal
	EventHealthChange
	EventTableCleared
	EventTurnHandoff
	EventAIThinking
	EventWin
	EventDraw
	EventAborted
	EventMenu
)

func (e EventType) String() string {
	switch e {
	case EventDeal:
		return "Deal"
	case EventAttack:
		return "Attack"
	case EventCorrect:
		return "Correct"
	case EventWrong:
		return "Wrong"
	case EventPass:
		return "Pass"
	case EventReveal:
		return "Reveal"
	case EventHealthChange:
		return "HealthChange"
	case EventTableCleared:
		return "TableCleared"
	case EventTurnHandoff:
		return "TurnHandoff"
	case EventAIThinking:
		return "AIThinking"
	case EventWin:
		return "Win"
	case EventDraw:
		return "Draw"
	case EventAborted:
		return "Aborted"
	case EventMenu:
		return "Menu"
	default:
		return "Unknown"
	}
}

// Side indexes used in events. They mirror game.SidePlayer and game.SideOpponent;
// this package cannot import game.
const (
	SidePlayer   = 0
	SideOpponent = 1
)

// GameEvent represents a single observable event in a duel.
type GameEvent struct {
	Seq     int       // monotonic sequence number, assigned by the logger
	Match   int       // which match (1-based) the event belongs to
	Phase   string    // phase name after the event
	Side    int       // acting side (SidePlayer or SideOpponent)
	Type    EventType // event type
	Card    string    // card text (if applicable)
	Details string    // human-readable detail string
}
