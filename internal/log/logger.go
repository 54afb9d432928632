package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging duel events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.record(event)
}

func (l *MemoryLogger) record(event GameEvent) GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	return event
}

// Events returns a copy of all recorded events.
func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	event = l.MemoryLogger.record(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// SideName returns "Player" or "Opponent" for display.
func SideName(side int) string {
	if side == SideOpponent {
		return "Opponent"
	}
	return "Player"
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	// Pad phase to 18 chars for alignment
	for len(phase) < 18 {
		phase += " "
	}
	return fmt.Sprintf("M%-2d %s| %s", e.Match, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewDealEvent(match int, phase string, handSize, health int) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    SideOpponent,
		Type:    EventDeal,
		Details: fmt.Sprintf("=== Match %d: %d cards each, %d health (Opponent starts) ===", match, handSize, health),
	}
}

func NewAttackEvent(match int, phase string, side int, card string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    side,
		Type:    EventAttack,
		Card:    card,
		Details: fmt.Sprintf("%s attacks with %q", SideName(side), card),
	}
}

func NewCorrectEvent(match int, phase string, side int, card, attack string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    side,
		Type:    EventCorrect,
		Card:    card,
		Details: fmt.Sprintf("%s answers %q with %q: correct", SideName(side), attack, card),
	}
}

func NewWrongEvent(match int, phase string, side int, card, attack string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    side,
		Type:    EventWrong,
		Card:    card,
		Details: fmt.Sprintf("%s answers %q with %q: wrong", SideName(side), attack, card),
	}
}

func NewPassEvent(match int, phase string, side int, attack string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    side,
		Type:    EventPass,
		Details: fmt.Sprintf("%s cannot answer %q", SideName(side), attack),
	}
}

func NewRevealEvent(match int, phase string, side int, card string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    side,
		Type:    EventReveal,
		Card:    card,
		Details: fmt.Sprintf("The right answer was %q", card),
	}
}

func NewHealthChangeEvent(match int, phase string, side int, oldHealth, newHealth int) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    side,
		Type:    EventHealthChange,
		Details: fmt.Sprintf("%s health: %d → %d", SideName(side), oldHealth, newHealth),
	}
}

func NewTableClearedEvent(match int, phase string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Type:    EventTableCleared,
		Details: "Table cleared",
	}
}

func NewTurnHandoffEvent(match int, phase string, side int, action string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    side,
		Type:    EventTurnHandoff,
		Details: fmt.Sprintf("%s to %s", SideName(side), action),
	}
}

func NewAIThinkingEvent(match int, phase string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    SideOpponent,
		Type:    EventAIThinking,
		Details: "Opponent is thinking...",
	}
}

func NewWinEvent(match int, phase string, winner int, reason string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Side:    winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", SideName(winner), reason),
	}
}

func NewDrawEvent(match int, phase string, reason string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Type:    EventDraw,
		Details: fmt.Sprintf("Draw (%s)", reason),
	}
}

func NewAbortedEvent(match int, phase string, reason string) GameEvent {
	return GameEvent{
		Match:   match,
		Phase:   phase,
		Type:    EventAborted,
		Details: fmt.Sprintf("Match aborted: %s", reason),
	}
}

func NewMenuEvent(match int) GameEvent {
	return GameEvent{
		Match:   match,
		Type:    EventMenu,
		Details: "Back to menu",
	}
}
