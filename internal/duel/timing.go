package duel

import "time"

// Screen is the top-level presentation state.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenGame
	ScreenResult
)

func (s Screen) String() string {
	switch s {
	case ScreenGame:
		return "game"
	case ScreenResult:
		return "result"
	default:
		return "menu"
	}
}

// Timing holds the delays between scheduled steps.
type Timing struct {
	AIThink       time.Duration // before the opponent attacks or starts thinking about a defense
	AIDefense     time.Duration // between "thinking" and the opponent's answer
	CorrectHold   time.Duration // player's correct answer stays on the table
	AICorrectHold time.Duration // opponent's correct answer stays on the table
	RevealDelay   time.Duration // rejected answer shown before the correct one is revealed
	RevealHold    time.Duration // revealed answer stays on the table
}

// DefaultTiming returns the standard pacing.
func DefaultTiming() Timing {
	return Timing{
		AIThink:       1500 * time.Millisecond,
		AIDefense:     1000 * time.Millisecond,
		CorrectHold:   1000 * time.Millisecond,
		AICorrectHold: 1500 * time.Millisecond,
		RevealDelay:   1400 * time.Millisecond,
		RevealHold:    2000 * time.Millisecond,
	}
}

// Instant returns a timing with every delay zero.
func Instant() Timing {
	return Timing{}
}
