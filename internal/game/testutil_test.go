package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Darkprix/Memora-Duel/internal/log"
)

// testPairs returns n pairs "Q1"/"A1" ... "Qn"/"An" with ids 1..n.
func testPairs(n int) []CardDefinition {
	pairs := make([]CardDefinition, n)
	for i := range pairs {
		pairs[i] = CardDefinition{
			ID:     i + 1,
			Prompt: fmt.Sprintf("Q%d", i+1),
			Answer: fmt.Sprintf("A%d", i+1),
		}
	}
	return pairs
}

// newTestEngine deals n pairs with a scripted random source. With no coin
// values queued the player holds every prompt and the opponent every
// answer, both in pair order.
func newTestEngine(t *testing.T, n, health int, coins ...int) (*Engine, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	e := NewEngine(logger, &ScriptedRandom{Ints: coins})
	if err := e.StartGame(DealConfig{Pairs: testPairs(n), HandSize: n, InitialHealth: health}); err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	return e, logger
}

// handCard finds a card by text in side's hand.
func handCard(t *testing.T, e *Engine, side Side, text string) *Card {
	t.Helper()
	for _, c := range e.State.Player(side).Hand {
		if c.Text == text {
			return c
		}
	}
	t.Fatalf("%s has no %q in hand", side, text)
	return nil
}

func attackWith(t *testing.T, e *Engine, side Side, text string) {
	t.Helper()
	c := handCard(t, e, side, text)
	if err := e.Apply(Intent{Type: IntentAttack, Side: side, CardID: c.ID}); err != nil {
		t.Fatalf("%s attack %s: %v", side, text, err)
	}
}

func defendWith(t *testing.T, e *Engine, side Side, text string) {
	t.Helper()
	c := handCard(t, e, side, text)
	if err := e.Apply(Intent{Type: IntentDefend, Side: side, CardID: c.ID}); err != nil {
		t.Fatalf("%s defend %s: %v", side, text, err)
	}
}

func pass(t *testing.T, e *Engine, side Side) {
	t.Helper()
	if err := e.Apply(Intent{Type: IntentPass, Side: side}); err != nil {
		t.Fatalf("%s pass: %v", side, err)
	}
}

// settleAll runs Settle until the engine leaves PhaseResolving.
func settleAll(t *testing.T, e *Engine) {
	t.Helper()
	for i := 0; e.State.Phase == PhaseResolving; i++ {
		if i > 3 {
			t.Fatal("resolution did not settle")
		}
		if err := e.Settle(); err != nil {
			t.Fatalf("Settle: %v", err)
		}
	}
}

func expectIllegal(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

func expectPhase(t *testing.T, e *Engine, want Phase) {
	t.Helper()
	if e.State.Phase != want {
		t.Fatalf("expected phase %s, got %s", want, e.State.Phase)
	}
}

func handTexts(cards []*Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Text
	}
	return out
}
