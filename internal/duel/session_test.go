package duel

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Darkprix/Memora-Duel/internal/ai"
	"github.com/Darkprix/Memora-Duel/internal/game"
	"github.com/Darkprix/Memora-Duel/internal/log"
	"github.com/Darkprix/Memora-Duel/internal/sched"
)

type harness struct {
	t      *testing.T
	s      *Session
	clock  *sched.ManualClock
	logger *log.MemoryLogger
}

// newHarness deals n pairs so that the player holds Q1..Qn and the
// opponent A1..An, in order. rolls feed the opponent's hit/miss draws.
func newHarness(t *testing.T, n, health int, rolls ...float64) *harness {
	t.Helper()
	clock := sched.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	logger := log.NewMemoryLogger()
	s := NewSession(Config{
		Timing:    DefaultTiming(),
		Logger:    logger,
		Random:    &game.ScriptedRandom{},
		Brain:     ai.NewPolicy(ai.DefaultAccuracy, &game.ScriptedRandom{Floats: rolls}),
		Scheduler: sched.New(clock),
	})

	pairs := make([]game.CardDefinition, n)
	for i := range pairs {
		pairs[i] = game.CardDefinition{ID: i + 1, Prompt: fmt.Sprintf("Q%d", i+1), Answer: fmt.Sprintf("A%d", i+1)}
	}
	if err := s.Start(game.DealConfig{Pairs: pairs, HandSize: n, InitialHealth: health}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return &harness{t: t, s: s, clock: clock, logger: logger}
}

func (h *harness) advance(d time.Duration) {
	sched.Advance(h.s.Scheduler(), h.clock, d)
}

func (h *harness) snap() game.Snapshot {
	snap, _ := h.s.Snapshot()
	return snap
}

func (h *harness) card(text string) uuid.UUID {
	h.t.Helper()
	for _, c := range h.snap().PlayerHand {
		if c.Text == text {
			return c.ID
		}
	}
	h.t.Fatalf("player has no %q", text)
	return uuid.Nil
}

func (h *harness) count(t log.EventType) int {
	return len(h.logger.EventsOfType(t))
}

func TestOpponentAttacksAfterThinking(t *testing.T) {
	h := newHarness(t, 3, 5)

	h.advance(1400 * time.Millisecond)
	if h.count(log.EventAttack) != 0 {
		t.Fatal("opponent attacked too early")
	}
	h.advance(100 * time.Millisecond)
	snap := h.snap()
	if snap.Attack == nil || snap.Attack.Text != "A1" {
		t.Fatalf("expected A1 on the table, got %v", snap.Attack)
	}
	if !snap.AwaitingDecision(game.SidePlayer) {
		t.Fatal("player should owe a defense")
	}
}

// Scenario C: the opponent misses, loses one health, and the attack comes
// back to the player once the reveal has played out.
func TestOpponentMissReturnsAttackToPlayer(t *testing.T) {
	h := newHarness(t, 3, 5, 0.95)

	h.advance(1500 * time.Millisecond)
	if err := h.s.SubmitPlay(game.SidePlayer, h.card("Q1")); err != nil {
		t.Fatal(err)
	}
	h.advance(time.Second) // correct hold
	if !h.snap().AwaitingDecision(game.SidePlayer) || h.snap().Phase != game.PhaseAwaitingAttack {
		t.Fatalf("player should attack, got %s/%s", h.snap().Phase, h.snap().Turn)
	}

	if err := h.s.SubmitPlay(game.SidePlayer, h.card("Q2")); err != nil {
		t.Fatal(err)
	}
	h.advance(1500 * time.Millisecond)
	if h.count(log.EventAIThinking) != 1 || h.snap().Message != "Opponent is thinking..." {
		t.Fatal("expected the opponent to start thinking")
	}
	h.advance(time.Second)
	if h.count(log.EventPass) != 1 {
		t.Fatal("expected the opponent to miss")
	}
	if h.snap().OpponentHealth != 4 {
		t.Fatalf("opponent health = %d, want 4", h.snap().OpponentHealth)
	}

	h.advance(1400 * time.Millisecond)
	if h.count(log.EventReveal) != 1 || h.snap().Resolution == nil || h.snap().Resolution.Text != "A2" {
		t.Fatal("expected A2 to be revealed")
	}
	h.advance(2 * time.Second)
	snap := h.snap()
	if snap.Attack != nil || snap.Resolution != nil {
		t.Fatal("table not cleared")
	}
	if snap.Phase != game.PhaseAwaitingAttack || snap.Turn != game.SidePlayer {
		t.Fatalf("attack should return to the player, got %s/%s", snap.Phase, snap.Turn)
	}
	if h.s.Scheduler().Len() != 0 {
		t.Error("nothing should be scheduled while the player decides")
	}
}

func TestOpponentHitKeepsAttacking(t *testing.T) {
	h := newHarness(t, 3, 5, 0.1)

	h.advance(1500 * time.Millisecond)
	h.s.SubmitPlay(game.SidePlayer, h.card("Q1"))
	h.advance(time.Second)
	h.s.SubmitPlay(game.SidePlayer, h.card("Q2"))

	h.advance(2500 * time.Millisecond)
	if h.count(log.EventCorrect) != 2 {
		t.Fatal("expected the opponent to answer")
	}
	h.advance(1500 * time.Millisecond) // opponent correct hold
	if h.snap().Turn != game.SideOpponent || h.snap().Phase != game.PhaseAwaitingAttack {
		t.Fatal("opponent should hold the attack")
	}
	h.advance(1500 * time.Millisecond)
	if snap := h.snap(); snap.Attack == nil || snap.Attack.Text != "A3" {
		t.Fatalf("expected opponent to attack with A3, got %v", snap.Attack)
	}
}

// Scenario D: the opponent's last health goes on a miss; nothing fires after.
func TestOpponentEliminatedStopsTimers(t *testing.T) {
	h := newHarness(t, 3, 1, 0.95)

	h.advance(1500 * time.Millisecond)
	h.s.SubmitPlay(game.SidePlayer, h.card("Q1"))
	h.advance(time.Second)
	h.s.SubmitPlay(game.SidePlayer, h.card("Q2"))
	h.advance(2500 * time.Millisecond)

	snap, screen := h.s.Snapshot()
	if snap.Phase != game.PhaseFinished || snap.Outcome != game.OutcomeWin {
		t.Fatalf("expected a player win, got %s/%s", snap.Phase, snap.Outcome)
	}
	if screen != ScreenResult {
		t.Fatalf("screen = %s, want result", screen)
	}
	if h.s.Scheduler().Len() != 0 {
		t.Fatalf("%d timers still pending", h.s.Scheduler().Len())
	}
	before := len(h.logger.Events())
	h.advance(time.Minute)
	if len(h.logger.Events()) != before {
		t.Fatal("events after the match finished")
	}
}

func TestReturnToMenuCancelsTimers(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.s.ReturnToMenu()

	if h.s.Screen() != ScreenMenu || h.s.Scheduler().Len() != 0 {
		t.Fatal("menu should cancel the pending attack")
	}
	h.advance(time.Minute)
	if h.count(log.EventAttack) != 0 {
		t.Fatal("stale attack fired")
	}
	if !errors.Is(h.s.SubmitPass(game.SidePlayer), ErrNotPlaying) {
		t.Fatal("intents should be refused on the menu")
	}
}

func TestRestartDropsOldTimers(t *testing.T) {
	h := newHarness(t, 3, 5)
	h.advance(time.Second)

	pairs := []game.CardDefinition{{ID: 1, Prompt: "Q1", Answer: "A1"}, {ID: 2, Prompt: "Q2", Answer: "A2"}}
	if err := h.s.Start(game.DealConfig{Pairs: pairs, HandSize: 2, InitialHealth: 5}); err != nil {
		t.Fatal(err)
	}
	h.advance(time.Second)
	if h.count(log.EventAttack) != 0 {
		t.Fatal("the first match's timer fired")
	}
	h.advance(500 * time.Millisecond)
	attacks := h.logger.EventsOfType(log.EventAttack)
	if len(attacks) != 1 || attacks[0].Match != 2 {
		t.Fatalf("expected one attack in match 2, got %v", attacks)
	}
}

func TestRejectedRestartKeepsMatchRunning(t *testing.T) {
	h := newHarness(t, 3, 5)
	if h.s.Scheduler().Len() != 1 {
		t.Fatalf("pending timers = %d, want 1", h.s.Scheduler().Len())
	}

	err := h.s.Start(game.DealConfig{HandSize: 3})
	if !errors.Is(err, game.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
	if h.s.Scheduler().Len() != 1 || h.s.Screen() != ScreenGame {
		t.Fatalf("rejected deal disturbed the match: timers=%d screen=%v", h.s.Scheduler().Len(), h.s.Screen())
	}

	h.advance(DefaultTiming().AIThink)
	snap := h.snap()
	if snap.Match != 1 || snap.Phase != game.PhaseAwaitingDefense || snap.Attack == nil {
		t.Fatalf("opponent did not attack after the rejected deal: %+v", snap)
	}
}

func TestRejectedIntentKeepsSchedule(t *testing.T) {
	h := newHarness(t, 3, 5)

	err := h.s.SubmitPlay(game.SidePlayer, h.card("Q1"))
	if !errors.Is(err, game.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if err := h.s.SubmitPass(game.SideOpponent); !errors.Is(err, game.ErrIllegalMove) {
		t.Fatalf("opponent intents from the input layer: %v", err)
	}
	h.advance(1500 * time.Millisecond)
	if h.count(log.EventAttack) != 1 {
		t.Fatal("opponent attack should still fire")
	}
}

func TestInvariantViolationAborts(t *testing.T) {
	h := newHarness(t, 2, 5)
	h.advance(1500 * time.Millisecond)

	// Hide the player's answer where the reveal cannot find it.
	h.s.mu.Lock()
	gs := h.s.engine.State
	p := gs.Player(game.SidePlayer)
	q1 := p.Hand[0]
	p.RemoveFromHand(q1)
	gs.Player(game.SideOpponent).Hand = append(gs.Player(game.SideOpponent).Hand, q1)
	h.s.mu.Unlock()

	if err := h.s.SubmitPass(game.SidePlayer); err != nil {
		t.Fatal(err)
	}
	h.advance(1400 * time.Millisecond)

	if !errors.Is(h.s.Err(), game.ErrInvariantViolation) {
		t.Fatalf("Err() = %v", h.s.Err())
	}
	if h.s.Screen() != ScreenMenu {
		t.Fatal("expected a forced return to the menu")
	}
	if h.count(log.EventAborted) != 1 || h.s.Scheduler().Len() != 0 {
		t.Fatal("expected an abort with no timers left")
	}
}

func TestObserversSeeEventsAndState(t *testing.T) {
	h := newHarness(t, 2, 5)

	var events []log.EventType
	var screens []Screen
	unsubscribe := h.s.Subscribe(Observer{
		OnEvent: func(e log.GameEvent) { events = append(events, e.Type) },
		OnState: func(_ game.Snapshot, s Screen) { screens = append(screens, s) },
	})
	h.advance(1500 * time.Millisecond)
	if len(events) == 0 || events[0] != log.EventAttack {
		t.Fatalf("events = %v, want an attack first", events)
	}
	if len(screens) != 1 || screens[0] != ScreenGame {
		t.Fatalf("screens = %v", screens)
	}

	unsubscribe()
	h.s.ReturnToMenu()
	if len(screens) != 1 {
		t.Fatal("observer called after unsubscribe")
	}
}

func TestWaitForDecision(t *testing.T) {
	h := newHarness(t, 3, 5)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan game.Snapshot, 1)
	go func() {
		snap, err := h.s.WaitForDecision(ctx, game.SidePlayer)
		if err != nil {
			t.Error(err)
		}
		done <- snap
	}()

	select {
	case <-done:
		t.Fatal("returned before the opponent attacked")
	case <-time.After(20 * time.Millisecond):
	}
	h.advance(1500 * time.Millisecond)

	select {
	case snap := <-done:
		if snap.Phase != game.PhaseAwaitingDefense {
			t.Fatalf("phase = %s", snap.Phase)
		}
	case <-ctx.Done():
		t.Fatal("WaitForDecision did not return")
	}
}

// A full match against the computer always ends with the timers drained.
func TestFullMatchAgainstPolicy(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		clock := sched.NewManualClock(time.Unix(0, 0))
		rng := game.NewRandom(seed)
		s := NewSession(Config{Timing: DefaultTiming(), Random: rng, Scheduler: sched.New(clock)})
		pairs := make([]game.CardDefinition, 8)
		for i := range pairs {
			pairs[i] = game.CardDefinition{ID: i + 1, Prompt: fmt.Sprintf("Q%d", i+1), Answer: fmt.Sprintf("A%d", i+1)}
		}
		if err := s.Start(game.DealConfig{Pairs: pairs}); err != nil {
			t.Fatal(err)
		}

		for step := 0; ; step++ {
			if step > 1000 {
				t.Fatalf("seed %d: match did not finish", seed)
			}
			snap, screen := s.Snapshot()
			if screen != ScreenGame {
				break
			}
			if !snap.AwaitingDecision(game.SidePlayer) {
				sched.Advance(s.Scheduler(), clock, 500*time.Millisecond)
				continue
			}
			var err error
			switch {
			case snap.Phase == game.PhaseAwaitingAttack:
				err = s.SubmitAttack(game.SidePlayer, snap.PlayerHand[0].ID)
			case step%3 == 0:
				err = s.SubmitPass(game.SidePlayer)
			case ai.FindMatch(snap.PlayerHand, snap.Attack) != nil:
				err = s.SubmitDefense(game.SidePlayer, ai.FindMatch(snap.PlayerHand, snap.Attack).ID)
			default:
				err = s.SubmitPass(game.SidePlayer)
			}
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
		}

		if s.Err() != nil {
			t.Fatalf("seed %d: aborted: %v", seed, s.Err())
		}
		snap, screen := s.Snapshot()
		if screen != ScreenResult || snap.Outcome == game.OutcomeNone {
			t.Fatalf("seed %d: screen %s outcome %s", seed, screen, snap.Outcome)
		}
		if s.Scheduler().Len() != 0 {
			t.Fatalf("seed %d: timers left after the match", seed)
		}
	}
}
