package ai

import (
	"fmt"
	"testing"

	"github.com/Darkprix/Memora-Duel/internal/game"
)

func dealt(t *testing.T, n int) *game.Engine {
	t.Helper()
	pairs := make([]game.CardDefinition, n)
	for i := range pairs {
		pairs[i] = game.CardDefinition{ID: i + 1, Prompt: fmt.Sprintf("Q%d", i+1), Answer: fmt.Sprintf("A%d", i+1)}
	}
	e := game.NewEngine(nil, &game.ScriptedRandom{})
	if err := e.StartGame(game.DealConfig{Pairs: pairs, HandSize: n, InitialHealth: 5}); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestChooseAttackPicksIndexedCard(t *testing.T) {
	e := dealt(t, 3)
	p := NewPolicy(DefaultAccuracy, &game.ScriptedRandom{Ints: []int{2}})

	in, ok := p.ChooseAttack(e.Snapshot(), game.SideOpponent)
	if !ok {
		t.Fatal("expected an attack")
	}
	want := e.Snapshot().OpponentHand[2]
	if in.Type != game.IntentAttack || in.CardID != want.ID || in.Side != game.SideOpponent {
		t.Fatalf("got %v, want attack with %s", in, want.Text)
	}
	if err := e.Apply(in); err != nil {
		t.Fatalf("engine rejected the policy's attack: %v", err)
	}
}

func TestChooseAttackNothingWhenTableBusy(t *testing.T) {
	e := dealt(t, 2)
	p := NewPolicy(DefaultAccuracy, &game.ScriptedRandom{})
	in, _ := p.ChooseAttack(e.Snapshot(), game.SideOpponent)
	if err := e.Apply(in); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.ChooseAttack(e.Snapshot(), game.SidePlayer); ok {
		t.Fatal("attack chosen while a card is on the table")
	}
}

func TestChooseDefense(t *testing.T) {
	tests := []struct {
		name     string
		accuracy float64
		roll     float64
		want     game.IntentType
	}{
		{"hit", 0.9, 0.5, game.IntentDefend},
		{"miss", 0.9, 0.95, game.IntentPass},
		{"boundary is a miss", 0.9, 0.9, game.IntentPass},
		{"never hits", 0, 0, game.IntentPass},
		{"always hits", 1, 0.999, game.IntentDefend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := dealt(t, 2)
			// Opponent attacks A1, the player answers and attacks with Q2.
			opp := NewPolicy(1, &game.ScriptedRandom{})
			in, _ := opp.ChooseAttack(e.Snapshot(), game.SideOpponent)
			mustApply(t, e, in)
			snap := e.Snapshot()
			mustApply(t, e, game.Intent{Type: game.IntentDefend, Side: game.SidePlayer, CardID: FindMatch(snap.PlayerHand, snap.Attack).ID})
			mustSettle(t, e)
			mustApply(t, e, game.Intent{Type: game.IntentAttack, Side: game.SidePlayer, CardID: e.Snapshot().PlayerHand[0].ID})

			p := NewPolicy(tt.accuracy, &game.ScriptedRandom{Floats: []float64{tt.roll}})
			got := p.ChooseDefense(e.Snapshot(), game.SideOpponent)
			if got.Type != tt.want {
				t.Fatalf("got %s, want %s", got.Type, tt.want)
			}
			mustApply(t, e, got)
		})
	}
}

func TestChooseDefenseWithoutMatchPasses(t *testing.T) {
	snap := game.Snapshot{
		Attack:       &game.Card{PairID: 1, Role: game.RolePrompt},
		OpponentHand: []game.Card{{PairID: 2, Role: game.RoleAnswer}},
	}
	p := NewPolicy(1, &game.ScriptedRandom{})
	if got := p.ChooseDefense(snap, game.SideOpponent); got.Type != game.IntentPass {
		t.Fatalf("got %s, want Pass", got.Type)
	}
}

func TestNewPolicyClampsAccuracy(t *testing.T) {
	if p := NewPolicy(1.5, nil); p.Accuracy != 1 {
		t.Errorf("accuracy = %v, want 1", p.Accuracy)
	}
	if p := NewPolicy(-1, nil); p.Accuracy != 0 {
		t.Errorf("accuracy = %v, want 0", p.Accuracy)
	}
}

func mustApply(t *testing.T, e *game.Engine, in game.Intent) {
	t.Helper()
	if err := e.Apply(in); err != nil {
		t.Fatalf("apply %v: %v", in, err)
	}
}

func mustSettle(t *testing.T, e *game.Engine) {
	t.Helper()
	for e.State.Phase == game.PhaseResolving {
		if err := e.Settle(); err != nil {
			t.Fatal(err)
		}
	}
}
