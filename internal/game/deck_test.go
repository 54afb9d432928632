package game

import (
	"errors"
	"testing"
)

func TestBuildHandsSplitsEveryPair(t *testing.T) {
	pairs := testPairs(12)
	for seed := int64(1); seed <= 50; seed++ {
		player, opponent, err := BuildHands(pairs, 8, NewRandom(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(player) != 8 || len(opponent) != 8 {
			t.Fatalf("seed %d: hand sizes %d/%d", seed, len(player), len(opponent))
		}

		roles := make(map[int]Role)
		for _, c := range player {
			if _, dup := roles[c.PairID]; dup {
				t.Fatalf("seed %d: pair %d twice in player hand", seed, c.PairID)
			}
			if c.Owner != SidePlayer {
				t.Errorf("seed %d: %q owned by %s", seed, c.Text, c.Owner)
			}
			roles[c.PairID] = c.Role
		}
		for _, c := range opponent {
			r, ok := roles[c.PairID]
			if !ok {
				t.Fatalf("seed %d: opponent pair %d missing from player hand", seed, c.PairID)
			}
			if r == c.Role {
				t.Fatalf("seed %d: pair %d dealt two %s cards", seed, c.PairID, r)
			}
			delete(roles, c.PairID)
		}
		if len(roles) != 0 {
			t.Fatalf("seed %d: %d pairs only in player hand", seed, len(roles))
		}
	}
}

func TestBuildHandsCoinDecidesPrompt(t *testing.T) {
	rng := &ScriptedRandom{Ints: []int{0, 1}}
	player, opponent, err := BuildHands(testPairs(2), 2, rng)
	if err != nil {
		t.Fatal(err)
	}
	if got := handTexts(player); got[0] != "Q1" || got[1] != "A2" {
		t.Errorf("player hand = %v, want [Q1 A2]", got)
	}
	if got := handTexts(opponent); got[0] != "A1" || got[1] != "Q2" {
		t.Errorf("opponent hand = %v, want [A1 Q2]", got)
	}
}

func TestBuildHandsSameSeedSameDeal(t *testing.T) {
	p1, o1, _ := BuildHands(testPairs(8), 5, NewRandom(42))
	p2, o2, _ := BuildHands(testPairs(8), 5, NewRandom(42))
	for i := range p1 {
		if p1[i].Text != p2[i].Text || p1[i].ID != p2[i].ID {
			t.Fatalf("player card %d differs: %q/%q", i, p1[i].Text, p2[i].Text)
		}
		if o1[i].Text != o2[i].Text || o1[i].ID != o2[i].ID {
			t.Fatalf("opponent card %d differs: %q/%q", i, o1[i].Text, o2[i].Text)
		}
	}
}

func TestBuildHandsUniqueIDs(t *testing.T) {
	player, opponent, err := BuildHands(testPairs(8), 8, &ScriptedRandom{})
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for _, c := range append(player, opponent...) {
		if seen[c.ID.String()] {
			t.Fatalf("duplicate card id %s", c.ID)
		}
		seen[c.ID.String()] = true
	}
}

func TestBuildHandsInvalidSize(t *testing.T) {
	tests := []struct {
		name     string
		pairs    int
		handSize int
	}{
		{"zero hand", 3, 0},
		{"negative hand", 3, -1},
		{"hand larger than pairs", 3, 4},
		{"no pairs", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildHands(testPairs(tt.pairs), tt.handSize, NewRandom(1))
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}
