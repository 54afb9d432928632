package game

import (
	"fmt"

	"github.com/google/uuid"
)

// BuildHands selects handSize pairs uniformly at random without replacement,
// gives each side one card of every selected pair (a fair coin decides who
// holds the prompt), then shuffles both hands independently.
func BuildHands(pairs []CardDefinition, handSize int, rng Random) (player, opponent []*Card, err error) {
	if handSize <= 0 || handSize > len(pairs) {
		return nil, nil, fmt.Errorf("%w: hand size %d with %d pairs", ErrInvalidConfiguration, handSize, len(pairs))
	}

	order := make([]int, len(pairs))
	for i := range order {
		order[i] = i
	}
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	player = make([]*Card, 0, handSize)
	opponent = make([]*Card, 0, handSize)
	for _, idx := range order[:handSize] {
		def := pairs[idx]
		prompt, err := newCard(rng, def.ID, def.Prompt, RolePrompt)
		if err != nil {
			return nil, nil, err
		}
		answer, err := newCard(rng, def.ID, def.Answer, RoleAnswer)
		if err != nil {
			return nil, nil, err
		}
		if rng.Intn(2) == 0 {
			player = append(player, prompt)
			opponent = append(opponent, answer)
		} else {
			player = append(player, answer)
			opponent = append(opponent, prompt)
		}
	}

	shuffleCards(rng, player)
	shuffleCards(rng, opponent)
	for _, c := range player {
		c.Owner = SidePlayer
	}
	for _, c := range opponent {
		c.Owner = SideOpponent
	}
	return player, opponent, nil
}

func newCard(rng Random, pairID int, text string, role Role) (*Card, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return nil, fmt.Errorf("card id: %w", err)
	}
	return &Card{ID: id, PairID: pairID, Text: text, Role: role}, nil
}

func shuffleCards(rng Random, cards []*Card) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
