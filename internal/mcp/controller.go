package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Darkprix/Memora-Duel/internal/game"
)

// MCPController turns tool calls into intents for the human side and
// blocks until that side owes its next move.
type MCPController struct {
	session *GameSession
	side    game.Side
}

// NewMCPController creates a controller for the human side of session.
func NewMCPController(session *GameSession) *MCPController {
	return &MCPController{session: session, side: game.SidePlayer}
}

// Start deals a new match with the set named by ref (name or 1-based
// number) and waits for the first decision.
func (c *MCPController) Start(ctx context.Context, ref string) (*ToolResponse, error) {
	if strings.TrimSpace(ref) == "" {
		ref = "1"
	}
	set, err := c.session.library.Lookup(ref)
	if err != nil {
		return nil, err
	}
	c.session.drainEvents()
	if err := c.session.session.Start(c.session.settings.Deal(set)); err != nil {
		return nil, err
	}
	return c.session.waitForDecision(ctx)
}

// Play plays the card at hand position index, or the card with id when
// id is set. The table decides whether it attacks or defends.
func (c *MCPController) Play(ctx context.Context, index int, id string) (*ToolResponse, error) {
	cardID, err := c.resolve(index, id)
	if err != nil {
		return nil, err
	}
	if err := c.session.session.SubmitPlay(c.side, cardID); err != nil {
		return nil, err
	}
	return c.session.waitForDecision(ctx)
}

// Pass declines to answer the opponent's attack.
func (c *MCPController) Pass(ctx context.Context) (*ToolResponse, error) {
	if err := c.session.session.SubmitPass(c.side); err != nil {
		return nil, err
	}
	return c.session.waitForDecision(ctx)
}

// Menu abandons the current match.
func (c *MCPController) Menu() *ToolResponse {
	c.session.session.ReturnToMenu()
	return c.session.response()
}

func (c *MCPController) resolve(index int, id string) (uuid.UUID, error) {
	if id != "" {
		cardID, err := uuid.Parse(id)
		if err != nil {
			return uuid.Nil, fmt.Errorf("bad card id: %w", err)
		}
		return cardID, nil
	}
	snap, _ := c.session.session.Snapshot()
	hand := snap.Hand(c.side)
	if index < 0 || index >= len(hand) {
		return uuid.Nil, fmt.Errorf("%w: index %d out of range, hand has %d card(s)", game.ErrIllegalMove, index, len(hand))
	}
	return hand[index].ID, nil
}
