package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Darkprix/Memora-Duel/internal/config"
	"github.com/Darkprix/Memora-Duel/internal/content"
	"github.com/Darkprix/Memora-Duel/internal/duel"
	"github.com/Darkprix/Memora-Duel/internal/game"
	gamenet "github.com/Darkprix/Memora-Duel/internal/net"
)

// Tools holds the singleton game session (one per stdio process).
type Tools struct {
	session *GameSession
	ctrl    *MCPController
	library *content.Library
}

// NewTools creates the session the tools drive.
func NewTools(settings config.Settings, library *content.Library) *Tools {
	sess := NewGameSession(settings, library)
	return &Tools{session: sess, ctrl: NewMCPController(sess), library: library}
}

// Close stops the session.
func (t *Tools) Close() {
	t.session.Close()
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer, t *Tools) {
	s.AddTool(listSetsTool(), t.handleListSets)
	s.AddTool(startGameTool(), t.handleStartGame)
	s.AddTool(playCardTool(), t.handlePlayCard)
	s.AddTool(passTool(), t.handlePass)
	s.AddTool(returnToMenuTool(), t.handleReturnToMenu)
	s.AddTool(getGameStateTool(), t.handleGetGameState)
}

// --- Tool definitions ---

func listSetsTool() mcp.Tool {
	return mcp.NewTool("list_sets",
		mcp.WithDescription("List the card sets a match can be dealt from. Read-only."),
	)
}

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Deal a new memory duel against the computer, abandoning any match in progress. "+
			"You hold half of each prompt/answer pair; the opponent attacks first. "+
			"Blocks until it is your move or the match ends."),
		mcp.WithString("set", mcp.Description("Set name or 1-based number from list_sets (default 1)")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from your hand. When the table is empty it attacks; "+
			"when the opponent has attacked it is your answer. Blocks until your next move or the match ends."),
		mcp.WithNumber("index", mcp.Description("0-based hand position of the card")),
		mcp.WithString("card_id", mcp.Description("Card ID; takes precedence over index")),
	)
}

func passTool() mcp.Tool {
	return mcp.NewTool("pass",
		mcp.WithDescription("Decline to answer the opponent's attack. Costs 1 health. Blocks until your next move or the match ends."),
	)
}

func returnToMenuTool() mcp.Tool {
	return mcp.NewTool("return_to_menu",
		mcp.WithDescription("Abandon the current match."),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a move. Read-only."),
	)
}

// --- Tool handlers ---

func (t *Tools) handleListSets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultStructuredOnly(map[string]any{"sets": gamenet.SetViews(t.library)}), nil
}

func (t *Tools) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.ctrl.Start(ctx, request.GetString("set", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.ctrl.Play(ctx, request.GetInt("index", -1), request.GetString("card_id", ""))
	if err != nil {
		return moveError(err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handlePass(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := t.ctrl.Pass(ctx)
	if err != nil {
		return moveError(err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleReturnToMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(respondJSON(t.ctrl.Menu())), nil
}

func (t *Tools) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(respondJSON(t.session.response())), nil
}

func moveError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, duel.ErrNotPlaying):
		return mcp.NewToolResultError("No game is running. Use start_game first.")
	case errors.Is(err, game.ErrIllegalMove):
		return mcp.NewToolResultErrorf("Move rejected: %v. Call get_game_state to see whose move it is.", err)
	default:
		return mcp.NewToolResultErrorf("Error: %v", err)
	}
}
