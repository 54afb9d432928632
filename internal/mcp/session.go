package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Darkprix/Memora-Duel/internal/config"
	"github.com/Darkprix/Memora-Duel/internal/content"
	"github.com/Darkprix/Memora-Duel/internal/duel"
	"github.com/Darkprix/Memora-Duel/internal/game"
	"github.com/Darkprix/Memora-Duel/internal/log"
	gamenet "github.com/Darkprix/Memora-Duel/internal/net"
)

// ToolResponse is the JSON envelope returned by all game tools.
type ToolResponse struct {
	Events   []gamenet.EventView `json:"events"`
	State    *gamenet.StateView  `json:"state,omitempty"`
	Pending  *PendingView        `json:"pending,omitempty"`
	GameOver bool                `json:"game_over"`
	Outcome  string              `json:"outcome,omitempty"`
	Result   string              `json:"result,omitempty"`
}

// PendingView tells the caller which move is owed.
type PendingView struct {
	Type     string             `json:"type"` // "attack" or "defense"
	Prompt   string             `json:"prompt"`
	Attack   *gamenet.CardView  `json:"attack,omitempty"`
	Hand     []gamenet.CardView `json:"hand"`
	CanPass  bool               `json:"can_pass"`
	NextTool string             `json:"next_tool"`
}

// GameSession holds one duel session for the stdio process. The caller
// plays the human side against the computer.
type GameSession struct {
	session  *duel.Session
	settings config.Settings
	library  *content.Library
	cancel   context.CancelFunc
	detach   func()

	mu     sync.Mutex
	events []gamenet.EventView
}

// NewGameSession creates a session on the menu screen and starts its timers.
func NewGameSession(settings config.Settings, library *content.Library) *GameSession {
	ctx, cancel := context.WithCancel(context.Background())
	gs := &GameSession{
		session:  settings.NewSession(log.NewMemoryLogger(), nil),
		settings: settings,
		library:  library,
		cancel:   cancel,
	}
	gs.detach = gs.session.Subscribe(duel.Observer{
		OnEvent: func(e log.GameEvent) { gs.appendEvent(*gamenet.EventViewOf(e)) },
	})
	go gs.session.Run(ctx)
	return gs
}

// Close stops the session's timers.
func (s *GameSession) Close() {
	s.session.ReturnToMenu()
	s.detach()
	s.cancel()
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev gamenet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []gamenet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []gamenet.EventView{}
	}
	return events
}

// waitForDecision blocks until the human side owes a move or the match
// ends, then reports the events since the last call.
func (s *GameSession) waitForDecision(ctx context.Context) (*ToolResponse, error) {
	_, err := s.session.WaitForDecision(ctx, game.SidePlayer)
	if err != nil && !errors.Is(err, duel.ErrNotPlaying) {
		return nil, err
	}
	return s.response(), nil
}

// response describes the current state without waiting.
func (s *GameSession) response() *ToolResponse {
	snap, screen := s.session.Snapshot()
	sv := gamenet.BuildStateView(snap, screen, game.SidePlayer)
	resp := &ToolResponse{
		Events: s.drainEvents(),
		State:  sv,
	}

	switch {
	case screen == duel.ScreenMenu:
		if err := s.session.Err(); err != nil {
			resp.Result = fmt.Sprintf("match aborted: %v", err)
		}
	case snap.Over():
		resp.GameOver = true
		resp.Outcome = gamenet.OutcomeFor(snap.Outcome, game.SidePlayer)
		resp.Result = snap.Result
	case sv.IsYourTurn:
		resp.Pending = pendingFor(sv)
	}
	return resp
}

func pendingFor(sv *gamenet.StateView) *PendingView {
	p := &PendingView{Type: sv.Awaiting, Hand: sv.You.Hand, NextTool: "play_card"}
	if sv.Awaiting == "defense" {
		p.Attack = sv.Table.Attack
		p.CanPass = true
		p.Prompt = fmt.Sprintf("The opponent played %q. Play the matching card, or pass.", sv.Table.Attack.Text)
	} else {
		p.Prompt = "Your attack. Play any card from your hand."
	}
	return p
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
