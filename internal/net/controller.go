package net

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Darkprix/Memora-Duel/internal/config"
	"github.com/Darkprix/Memora-Duel/internal/content"
	"github.com/Darkprix/Memora-Duel/internal/duel"
	"github.com/Darkprix/Memora-Duel/internal/game"
	"github.com/Darkprix/Memora-Duel/internal/log"
)

// Sender delivers server messages to one client.
type Sender interface {
	Send(msg ServerMessage) error
}

// JSONConn speaks the protocol over a stream, one JSON value per message.
type JSONConn struct {
	enc *json.Encoder
	dec *json.Decoder
	mu  sync.Mutex
}

// NewJSONConn wraps a stream.
func NewJSONConn(rw io.ReadWriter) *JSONConn {
	return &JSONConn{enc: json.NewEncoder(rw), dec: json.NewDecoder(rw)}
}

// Send implements Sender. Safe for concurrent use.
func (c *JSONConn) Send(msg ServerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enc.Encode(msg)
}

// Recv reads one client message.
func (c *JSONConn) Recv() (ClientMessage, error) {
	var msg ClientMessage
	err := c.dec.Decode(&msg)
	return msg, err
}

// BuildStateView creates a StateView from the perspective of side.
func BuildStateView(snap game.Snapshot, screen duel.Screen, side game.Side) *StateView {
	opp := side.Other()
	sv := &StateView{
		Match:   snap.Match,
		Screen:  screen.String(),
		Phase:   snap.Phase.String(),
		Message: snap.Message,
		You: PlayerView{
			Health:       snap.Health(side),
			HandCount:    len(snap.Hand(side)),
			DiscardCount: snap.DiscardCount[side],
		},
		Opponent: PlayerView{
			Health:       snap.Health(opp),
			HandCount:    len(snap.Hand(opp)),
			DiscardCount: snap.DiscardCount[opp],
		},
		Table: TableView{
			Attack:     tableCard(snap.Attack),
			Resolution: tableCard(snap.Resolution),
			Status:     snap.Status.String(),
		},
	}
	for i, c := range snap.Hand(side) {
		sv.You.Hand = append(sv.You.Hand, cardView(i, c))
	}
	if snap.Attack != nil {
		sv.Table.AttackedBy = "opponent"
		if snap.Attacker == side {
			sv.Table.AttackedBy = "you"
		}
	}
	if screen == duel.ScreenGame && snap.AwaitingDecision(side) {
		sv.IsYourTurn = true
		sv.Awaiting = "attack"
		if snap.Phase == game.PhaseAwaitingDefense {
			sv.Awaiting = "defense"
		}
	}
	return sv
}

func cardView(i int, c game.Card) CardView {
	return CardView{Index: i, ID: c.ID.String(), Text: c.Text, Role: c.Role.String()}
}

func tableCard(c *game.Card) *CardView {
	if c == nil {
		return nil
	}
	cv := cardView(-1, *c)
	return &cv
}

// EventViewOf converts a log event for the wire.
func EventViewOf(e log.GameEvent) *EventView {
	return &EventView{
		Match:   e.Match,
		Phase:   e.Phase,
		Side:    e.Side,
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}

// OutcomeFor names a finished match's result from side's perspective.
func OutcomeFor(o game.Outcome, side game.Side) string {
	switch {
	case o == game.OutcomeDraw:
		return "draw"
	case (o == game.OutcomeWin) == (side == game.SidePlayer):
		return "win"
	default:
		return "loss"
	}
}

// SetViews lists a library's sets.
func SetViews(lib *content.Library) []SetView {
	var out []SetView
	for i, s := range lib.Sets() {
		out = append(out, SetView{Number: i + 1, Name: s.Name, Title: s.Title, Pairs: len(s.Pairs)})
	}
	return out
}

// Controller connects one client to a session: it forwards events and
// state to the client and turns client messages into intents.
type Controller struct {
	out      Sender
	session  *duel.Session
	library  *content.Library
	settings config.Settings
	side     game.Side

	mu       sync.Mutex
	lastOver int // match whose game_over was already sent
}

// NewController creates a controller for the human side.
func NewController(out Sender, session *duel.Session, library *content.Library, settings config.Settings) *Controller {
	return &Controller{out: out, session: session, library: library, settings: settings, side: game.SidePlayer}
}

// Attach subscribes the controller to the session and returns the
// function detaching it.
func (c *Controller) Attach() func() {
	return c.session.Subscribe(duel.Observer{
		OnEvent: c.notify,
		OnState: c.state,
	})
}

func (c *Controller) notify(e log.GameEvent) {
	_ = c.out.Send(ServerMessage{Type: MsgNotify, Event: EventViewOf(e)})
}

func (c *Controller) state(snap game.Snapshot, screen duel.Screen) {
	sv := BuildStateView(snap, screen, c.side)
	_ = c.out.Send(ServerMessage{Type: MsgState, State: sv})

	if screen != duel.ScreenResult {
		return
	}
	c.mu.Lock()
	sent := c.lastOver == snap.Match
	c.lastOver = snap.Match
	c.mu.Unlock()
	if !sent {
		_ = c.out.Send(ServerMessage{
			Type:    MsgGameOver,
			State:   sv,
			Outcome: OutcomeFor(snap.Outcome, c.side),
			Result:  snap.Result,
		})
	}
}

// Greet sends the set list and the current state.
func (c *Controller) Greet() error {
	if err := c.out.Send(ServerMessage{Type: MsgSets, Sets: SetViews(c.library)}); err != nil {
		return err
	}
	snap, screen := c.session.Snapshot()
	return c.out.Send(ServerMessage{Type: MsgState, State: BuildStateView(snap, screen, c.side)})
}

// Handle applies one client message. It reports quit=true when the client
// is leaving. Rejected intents are reported to the client, not returned.
func (c *Controller) Handle(msg ClientMessage) (quit bool, err error) {
	var reject error
	switch msg.Type {
	case MsgStart:
		reject = c.start(msg.Set)
	case MsgPlay:
		reject = c.play(msg)
	case MsgPass:
		reject = c.session.SubmitPass(c.side)
	case MsgMenu:
		c.session.ReturnToMenu()
	case MsgList:
		return false, c.out.Send(ServerMessage{Type: MsgSets, Sets: SetViews(c.library)})
	case MsgQuit:
		c.session.ReturnToMenu()
		return true, nil
	default:
		reject = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if reject != nil {
		return false, c.out.Send(ServerMessage{Type: MsgError, Error: reject.Error()})
	}
	return false, nil
}

func (c *Controller) start(ref string) error {
	if strings.TrimSpace(ref) == "" {
		ref = "1"
	}
	set, err := c.library.Lookup(ref)
	if err != nil {
		return err
	}
	return c.session.Start(c.settings.Deal(set))
}

func (c *Controller) play(msg ClientMessage) error {
	if msg.CardID != "" {
		id, err := uuid.Parse(msg.CardID)
		if err != nil {
			return fmt.Errorf("bad card id: %w", err)
		}
		return c.session.SubmitPlay(c.side, id)
	}
	snap, _ := c.session.Snapshot()
	hand := snap.Hand(c.side)
	if msg.Index < 0 || msg.Index >= len(hand) {
		return fmt.Errorf("%w: no card at position %d", game.ErrIllegalMove, msg.Index+1)
	}
	return c.session.SubmitPlay(c.side, hand[msg.Index].ID)
}

// Serve reads client messages until the client quits or the stream ends.
func (c *Controller) Serve(conn *JSONConn) error {
	detach := c.Attach()
	defer detach()

	if err := c.Greet(); err != nil {
		return fmt.Errorf("send greeting: %w", err)
	}
	for {
		msg, err := conn.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("recv: %w", err)
		}
		quit, err := c.Handle(msg)
		if err != nil {
			return fmt.Errorf("send: %w", err)
		}
		if quit {
			return nil
		}
	}
}
