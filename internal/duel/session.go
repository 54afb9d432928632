// Package duel runs one match at a time: it owns the engine, paces the
// table with timers and drives the opponent.
package duel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Darkprix/Memora-Duel/internal/ai"
	"github.com/Darkprix/Memora-Duel/internal/game"
	"github.com/Darkprix/Memora-Duel/internal/log"
	"github.com/Darkprix/Memora-Duel/internal/sched"
)

// ErrNotPlaying is returned for intents submitted outside the game screen.
var ErrNotPlaying = errors.New("no match in progress")

// Observer receives every event and the state after every change.
// Callbacks run in mutation order and must not submit intents synchronously.
// Delivery to all observers, and the wake-up of WaitForDecision, waits for
// each callback to return, so callbacks must not block on a client.
type Observer struct {
	OnEvent func(log.GameEvent)
	OnState func(game.Snapshot, Screen)
}

// Config configures a Session. Zero values select defaults.
type Config struct {
	Timing    Timing
	Logger    log.EventLogger
	Random    game.Random      // deals; also feeds the default brain
	Brain     ai.Brain         // nil selects ai.NewPolicy(ai.DefaultAccuracy, Random)
	Scheduler *sched.Scheduler // nil selects a scheduler on the system clock
}

// Session serializes every mutation of one engine: human intents,
// settling of judgments and opponent steps all run under one lock.
type Session struct {
	mu      sync.Mutex
	engine  *game.Engine
	sched   *sched.Scheduler
	brain   ai.Brain
	timing  Timing
	screen  Screen
	timers  []*sched.Handle
	err     error
	events  []log.GameEvent // emitted since the last delivery
	dirty   bool
	changed chan struct{}

	notifyMu  sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// NewSession creates a session on the menu screen.
func NewSession(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = log.NewMemoryLogger()
	}
	if cfg.Random == nil {
		cfg.Random = game.NewRandom(0)
	}
	if cfg.Brain == nil {
		cfg.Brain = ai.NewPolicy(ai.DefaultAccuracy, cfg.Random)
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = sched.New(nil)
	}

	s := &Session{
		engine:    game.NewEngine(cfg.Logger, cfg.Random),
		sched:     cfg.Scheduler,
		brain:     cfg.Brain,
		timing:    cfg.Timing,
		changed:   make(chan struct{}),
		observers: make(map[int]Observer),
	}
	s.engine.Notify = func(e log.GameEvent) { s.events = append(s.events, e) }
	return s
}

// Run fires scheduled steps until ctx is cancelled. Sessions on a
// manual clock are driven with sched.Advance instead.
func (s *Session) Run(ctx context.Context) error {
	return s.sched.Run(ctx)
}

// Scheduler returns the session's timer queue.
func (s *Session) Scheduler() *sched.Scheduler {
	return s.sched
}

// Logger returns the session's event log.
func (s *Session) Logger() log.EventLogger {
	return s.engine.Logger
}

// Subscribe registers an observer and returns a function removing it.
func (s *Session) Subscribe(o Observer) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = o
	return func() {
		s.notifyMu.Lock()
		delete(s.observers, id)
		s.notifyMu.Unlock()
	}
}

// --- Intents ---

// Start deals a new match, discarding any match in progress. A rejected
// deal leaves the current match and its timers untouched.
func (s *Session) Start(deal game.DealConfig) error {
	return s.do(func() error {
		if err := s.engine.StartGame(deal); err != nil {
			if errors.Is(err, game.ErrInvariantViolation) {
				s.abort(err)
			}
			return err
		}
		s.cancelTimers()
		s.err = nil
		s.screen = ScreenGame
		s.advance()
		return nil
	})
}

// Submit applies an intent from the input layer. The opponent side is
// reserved for the brain.
func (s *Session) Submit(in game.Intent) error {
	return s.do(func() error {
		if s.screen != ScreenGame {
			return ErrNotPlaying
		}
		if in.Side == game.SideOpponent {
			return &game.MoveError{Intent: in, Reason: "the opponent is played by the computer"}
		}
		return s.apply(in)
	})
}

// SubmitAttack plays a card from side's hand as an attack.
func (s *Session) SubmitAttack(side game.Side, id uuid.UUID) error {
	return s.Submit(game.Intent{Type: game.IntentAttack, Side: side, CardID: id})
}

// SubmitDefense answers the table's attack card.
func (s *Session) SubmitDefense(side game.Side, id uuid.UUID) error {
	return s.Submit(game.Intent{Type: game.IntentDefend, Side: side, CardID: id})
}

// SubmitPass declines to answer the table's attack card.
func (s *Session) SubmitPass(side game.Side) error {
	return s.Submit(game.Intent{Type: game.IntentPass, Side: side})
}

// SubmitPlay plays a card as an attack or a defense depending on the
// table, the way a drag onto the table does.
func (s *Session) SubmitPlay(side game.Side, id uuid.UUID) error {
	return s.do(func() error {
		if s.screen != ScreenGame {
			return ErrNotPlaying
		}
		in := game.Intent{Type: game.IntentAttack, Side: side, CardID: id}
		if s.engine.State.Phase == game.PhaseAwaitingDefense {
			in.Type = game.IntentDefend
		}
		if side == game.SideOpponent {
			return &game.MoveError{Intent: in, Reason: "the opponent is played by the computer"}
		}
		return s.apply(in)
	})
}

// ReturnToMenu abandons the current match and cancels its timers.
func (s *Session) ReturnToMenu() {
	s.do(func() error {
		s.cancelTimers()
		s.screen = ScreenMenu
		s.dirty = true
		match := 0
		if s.engine.State != nil {
			match = s.engine.State.Match
		}
		s.emit(log.NewMenuEvent(match))
		return nil
	})
}

// --- Observation ---

// Snapshot returns the current state and screen.
func (s *Session) Snapshot() (game.Snapshot, Screen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot(), s.screen
}

// Screen returns the current screen.
func (s *Session) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// Err returns the invariant violation that aborted the last match, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// WaitForDecision blocks until side owes an intent, the match is over,
// or the session leaves the game screen.
func (s *Session) WaitForDecision(ctx context.Context, side game.Side) (game.Snapshot, error) {
	for {
		s.mu.Lock()
		snap, screen, ch := s.engine.Snapshot(), s.screen, s.changed
		s.mu.Unlock()

		switch {
		case screen == ScreenMenu:
			return snap, ErrNotPlaying
		case snap.Over(), snap.AwaitingDecision(side):
			return snap, nil
		}

		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-ch:
		}
	}
}

// --- Internals (called with mu held) ---

// apply runs one intent through the engine and schedules what follows.
func (s *Session) apply(in game.Intent) error {
	err := s.engine.Apply(in)
	switch {
	case errors.Is(err, game.ErrInvariantViolation):
		s.abort(err)
		return err
	case err != nil:
		return err
	}
	s.advance()
	return nil
}

// advance replaces outstanding timers with the step the new state needs.
func (s *Session) advance() {
	s.cancelTimers()
	s.dirty = true
	snap := s.engine.Snapshot()

	switch {
	case snap.Over():
		s.screen = ScreenResult
	case snap.Phase == game.PhaseResolving:
		s.schedule(s.holdFor(snap), s.settle)
	case snap.Turn != game.SideOpponent:
	case snap.Phase == game.PhaseAwaitingAttack:
		s.schedule(s.timing.AIThink, s.aiAttack)
	case snap.Phase == game.PhaseAwaitingDefense:
		s.schedule(s.timing.AIThink, s.aiThink)
	}
}

func (s *Session) holdFor(snap game.Snapshot) time.Duration {
	p := snap.Pending
	switch {
	case p.Correct && p.Defender == game.SidePlayer:
		return s.timing.CorrectHold
	case p.Correct:
		return s.timing.AICorrectHold
	case p.RevealDue:
		return s.timing.RevealDelay
	default:
		return s.timing.RevealHold
	}
}

func (s *Session) settle() {
	err := s.engine.Settle()
	if errors.Is(err, game.ErrInvariantViolation) {
		s.abort(err)
		return
	}
	if err == nil {
		s.advance()
	}
}

func (s *Session) aiAttack() {
	in, ok := s.brain.ChooseAttack(s.engine.Snapshot(), game.SideOpponent)
	if !ok {
		return
	}
	s.apply(in)
}

// aiThink is the first half of the opponent's two-stage defense.
func (s *Session) aiThink() {
	s.engine.Thinking(game.SideOpponent)
	s.dirty = true
	s.schedule(s.timing.AIDefense, s.aiDefend)
}

func (s *Session) aiDefend() {
	s.apply(s.brain.ChooseDefense(s.engine.Snapshot(), game.SideOpponent))
}

// schedule arms a step bound to the current transition. A step that fires
// after the state has moved on does nothing.
func (s *Session) schedule(d time.Duration, step func()) {
	match, transition := s.engine.State.Match, s.engine.State.Transition
	var h *sched.Handle
	h = s.sched.After(d, func() {
		s.do(func() error {
			s.forget(h)
			gs := s.engine.State
			if s.screen != ScreenGame || gs == nil || gs.Match != match || gs.Transition != transition {
				return nil
			}
			step()
			return nil
		})
	})
	s.timers = append(s.timers, h)
}

func (s *Session) forget(h *sched.Handle) {
	for i, t := range s.timers {
		if t == h {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

func (s *Session) cancelTimers() {
	for _, h := range s.timers {
		h.Cancel()
	}
	s.timers = nil
}

// abort abandons a match whose state can no longer be trusted.
func (s *Session) abort(err error) {
	s.cancelTimers()
	s.err = err
	s.screen = ScreenMenu
	s.dirty = true
	gs := s.engine.State
	if gs != nil {
		s.emit(log.NewAbortedEvent(gs.Match, gs.Phase.String(), err.Error()))
	} else {
		s.emit(log.NewAbortedEvent(0, game.PhaseNone.String(), err.Error()))
	}
}

func (s *Session) emit(e log.GameEvent) {
	s.engine.Logger.Log(e)
	s.events = append(s.events, e)
}

// --- Delivery ---

type delivery struct {
	events []log.GameEvent
	state  *game.Snapshot
	screen Screen
}

// do runs fn under the state lock, then hands its events and resulting
// state to observers in order. Waiters wake once observers have seen it.
func (s *Session) do(fn func() error) error {
	s.mu.Lock()
	err := fn()
	d := delivery{events: s.events, screen: s.screen}
	s.events = nil
	var wake chan struct{}
	if s.dirty {
		snap := s.engine.Snapshot()
		d.state = &snap
		s.dirty = false
		wake = s.changed
		s.changed = make(chan struct{})
	}
	s.notifyMu.Lock()
	s.mu.Unlock()

	for _, o := range s.observers {
		for _, e := range d.events {
			if o.OnEvent != nil {
				o.OnEvent(e)
			}
		}
		if d.state != nil && o.OnState != nil {
			o.OnState(*d.state, d.screen)
		}
	}
	s.notifyMu.Unlock()
	if wake != nil {
		close(wake)
	}
	return err
}
