package net

import (
	"errors"
	"testing"
	"time"
)

// gatedSender blocks each Send until the gate is opened.
type gatedSender struct {
	gate chan struct{}
	rec  recorder
	err  error
}

func (g *gatedSender) Send(msg ServerMessage) error {
	<-g.gate
	if g.err != nil {
		return g.err
	}
	return g.rec.Send(msg)
}

func TestOutboxSendDoesNotWaitForClient(t *testing.T) {
	g := &gatedSender{gate: make(chan struct{})}
	out := NewOutbox(g)

	sent := make(chan struct{})
	go func() {
		for _, typ := range []string{MsgState, MsgNotify, MsgGameOver} {
			if err := out.Send(ServerMessage{Type: typ}); err != nil {
				t.Errorf("Send(%s): %v", typ, err)
			}
		}
		close(sent)
	}()
	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a stalled client")
	}

	close(g.gate)
	out.Close()
	select {
	case <-out.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("outbox did not drain")
	}

	g.rec.mu.Lock()
	defer g.rec.mu.Unlock()
	if len(g.rec.msgs) != 3 {
		t.Fatalf("delivered %d messages, want 3", len(g.rec.msgs))
	}
	for i, want := range []string{MsgState, MsgNotify, MsgGameOver} {
		if g.rec.msgs[i].Type != want {
			t.Errorf("message %d = %s, want %s", i, g.rec.msgs[i].Type, want)
		}
	}
	if err := out.Send(ServerMessage{Type: MsgState}); !errors.Is(err, ErrOutboxClosed) {
		t.Fatalf("Send after Close = %v, want ErrOutboxClosed", err)
	}
}

func TestOutboxReportsWriteError(t *testing.T) {
	boom := errors.New("connection reset")
	g := &gatedSender{gate: make(chan struct{}), err: boom}
	close(g.gate)
	out := NewOutbox(g)

	if err := out.Send(ServerMessage{Type: MsgState}); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	select {
	case <-out.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("writer did not stop")
	}
	if err := out.Send(ServerMessage{Type: MsgState}); !errors.Is(err, boom) {
		t.Fatalf("Send after failure = %v, want %v", err, boom)
	}
}
