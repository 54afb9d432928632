package net

import (
	"errors"
	"sync"
)

// ErrOutboxClosed is returned by Send after Close.
var ErrOutboxClosed = errors.New("outbox closed")

// Outbox queues messages for a Sender and writes them from its own
// goroutine. Send never waits on the client, so session observers stay
// fast however slowly the client reads.
type Outbox struct {
	dst Sender

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []ServerMessage
	closed bool
	err    error
	done   chan struct{}
}

// NewOutbox starts writing to dst.
func NewOutbox(dst Sender) *Outbox {
	o := &Outbox{dst: dst, done: make(chan struct{})}
	o.cond = sync.NewCond(&o.mu)
	go o.loop()
	return o
}

// Send queues msg. It reports the first write error once the writer has
// stopped.
func (o *Outbox) Send(msg ServerMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case o.err != nil:
		return o.err
	case o.closed:
		return ErrOutboxClosed
	}
	o.queue = append(o.queue, msg)
	o.cond.Signal()
	return nil
}

// Close stops accepting messages. Queued messages are still written.
func (o *Outbox) Close() {
	o.mu.Lock()
	o.closed = true
	o.cond.Broadcast()
	o.mu.Unlock()
}

// Done is closed when the writer has exited.
func (o *Outbox) Done() <-chan struct{} {
	return o.done
}

func (o *Outbox) loop() {
	defer close(o.done)
	for {
		o.mu.Lock()
		for len(o.queue) == 0 && !o.closed {
			o.cond.Wait()
		}
		if len(o.queue) == 0 {
			o.mu.Unlock()
			return
		}
		msg := o.queue[0]
		o.queue = o.queue[1:]
		o.mu.Unlock()

		if err := o.dst.Send(msg); err != nil {
			o.mu.Lock()
			o.err = err
			o.queue = nil
			o.mu.Unlock()
			return
		}
	}
}
