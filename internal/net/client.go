package net

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn *JSONConn
	In   io.Reader
	Out  io.Writer

	// AutoStart, if set, starts a match with this set right after joining.
	AutoStart string

	sets []SetView
}

// NewClient wraps an established connection.
func NewClient(rw io.ReadWriter) *Client {
	return &Client{conn: NewJSONConn(rw), In: os.Stdin, Out: os.Stdout}
}

// Connect connects to a server, starts a match with set, and runs the REPL.
func Connect(ctx context.Context, addr, set string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	fmt.Println("Connected!")

	client := NewClient(conn)
	client.AutoStart = set
	return client.RunREPL(ctx)
}

func (c *Client) send(msg ClientMessage) error {
	return c.conn.enc.Encode(msg)
}

// RunREPL renders server messages and turns typed lines into client
// messages until the user quits or the connection drops.
func (c *Client) RunREPL(ctx context.Context) error {
	msgs := make(chan ServerMessage)
	recvErr := make(chan error, 1)
	go func() {
		for {
			var msg ServerMessage
			if err := c.conn.dec.Decode(&msg); err != nil {
				recvErr <- err
				return
			}
			msgs <- msg
		}
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(c.In)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	if c.AutoStart != "" {
		if err := c.send(ClientMessage{Type: MsgStart, Set: c.AutoStart}); err != nil {
			return fmt.Errorf("send start: %w", err)
		}
	}
	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-recvErr:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read message: %w", err)

		case msg := <-msgs:
			c.render(msg)

		case line, ok := <-lines:
			if !ok {
				_ = c.send(ClientMessage{Type: MsgQuit})
				return nil
			}
			out, quit, valid := parseCommand(line)
			if !valid {
				fmt.Fprintln(c.Out, "Unknown command. Type 'h' for help.")
				continue
			}
			if out.Type == "" {
				c.printHelp()
				continue
			}
			if err := c.send(out); err != nil {
				return fmt.Errorf("send %s: %w", out.Type, err)
			}
			if quit {
				return nil
			}
		}
	}
}

// parseCommand maps a typed line to a client message. A zero message with
// valid=true means "show help".
func parseCommand(line string) (msg ClientMessage, quit, valid bool) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return ClientMessage{}, false, false
	}
	switch strings.ToLower(fields[0]) {
	case "h", "help", "?":
		return ClientMessage{}, false, true
	case "p", "pass":
		return ClientMessage{Type: MsgPass}, false, true
	case "m", "menu":
		return ClientMessage{Type: MsgMenu}, false, true
	case "l", "list", "sets":
		return ClientMessage{Type: MsgList}, false, true
	case "q", "quit", "exit":
		return ClientMessage{Type: MsgQuit}, true, true
	case "s", "start":
		set := ""
		if len(fields) > 1 {
			set = strings.Join(fields[1:], " ")
		}
		return ClientMessage{Type: MsgStart, Set: set}, false, true
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return ClientMessage{}, false, false
	}
	return ClientMessage{Type: MsgPlay, Index: n - 1}, false, true
}

func (c *Client) printHelp() {
	fmt.Fprintln(c.Out, "Commands: <n> play card n | p pass | s [set] start | l list sets | m menu | q quit")
}

func (c *Client) render(msg ServerMessage) {
	switch msg.Type {
	case MsgNotify:
		c.renderEvent(msg.Event)
	case MsgState:
		c.renderState(msg.State)
	case MsgSets:
		c.sets = msg.Sets
		fmt.Fprintln(c.Out, "\nSets:")
		for _, s := range msg.Sets {
			fmt.Fprintf(c.Out, "  %d) %s (%d pairs)\n", s.Number, s.Title, s.Pairs)
		}
	case MsgError:
		fmt.Fprintf(c.Out, "! %s\n", msg.Error)
	case MsgGameOver:
		fmt.Fprintln(c.Out)
		fmt.Fprintln(c.Out, "═══════════════════════════════════")
		fmt.Fprintf(c.Out, "          YOU %s\n", strings.ToUpper(verdict(msg.Outcome)))
		fmt.Fprintln(c.Out, "═══════════════════════════════════")
		fmt.Fprintln(c.Out, msg.Result)
		if msg.State != nil {
			fmt.Fprintf(c.Out, "Your health: %d   Opponent health: %d\n", msg.State.You.Health, msg.State.Opponent.Health)
		}
		fmt.Fprintln(c.Out, "═══════════════════════════════════")
		fmt.Fprintln(c.Out, "Type 's' to play again or 'q' to quit.")
	}
}

func verdict(outcome string) string {
	switch outcome {
	case "win":
		return "won"
	case "loss":
		return "lost"
	default:
		return "drew"
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	phase := ev.Phase
	for len(phase) < 18 {
		phase += " "
	}
	fmt.Fprintf(c.Out, "M%-2d %s| %s\n", ev.Match, phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil || sv.Screen != "game" {
		return
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(c.Out, "║  OPPONENT  Health: %s  Hand: %d\n", hearts(sv.Opponent.Health), sv.Opponent.HandCount)
	fmt.Fprintln(c.Out, "║──────────────────────────────────────────────────────")
	fmt.Fprintf(c.Out, "║  Table: %s\n", formatTable(sv.Table))
	fmt.Fprintln(c.Out, "║──────────────────────────────────────────────────────")
	fmt.Fprintf(c.Out, "║  YOU       Health: %s  Hand: %d\n", hearts(sv.You.Health), sv.You.HandCount)
	fmt.Fprintln(c.Out, "╚══════════════════════════════════════════════════════╝")
	if sv.Message != "" {
		fmt.Fprintln(c.Out, sv.Message)
	}

	if len(sv.You.Hand) > 0 {
		fmt.Fprint(c.Out, "\nHand: ")
		for _, cv := range sv.You.Hand {
			fmt.Fprintf(c.Out, "[%d] %s  ", cv.Index+1, cv.Text)
		}
		fmt.Fprintln(c.Out)
	}
	switch sv.Awaiting {
	case "attack":
		fmt.Fprintln(c.Out, "Your attack: pick a card.")
	case "defense":
		fmt.Fprintln(c.Out, "Your answer: pick the matching card, or 'p' to pass.")
	}
}

func formatTable(t TableView) string {
	if t.Attack == nil {
		return "[ ]"
	}
	s := fmt.Sprintf("[%s]", t.Attack.Text)
	if t.Resolution != nil {
		mark := "?"
		switch t.Status {
		case "correct":
			mark = "✓"
		case "wrong":
			mark = "✗"
		}
		s += fmt.Sprintf(" ← [%s] %s", t.Resolution.Text, mark)
	}
	return s
}

func hearts(n int) string {
	if n <= 0 {
		return "-"
	}
	return strings.Repeat("♥", n)
}
