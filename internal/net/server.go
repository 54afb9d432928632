package net

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/Darkprix/Memora-Duel/internal/config"
	"github.com/Darkprix/Memora-Duel/internal/content"
	"github.com/Darkprix/Memora-Duel/internal/log"
)

// Server hosts a match against the computer for one TCP client.
type Server struct {
	Port     string
	Settings config.Settings
	Library  *content.Library
	Log      io.Writer // event log echo; nil selects os.Stdout
}

// Run starts the server, waits for a client to join, then serves it.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("Waiting for a player on port %s...\n", s.Port)

	// Accept exactly one connection
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Printf("Player connected from %s\n", conn.RemoteAddr())
	return s.serve(ctx, conn)
}

func (s *Server) serve(ctx context.Context, conn net.Conn) error {
	w := s.Log
	if w == nil {
		w = os.Stdout
	}
	session := s.Settings.NewSession(log.NewTextLogger(w), nil)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go session.Run(ctx)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	jc := NewJSONConn(conn)
	out := NewOutbox(jc)
	defer out.Close()
	ctrl := NewController(out, session, s.Library, s.Settings)
	return ctrl.Serve(jc)
}

// Play runs a local match: the server side and the terminal client are
// joined by an in-memory pipe.
func Play(ctx context.Context, settings config.Settings, library *content.Library, set string) error {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	srv := &Server{Settings: settings, Library: library, Log: io.Discard}
	errCh := make(chan error, 2)
	go func() {
		errCh <- srv.serve(ctx, serverConn)
	}()
	go func() {
		client := NewClient(clientConn)
		client.AutoStart = set
		errCh <- client.RunREPL(ctx)
	}()
	return <-errCh
}
