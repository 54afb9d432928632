package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Darkprix/Memora-Duel/internal/config"
	"github.com/Darkprix/Memora-Duel/internal/content"
	gamelog "github.com/Darkprix/Memora-Duel/internal/log"
	gamenet "github.com/Darkprix/Memora-Duel/internal/net"
)

//go:embed static
var staticFiles embed.FS

const writeTimeout = 5 * time.Second

// SetInfo is the JSON representation of a set for the /api/sets endpoint.
type SetInfo struct {
	Number int        `json:"number"`
	Name   string     `json:"name"`
	Title  string     `json:"title"`
	Pairs  []PairInfo `json:"pairs"`
}

// PairInfo is one prompt/answer pair of a set.
type PairInfo struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// Server is the web UI server. Every websocket connection plays its own
// match against the computer.
type Server struct {
	settings config.Settings
	library  *content.Library
	mux      *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(settings config.Settings, library *content.Library) *Server {
	s := &Server{
		settings: settings,
		library:  library,
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// Handler exposes the routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("GET /api/sets", s.handleSets)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleSets(w http.ResponseWriter, r *http.Request) {
	var sets []SetInfo
	for i, set := range s.library.Sets() {
		si := SetInfo{Number: i + 1, Name: set.Name, Title: set.Title}
		for _, p := range set.Pairs {
			si.Pairs = append(si.Pairs, PairInfo{Prompt: p.Prompt, Answer: p.Answer})
		}
		sets = append(sets, si)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sets)
}

// wsSender writes server messages to one websocket.
type wsSender struct {
	ctx  context.Context
	conn *websocket.Conn
	mu   sync.Mutex
}

func (ws *wsSender) Send(msg gamenet.ServerMessage) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ctx, cancel := context.WithTimeout(ws.ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, ws.conn, msg)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session := s.settings.NewSession(gamelog.NewMemoryLogger(), nil)
	go session.Run(ctx)

	out := gamenet.NewOutbox(&wsSender{ctx: ctx, conn: wsConn})
	defer out.Close()
	ctrl := gamenet.NewController(out, session, s.library, s.settings)
	detach := ctrl.Attach()
	defer detach()
	defer session.ReturnToMenu()

	if err := ctrl.Greet(); err != nil {
		log.Printf("WebSocket greet: %v", err)
		return
	}

	for {
		var msg gamenet.ClientMessage
		if err := wsjson.Read(ctx, wsConn, &msg); err != nil {
			var ce websocket.CloseError
			if !errors.As(err, &ce) && ctx.Err() == nil {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		quit, err := ctrl.Handle(msg)
		if err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
		if quit {
			wsConn.Close(websocket.StatusNormalClosure, "game ended")
			return
		}
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
