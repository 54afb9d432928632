package net

// Message types for the JSON protocol. One JSON object per message.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "state" and "game_over"
	State *StateView `json:"state,omitempty"`

	// For "sets"
	Sets []SetView `json:"sets,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`

	// For "game_over"
	Outcome string `json:"outcome,omitempty"` // "win", "loss" or "draw", from the receiver's side
	Result  string `json:"result,omitempty"`
}

const (
	MsgSets     = "sets"
	MsgState    = "state"
	MsgNotify   = "notify"
	MsgError    = "error"
	MsgGameOver = "game_over"
)

// EventView is a simplified game event for the client.
type EventView struct {
	Match   int    `json:"match"`
	Phase   string `json:"phase"`
	Side    int    `json:"side"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// SetView describes a selectable pair set.
type SetView struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	Pairs  int    `json:"pairs"`
}

// CardView is a card in the receiver's hand or on the table.
type CardView struct {
	Index int    `json:"index"` // hand position, 0-based; -1 on the table
	ID    string `json:"id"`
	Text  string `json:"text"`
	Role  string `json:"role"`
}

// TableView shows the shared table.
type TableView struct {
	Attack     *CardView `json:"attack,omitempty"`
	Resolution *CardView `json:"resolution,omitempty"`
	Status     string    `json:"status"`
	AttackedBy string    `json:"attacked_by,omitempty"` // "you" or "opponent"
}

// StateView is the match state from one side's perspective.
type StateView struct {
	Match      int        `json:"match"`
	Screen     string     `json:"screen"`
	Phase      string     `json:"phase"`
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Table      TableView  `json:"table"`
	IsYourTurn bool       `json:"is_your_turn"`
	Awaiting   string     `json:"awaiting,omitempty"` // "attack" or "defense" when IsYourTurn
	Message    string     `json:"message,omitempty"`
}

// PlayerView shows one side.
type PlayerView struct {
	Health       int        `json:"health"`
	HandCount    int        `json:"hand_count"`
	Hand         []CardView `json:"hand,omitempty"` // only for "you"
	DiscardCount int        `json:"discard_count"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "start": set name or 1-based number
	Set string `json:"set,omitempty"`

	// For "play": hand index (0-based), or the card ID
	Index  int    `json:"index,omitempty"`
	CardID string `json:"card_id,omitempty"`
}

const (
	MsgStart = "start"
	MsgPlay  = "play"
	MsgPass  = "pass"
	MsgMenu  = "menu"
	MsgList  = "list"
	MsgQuit  = "quit"
)
