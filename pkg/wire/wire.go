// Package wire defines the JSON envelopes exchanged with clients over the
// WebSocket connection. Event names match the protocol of the original
// browser client: join, find_match, cancel_find, move, chat.
package wire

import "encoding/json"

// Inbound is the envelope for client-to-server messages.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound event types.
const (
	InJoin       = "join"
	InFindMatch  = "find_match"
	InCancelFind = "cancel_find"
	InMove       = "move"
	InChat       = "chat"
	InResign     = "resign"
)

// JoinData requests to join (or create) a named room. Color is optional;
// when empty the first free slot is taken, white first.
type JoinData struct {
	RoomID string `json:"room_id"`
	Color  string `json:"color,omitempty"`
}

// MoveData is a move intent in coordinate form.
type MoveData struct {
	RoomID    string `json:"room_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// ChatData is a chat line addressed to the sender's room.
type ChatData struct {
	RoomID  string `json:"room_id"`
	From    string `json:"from,omitempty"`
	Message string `json:"message"`
}

// ResignData resigns the sender's game.
type ResignData struct {
	RoomID string `json:"room_id"`
}

// Outbound is the envelope for server-to-client messages.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Outbound event types.
const (
	OutQueueUpdate = "queue_update"
	OutMatchFound  = "match_found"
	OutState       = "state"
	OutMoveResult  = "move_result"
	OutChat        = "chat"
	OutPlayerLeft  = "player_left"
	OutGameOver    = "game_over"
	OutError       = "error"
)

// QueueUpdate reports the 1-based rank in the matchmaking queue.
// Position -1 means the connection is not queued.
type QueueUpdate struct {
	Position int `json:"position"`
}

// MatchFound tells a paired client its room and assigned color.
type MatchFound struct {
	RoomID string `json:"room_id"`
	Color  string `json:"color"`
}

// Players shows slot occupancy by connection id. Empty string = vacant slot.
type Players struct {
	White string `json:"white,omitempty"`
	Black string `json:"black,omitempty"`
}

// Move describes an applied move in both coordinate and SAN form.
type Move struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
	UCI       string `json:"uci"`
	SAN       string `json:"san"`
}

// State is the full room snapshot sent on join, on pairing, and after every
// accepted move.
type State struct {
	RoomID   string        `json:"room_id"`
	FEN      string        `json:"fen"`
	Players  Players       `json:"players"`
	LastMove *Move         `json:"last_move,omitempty"`
	MovesSAN []string      `json:"moves_san"`
	Chat     []ChatMessage `json:"chat,omitempty"`
}

// MoveResult reports acceptance (broadcast to the room) or rejection
// (unicast to the mover).
type MoveResult struct {
	OK    bool   `json:"ok"`
	Move  *Move  `json:"move,omitempty"`
	FEN   string `json:"fen,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// ChatMessage is a chat line relayed to the room. TS is Unix milliseconds.
type ChatMessage struct {
	From    string `json:"from"`
	Message string `json:"message"`
	TS      int64  `json:"ts"`
}

// PlayerLeft notifies the remaining member that the opponent dropped.
type PlayerLeft struct {
	Reason string `json:"reason"`
}

// GameOver announces a terminal position or resignation.
type GameOver struct {
	Outcome string `json:"outcome"`
	Winner  string `json:"winner,omitempty"`
}

// Error is a structured error payload.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
