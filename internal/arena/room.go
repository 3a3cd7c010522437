package arena

import (
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/saad-bin-saud/my-chess-project/internal/obslog"
	"github.com/saad-bin-saud/my-chess-project/internal/oracle"
	"github.com/saad-bin-saud/my-chess-project/pkg/wire"
)

// Status represents a room's game lifecycle state.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
	StatusResigned Status = "RESIGNED"
	StatusDraw     Status = "DRAW"
)

// Room owns one game's mutable state: position, move log, two player slots,
// and the chat log. Every operation serializes on the room mutex, so two
// near-simultaneous move intents can never interleave; rooms do not share
// state, which keeps per-room operations concurrent across rooms.
type Room struct {
	ID string

	mu         sync.Mutex
	rules      oracle.Rules
	pos        oracle.Position
	movesSAN   []string
	chat       []wire.ChatMessage
	players    map[oracle.Color]Conn
	status     Status
	winner     oracle.Color
	createdAt  time.Time
	updatedAt  time.Time
	emptySince time.Time // zero while at least one slot is occupied
}

func newRoom(id string, rules oracle.Rules) *Room {
	now := time.Now()
	return &Room{
		ID:         id,
		rules:      rules,
		pos:        rules.Start(),
		players:    make(map[oracle.Color]Conn, 2),
		status:     StatusActive,
		createdAt:  now,
		updatedAt:  now,
		emptySince: now,
	}
}

// Join seats the connection in a free slot and replays the current state to
// it. A requested color is honored when that slot is free; with no
// preference white is taken first. Joining a full room fails with
// ErrRoomFull (no silent spectators). A connection that already holds a
// slot just gets the state again, which makes reconnect retries harmless.
func (r *Room) Join(c Conn, requested oracle.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if color := r.colorOfLocked(c); color != "" {
		c.Send(r.stateLocked())
		return nil
	}

	var seat oracle.Color
	switch {
	case requested != "":
		if r.players[requested] != nil {
			return ErrColorTaken
		}
		seat = requested
	case r.players[oracle.White] == nil:
		seat = oracle.White
	case r.players[oracle.Black] == nil:
		seat = oracle.Black
	default:
		return ErrRoomFull
	}

	r.players[seat] = c
	r.emptySince = time.Time{}
	obslog.L().Info("room_join",
		zap.String("room_id", r.ID),
		zap.String("conn_id", c.ID()),
		zap.String("color", string(seat)),
	)
	c.Send(r.stateLocked())
	return nil
}

// seatPair places a freshly matched pair into the empty room. Called by the
// coordinator's pairing pass before any state event is emitted.
func (r *Room) seatPair(white, black Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[oracle.White] = white
	r.players[oracle.Black] = black
	r.emptySince = time.Time{}
}

// ApplyMove validates and applies one move intent. The sequence — resolve
// color, check turn parity, delegate legality to the rules engine, append —
// is atomic under the room mutex; a rejected move leaves the room unchanged.
func (r *Room) ApplyMove(c Conn, from, to, promotion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	color := r.colorOfLocked(c)
	if color == "" {
		return ErrNotAPlayer
	}
	if r.status != StatusActive {
		return ErrGameOver
	}
	if color != r.turnLocked() {
		return ErrOutOfTurn
	}

	next, mv, err := r.rules.TryMove(r.pos, from, to, promotion)
	if err != nil {
		if errors.Is(err, oracle.ErrIllegalMove) {
			return ErrIllegalMove
		}
		return err
	}

	r.pos = next
	r.movesSAN = append(r.movesSAN, mv.SAN)
	r.updatedAt = time.Now()

	wireMove := &wire.Move{From: mv.From, To: mv.To, Promotion: mv.Promotion, UCI: mv.UCI, SAN: mv.SAN}
	r.broadcastLocked(wire.Outbound{Type: wire.OutMoveResult, Data: wire.MoveResult{
		OK:   true,
		Move: wireMove,
		FEN:  r.pos.FEN,
	}})
	r.broadcastLocked(r.stateLocked())

	obslog.L().Info("room_move",
		zap.String("room_id", r.ID),
		zap.String("conn_id", c.ID()),
		zap.String("uci", mv.UCI),
		zap.Int("ply", len(r.pos.Moves)),
	)

	if r.rules.IsGameOver(r.pos) {
		r.finishLocked(r.rules.Outcome(r.pos))
	}
	return nil
}

// PostChat appends a chat line and relays it to both slot-holders. Only
// seated players may chat; the sender tag falls back to the sender's color
// as the room sees it.
func (r *Room) PostChat(c Conn, from, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	color := r.colorOfLocked(c)
	if color == "" {
		return ErrNotAPlayer
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if strings.TrimSpace(from) == "" {
		from = string(color)
	}

	msg := wire.ChatMessage{From: from, Message: text, TS: time.Now().UnixMilli()}
	r.chat = append(r.chat, msg)
	r.broadcastLocked(wire.Outbound{Type: wire.OutChat, Data: msg})
	return nil
}

// Resign ends the game with the opponent as winner.
func (r *Room) Resign(c Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	color := r.colorOfLocked(c)
	if color == "" {
		return ErrNotAPlayer
	}
	if r.status != StatusActive {
		return ErrGameOver
	}

	r.status = StatusResigned
	r.winner = color.Opponent()
	r.updatedAt = time.Now()
	obslog.L().Info("room_resign",
		zap.String("room_id", r.ID),
		zap.String("resigner", c.ID()),
		zap.String("winner", string(r.winner)),
	)
	r.broadcastLocked(wire.Outbound{Type: wire.OutGameOver, Data: wire.GameOver{
		Outcome: "resigned",
		Winner:  string(r.winner),
	}})
	return nil
}

// HandleDisconnect vacates the matching slot, if any, and notifies the
// remaining player. Never fails; the move and chat logs stay intact so a
// later Join into the vacated color resumes the game.
func (r *Room) HandleDisconnect(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	color := r.colorOfLocked(c)
	if color == "" {
		return
	}
	delete(r.players, color)
	obslog.L().Info("room_leave",
		zap.String("room_id", r.ID),
		zap.String("conn_id", c.ID()),
		zap.String("color", string(color)),
	)

	if other := r.players[color.Opponent()]; other != nil {
		other.Send(wire.Outbound{Type: wire.OutPlayerLeft, Data: wire.PlayerLeft{
			Reason: "opponent disconnected",
		}})
		return
	}
	r.emptySince = time.Now()
}

// BroadcastState pushes the current snapshot to both slot-holders. Used by
// the coordinator right after pairing.
func (r *Room) BroadcastState() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(r.stateLocked())
}

// Snapshot returns a copy of the room state for read-only consumers.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		ID:        r.ID,
		FEN:       r.pos.FEN,
		MovesUCI:  append([]string(nil), r.pos.Moves...),
		MovesSAN:  append([]string(nil), r.movesSAN...),
		Chat:      append([]wire.ChatMessage(nil), r.chat...),
		Players:   r.playersLocked(),
		Status:    r.status,
		Winner:    r.winner,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
}

// Snapshot is an immutable copy of a room's state.
type Snapshot struct {
	ID        string
	FEN       string
	MovesUCI  []string
	MovesSAN  []string
	Chat      []wire.ChatMessage
	Players   wire.Players
	Status    Status
	Winner    oracle.Color
	CreatedAt time.Time
	UpdatedAt time.Time
}

// idleEmpty reports whether both slots have been vacant for longer than ttl.
func (r *Room) idleEmpty(now time.Time, ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.emptySince.IsZero() && now.Sub(r.emptySince) > ttl
}

func (r *Room) finishLocked(out oracle.Outcome) {
	switch out {
	case oracle.OutcomeWhiteWon:
		r.status = StatusFinished
		r.winner = oracle.White
	case oracle.OutcomeBlackWon:
		r.status = StatusFinished
		r.winner = oracle.Black
	case oracle.OutcomeDraw:
		r.status = StatusDraw
	default:
		return
	}
	obslog.L().Info("room_game_over",
		zap.String("room_id", r.ID),
		zap.String("outcome", string(out)),
		zap.String("winner", string(r.winner)),
	)
	r.broadcastLocked(wire.Outbound{Type: wire.OutGameOver, Data: wire.GameOver{
		Outcome: string(out),
		Winner:  string(r.winner),
	}})
}

// turnLocked derives whose turn it is from move-log parity: even length
// means white to move.
func (r *Room) turnLocked() oracle.Color {
	if len(r.pos.Moves)%2 == 0 {
		return oracle.White
	}
	return oracle.Black
}

func (r *Room) colorOfLocked(c Conn) oracle.Color {
	for color, seated := range r.players {
		if seated != nil && seated.ID() == c.ID() {
			return color
		}
	}
	return ""
}

func (r *Room) playersLocked() wire.Players {
	var p wire.Players
	if c := r.players[oracle.White]; c != nil {
		p.White = c.ID()
	}
	if c := r.players[oracle.Black]; c != nil {
		p.Black = c.ID()
	}
	return p
}

func (r *Room) stateLocked() wire.Outbound {
	state := wire.State{
		RoomID:   r.ID,
		FEN:      r.pos.FEN,
		Players:  r.playersLocked(),
		MovesSAN: append([]string(nil), r.movesSAN...),
		Chat:     append([]wire.ChatMessage(nil), r.chat...),
	}
	if n := len(r.pos.Moves); n > 0 {
		uci := r.pos.Moves[n-1]
		state.LastMove = &wire.Move{UCI: uci, SAN: r.movesSAN[n-1]}
	}
	return wire.Outbound{Type: wire.OutState, Data: state}
}

func (r *Room) broadcastLocked(ev wire.Outbound) {
	for _, c := range r.players {
		if c != nil {
			c.Send(ev)
		}
	}
}
