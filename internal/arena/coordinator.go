package arena

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saad-bin-saud/my-chess-project/internal/obslog"
	"github.com/saad-bin-saud/my-chess-project/internal/oracle"
	"github.com/saad-bin-saud/my-chess-project/pkg/wire"
)

// Coordinator dispatches inbound connection events to the matchmaking queue
// or the right room, and owns all process-wide session state: the queue, the
// room table, and the connection registry. It performs no chess logic.
//
// One coordinator instance is created at process start and injected where
// needed; tests construct their own.
type Coordinator struct {
	rules   oracle.Rules
	roomTTL time.Duration

	mu       sync.Mutex
	queue    queue
	rooms    map[string]*Room
	registry map[string]string // conn id -> room id
}

// NewCoordinator builds a coordinator. roomTTL bounds how long a fully
// abandoned room is retained; zero disables eviction.
func NewCoordinator(rules oracle.Rules, roomTTL time.Duration) *Coordinator {
	return &Coordinator{
		rules:    rules,
		roomTTL:  roomTTL,
		rooms:    make(map[string]*Room),
		registry: make(map[string]string),
	}
}

// Run periodically evicts abandoned rooms until ctx is done. Safe to skip
// when eviction is disabled.
func (co *Coordinator) Run(ctx context.Context) {
	if co.roomTTL <= 0 {
		return
	}
	interval := co.roomTTL / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			co.sweep(now)
		}
	}
}

// OnConnect registers a new connection with no room.
func (co *Coordinator) OnConnect(c Conn) {
	obslog.L().Info("conn_open", zap.String("conn_id", c.ID()))
}

// OnJoinRoom joins (creating if absent) the named room. Joining a new room
// vacates any slot the connection held elsewhere.
func (co *Coordinator) OnJoinRoom(c Conn, roomID string, requested oracle.Color) {
	co.mu.Lock()
	r := co.rooms[roomID]
	if r == nil {
		r = newRoom(roomID, co.rules)
		co.rooms[roomID] = r
		obslog.L().Info("room_create", zap.String("room_id", roomID), zap.String("conn_id", c.ID()))
	}
	prev := co.registry[c.ID()]
	prevRoom := co.rooms[prev]
	co.mu.Unlock()

	if err := r.Join(c, requested); err != nil {
		c.Send(errorEvent(err))
		return
	}

	if prev != "" && prev != roomID && prevRoom != nil {
		prevRoom.HandleDisconnect(c)
	}
	co.mu.Lock()
	co.registry[c.ID()] = roomID
	co.mu.Unlock()
}

// OnFindMatch enqueues the connection, reports its queue rank, and runs the
// pairing pass to fixed point. Re-requesting while queued is a no-op that
// still reports the current rank.
func (co *Coordinator) OnFindMatch(c Conn) {
	co.mu.Lock()
	co.queue.enqueue(c)
	pos := co.queue.position(c)
	co.mu.Unlock()

	c.Send(wire.Outbound{Type: wire.OutQueueUpdate, Data: wire.QueueUpdate{Position: pos}})
	co.pairingPass()
}

// OnCancelFind removes the connection from the queue. Idempotent: cancelling
// when not queued is not an error.
func (co *Coordinator) OnCancelFind(c Conn) {
	co.mu.Lock()
	co.queue.remove(c)
	co.mu.Unlock()
	c.Send(wire.Outbound{Type: wire.OutQueueUpdate, Data: wire.QueueUpdate{Position: -1}})
}

// OnMove routes a move intent to the connection's room. Rejections are
// reported synchronously to the mover; acceptance is broadcast by the room.
func (co *Coordinator) OnMove(c Conn, roomID, from, to, promotion string) {
	r := co.roomFor(c, roomID)
	if r == nil {
		c.Send(wire.Outbound{Type: wire.OutMoveResult, Data: wire.MoveResult{
			OK:    false,
			Error: &wire.Error{Code: ErrCodeNoSuchRoom},
		}})
		return
	}
	if err := r.ApplyMove(c, from, to, promotion); err != nil {
		c.Send(wire.Outbound{Type: wire.OutMoveResult, Data: wire.MoveResult{
			OK:    false,
			Error: &wire.Error{Code: Code(err)},
		}})
	}
}

// OnChat routes a chat line to the connection's room.
func (co *Coordinator) OnChat(c Conn, roomID, from, message string) {
	r := co.roomFor(c, roomID)
	if r == nil {
		c.Send(errorEvent(ErrNoSuchRoom))
		return
	}
	if err := r.PostChat(c, from, message); err != nil {
		c.Send(errorEvent(err))
	}
}

// OnResign resigns the connection's game.
func (co *Coordinator) OnResign(c Conn, roomID string) {
	r := co.roomFor(c, roomID)
	if r == nil {
		c.Send(errorEvent(ErrNoSuchRoom))
		return
	}
	if err := r.Resign(c); err != nil {
		c.Send(errorEvent(err))
	}
}

// OnDisconnect cleans up after a dropped connection: queue entry, registry
// entry, and room slot. Best-effort; never fails, even for handles that were
// never registered.
func (co *Coordinator) OnDisconnect(c Conn) {
	co.mu.Lock()
	co.queue.remove(c)
	roomID := co.registry[c.ID()]
	delete(co.registry, c.ID())
	r := co.rooms[roomID]
	co.mu.Unlock()

	if r != nil {
		r.HandleDisconnect(c)
	}
	obslog.L().Info("conn_close", zap.String("conn_id", c.ID()), zap.String("room_id", roomID))
}

// Snapshot returns a copy of the named room's state.
func (co *Coordinator) Snapshot(roomID string) (Snapshot, bool) {
	co.mu.Lock()
	r := co.rooms[roomID]
	co.mu.Unlock()
	if r == nil {
		return Snapshot{}, false
	}
	return r.Snapshot(), true
}

// pairingPass pairs queued waiters two at a time until fewer than two
// remain. Colors are assigned by unbiased coin flip; both handles move into
// the new room and receive match_found followed by the initial state.
func (co *Coordinator) pairingPass() {
	for {
		co.mu.Lock()
		a, b, ok := co.queue.popPair()
		if !ok {
			co.mu.Unlock()
			return
		}
		roomID := uuid.NewString()
		r := newRoom(roomID, co.rules)
		co.rooms[roomID] = r
		prevA := co.rooms[co.registry[a.ID()]]
		prevB := co.rooms[co.registry[b.ID()]]
		co.registry[a.ID()] = roomID
		co.registry[b.ID()] = roomID
		co.mu.Unlock()

		// A waiter that was still seated somewhere vacates that room first.
		if prevA != nil {
			prevA.HandleDisconnect(a)
		}
		if prevB != nil {
			prevB.HandleDisconnect(b)
		}

		white, black := a, b
		if coinFlip() {
			white, black = b, a
		}
		r.seatPair(white, black)

		obslog.L().Info("match_found",
			zap.String("room_id", roomID),
			zap.String("white", white.ID()),
			zap.String("black", black.ID()),
		)
		white.Send(wire.Outbound{Type: wire.OutMatchFound, Data: wire.MatchFound{
			RoomID: roomID, Color: string(oracle.White),
		}})
		black.Send(wire.Outbound{Type: wire.OutMatchFound, Data: wire.MatchFound{
			RoomID: roomID, Color: string(oracle.Black),
		}})
		r.BroadcastState()
	}
}

// sweep drops rooms whose both slots have been vacant longer than the TTL.
func (co *Coordinator) sweep(now time.Time) {
	co.mu.Lock()
	candidates := make([]*Room, 0, len(co.rooms))
	for _, r := range co.rooms {
		candidates = append(candidates, r)
	}
	co.mu.Unlock()

	for _, r := range candidates {
		if !r.idleEmpty(now, co.roomTTL) {
			continue
		}
		co.mu.Lock()
		delete(co.rooms, r.ID)
		co.mu.Unlock()
		obslog.L().Info("room_evict", zap.String("room_id", r.ID))
	}
}

func (co *Coordinator) roomFor(c Conn, roomID string) *Room {
	co.mu.Lock()
	defer co.mu.Unlock()
	registered := co.registry[c.ID()]
	if registered == "" {
		return nil
	}
	if roomID != "" && roomID != registered {
		return nil
	}
	return co.rooms[registered]
}

func errorEvent(err error) wire.Outbound {
	return wire.Outbound{Type: wire.OutError, Data: wire.Error{Code: Code(err)}}
}

func coinFlip() bool {
	n, err := rand.Int(rand.Reader, big.NewInt(2))
	return err == nil && n.Int64() == 1
}
