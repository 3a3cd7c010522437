package arena

import (
	"errors"
	"sync"
	"testing"

	"github.com/saad-bin-saud/my-chess-project/internal/oracle"
	"github.com/saad-bin-saud/my-chess-project/pkg/wire"
)

func newTestRoom(t *testing.T) (*Room, *testConn, *testConn) {
	t.Helper()
	r := newRoom("r1", oracle.NewEngine())
	white := newTestConn("conn-white")
	black := newTestConn("conn-black")
	r.seatPair(white, black)
	return r, white, black
}

func TestApplyMoveAlternatesTurns(t *testing.T) {
	r, white, black := newTestRoom(t)

	if err := r.ApplyMove(white, "e2", "e4", ""); err != nil {
		t.Fatalf("white e2e4: %v", err)
	}
	if err := r.ApplyMove(black, "e7", "e5", ""); err != nil {
		t.Fatalf("black e7e5: %v", err)
	}
	if err := r.ApplyMove(white, "g1", "f3", ""); err != nil {
		t.Fatalf("white g1f3: %v", err)
	}

	snap := r.Snapshot()
	if len(snap.MovesUCI) != 3 || len(snap.MovesSAN) != 3 {
		t.Fatalf("expected 3 logged moves, got uci=%d san=%d", len(snap.MovesUCI), len(snap.MovesSAN))
	}

	// Both players saw each accepted move and the refreshed state.
	for _, c := range []*testConn{white, black} {
		if got := len(c.byType(wire.OutMoveResult)); got != 3 {
			t.Fatalf("conn %s: expected 3 move_result broadcasts, got %d", c.ID(), got)
		}
		st := mustState(t, c)
		if st.LastMove == nil || st.LastMove.UCI != "g1f3" {
			t.Fatalf("conn %s: unexpected last move in state: %+v", c.ID(), st.LastMove)
		}
	}
}

func TestApplyMoveOutOfTurn(t *testing.T) {
	r, _, black := newTestRoom(t)

	if err := r.ApplyMove(black, "e7", "e5", ""); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("expected ErrOutOfTurn, got %v", err)
	}
	if snap := r.Snapshot(); len(snap.MovesUCI) != 0 {
		t.Fatalf("rejected move mutated the log: %v", snap.MovesUCI)
	}
}

func TestApplyMoveNotAPlayer(t *testing.T) {
	r, _, _ := newTestRoom(t)
	stranger := newTestConn("conn-stranger")

	if err := r.ApplyMove(stranger, "e2", "e4", ""); !errors.Is(err, ErrNotAPlayer) {
		t.Fatalf("expected ErrNotAPlayer, got %v", err)
	}
}

func TestIllegalMoveIsNoOp(t *testing.T) {
	r, white, _ := newTestRoom(t)
	before := r.Snapshot()

	if err := r.ApplyMove(white, "e2", "e5", ""); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}

	after := r.Snapshot()
	if after.FEN != before.FEN || len(after.MovesUCI) != len(before.MovesUCI) {
		t.Fatalf("illegal move changed room state: %q -> %q", before.FEN, after.FEN)
	}
	if got := len(white.byType(wire.OutMoveResult)); got != 0 {
		t.Fatalf("room broadcast on rejected move: %d events", got)
	}
}

func TestConcurrentMovesSerializeOnTurnCheck(t *testing.T) {
	r, white, _ := newTestRoom(t)

	// The same white move raced from several goroutines: exactly one can
	// pass the turn check, the rest must be rejected, never interleaved.
	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.ApplyMove(white, "e2", "e4", "")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else if !errors.Is(err, ErrOutOfTurn) && !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("unexpected error under contention: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one accepted move, got %d", successes)
	}
	if snap := r.Snapshot(); len(snap.MovesUCI) != 1 {
		t.Fatalf("move log corrupted under contention: %v", snap.MovesUCI)
	}
}

func TestPostChat(t *testing.T) {
	r, white, black := newTestRoom(t)

	if err := r.PostChat(white, "alice", "gg"); err != nil {
		t.Fatalf("chat: %v", err)
	}
	// Empty sender tag falls back to the color as seen by the room.
	if err := r.PostChat(black, "", "hi"); err != nil {
		t.Fatalf("chat fallback: %v", err)
	}

	for _, c := range []*testConn{white, black} {
		msgs := c.byType(wire.OutChat)
		if len(msgs) != 2 {
			t.Fatalf("conn %s: expected 2 chat events, got %d", c.ID(), len(msgs))
		}
		second := msgs[1].Data.(wire.ChatMessage)
		if second.From != "black" || second.TS == 0 {
			t.Fatalf("conn %s: unexpected chat payload: %+v", c.ID(), second)
		}
	}

	if err := r.PostChat(newTestConn("x"), "", "hey"); !errors.Is(err, ErrNotAPlayer) {
		t.Fatalf("expected ErrNotAPlayer for stranger chat, got %v", err)
	}
	if err := r.PostChat(white, "", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestDisconnectAndRejoinPreservesState(t *testing.T) {
	r, white, black := newTestRoom(t)

	if err := r.ApplyMove(white, "e2", "e4", ""); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := r.PostChat(white, "", "brb"); err != nil {
		t.Fatalf("chat: %v", err)
	}

	r.HandleDisconnect(black)
	left := white.lastOfType(t, wire.OutPlayerLeft).Data.(wire.PlayerLeft)
	if left.Reason == "" {
		t.Fatalf("player_left without reason")
	}

	// A new connection resumes the vacated color with the logs intact.
	back := newTestConn("conn-black-2")
	if err := r.Join(back, oracle.Black); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	st := mustState(t, back)
	if len(st.MovesSAN) != 1 || len(st.Chat) != 1 {
		t.Fatalf("rejoin state lost history: moves=%d chat=%d", len(st.MovesSAN), len(st.Chat))
	}
	if err := r.ApplyMove(back, "e7", "e5", ""); err != nil {
		t.Fatalf("resumed move: %v", err)
	}
}

func TestDisconnectOfUnknownHandleIsNoOp(t *testing.T) {
	r, _, _ := newTestRoom(t)
	r.HandleDisconnect(newTestConn("nobody")) // must not panic or notify
	if snap := r.Snapshot(); snap.Players.White == "" || snap.Players.Black == "" {
		t.Fatalf("unknown disconnect vacated a slot: %+v", snap.Players)
	}
}

func TestJoinRejectsFullRoomAndTakenColor(t *testing.T) {
	r, _, _ := newTestRoom(t)

	if err := r.Join(newTestConn("late"), ""); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	if err := r.Join(newTestConn("late"), oracle.White); !errors.Is(err, ErrColorTaken) {
		t.Fatalf("expected ErrColorTaken, got %v", err)
	}
}

func TestJoinTwiceResendsState(t *testing.T) {
	r := newRoom("r1", oracle.NewEngine())
	c := newTestConn("c1")
	if err := r.Join(c, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := r.Join(c, ""); err != nil {
		t.Fatalf("repeat join: %v", err)
	}
	if got := len(c.byType(wire.OutState)); got != 2 {
		t.Fatalf("expected state resent on repeat join, got %d events", got)
	}
	if snap := r.Snapshot(); snap.Players.Black != "" {
		t.Fatalf("repeat join took a second slot: %+v", snap.Players)
	}
}

func TestCheckmateFreezesRoom(t *testing.T) {
	r, white, black := newTestRoom(t)

	moves := []struct {
		c        *testConn
		from, to string
	}{
		{white, "f2", "f3"}, {black, "e7", "e5"},
		{white, "g2", "g4"}, {black, "d8", "h4"},
	}
	for _, m := range moves {
		if err := r.ApplyMove(m.c, m.from, m.to, ""); err != nil {
			t.Fatalf("move %s%s: %v", m.from, m.to, err)
		}
	}

	over := white.lastOfType(t, wire.OutGameOver).Data.(wire.GameOver)
	if over.Outcome != string(oracle.OutcomeBlackWon) || over.Winner != string(oracle.Black) {
		t.Fatalf("unexpected game_over payload: %+v", over)
	}
	if snap := r.Snapshot(); snap.Status != StatusFinished || snap.Winner != oracle.Black {
		t.Fatalf("room not frozen after mate: %+v", snap.Status)
	}
	if err := r.ApplyMove(white, "e2", "e4", ""); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver after mate, got %v", err)
	}
}

func TestResign(t *testing.T) {
	r, white, black := newTestRoom(t)

	if err := r.Resign(white); err != nil {
		t.Fatalf("resign: %v", err)
	}
	over := black.lastOfType(t, wire.OutGameOver).Data.(wire.GameOver)
	if over.Outcome != "resigned" || over.Winner != string(oracle.Black) {
		t.Fatalf("unexpected resignation payload: %+v", over)
	}
	if err := r.Resign(black); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver on double resign, got %v", err)
	}
}
