package arena

import (
	"sync"
	"testing"

	"github.com/saad-bin-saud/my-chess-project/pkg/wire"
)

// testConn records every event the coordinator or a room sends to it.
type testConn struct {
	id string

	mu     sync.Mutex
	events []wire.Outbound
}

func newTestConn(id string) *testConn { return &testConn{id: id} }

func (c *testConn) ID() string { return c.id }

func (c *testConn) Send(ev wire.Outbound) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *testConn) byType(eventType string) []wire.Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []wire.Outbound
	for _, ev := range c.events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func (c *testConn) lastOfType(t *testing.T, eventType string) wire.Outbound {
	t.Helper()
	evs := c.byType(eventType)
	if len(evs) == 0 {
		t.Fatalf("conn %s: no %q event received", c.id, eventType)
	}
	return evs[len(evs)-1]
}

func mustMatchFound(t *testing.T, c *testConn) wire.MatchFound {
	t.Helper()
	ev := c.lastOfType(t, wire.OutMatchFound)
	mf, ok := ev.Data.(wire.MatchFound)
	if !ok {
		t.Fatalf("conn %s: match_found payload has type %T", c.id, ev.Data)
	}
	return mf
}

func mustState(t *testing.T, c *testConn) wire.State {
	t.Helper()
	ev := c.lastOfType(t, wire.OutState)
	st, ok := ev.Data.(wire.State)
	if !ok {
		t.Fatalf("conn %s: state payload has type %T", c.id, ev.Data)
	}
	return st
}

func mustMoveResult(t *testing.T, c *testConn) wire.MoveResult {
	t.Helper()
	ev := c.lastOfType(t, wire.OutMoveResult)
	mr, ok := ev.Data.(wire.MoveResult)
	if !ok {
		t.Fatalf("conn %s: move_result payload has type %T", c.id, ev.Data)
	}
	return mr
}
