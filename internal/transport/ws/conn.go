package ws

import (
	"go.uber.org/zap"

	"github.com/saad-bin-saud/my-chess-project/internal/obslog"
	"github.com/saad-bin-saud/my-chess-project/pkg/wire"
)

// sendBuffer bounds how many outbound events queue up for a slow reader
// before the connection starts dropping them.
const sendBuffer = 32

// conn adapts one WebSocket connection to the coordinator's handle
// interface. Events are queued on a buffered channel consumed by the write
// loop, so Send never blocks room or coordinator locks.
type conn struct {
	id     string
	events chan wire.Outbound
}

func newConn(id string) *conn {
	return &conn{id: id, events: make(chan wire.Outbound, sendBuffer)}
}

func (c *conn) ID() string { return c.id }

func (c *conn) Send(ev wire.Outbound) {
	select {
	case c.events <- ev:
	default:
		obslog.L().Warn("ws_send_drop",
			zap.String("conn_id", c.id),
			zap.String("event", ev.Type),
		)
	}
}
