// Package ws bridges WebSocket connections to the session coordinator:
// inbound frames become coordinator calls, coordinator events become
// outbound frames.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/saad-bin-saud/my-chess-project/internal/arena"
	"github.com/saad-bin-saud/my-chess-project/internal/msgcat"
	"github.com/saad-bin-saud/my-chess-project/internal/obslog"
	"github.com/saad-bin-saud/my-chess-project/internal/oracle"
	"github.com/saad-bin-saud/my-chess-project/pkg/wire"
)

const errCodeBadRequest = "bad_request"

// Handler upgrades HTTP requests and runs the read/write pumps for each
// connection.
type Handler struct {
	co   *arena.Coordinator
	cat  *msgcat.Catalog
	opts *websocket.AcceptOptions
}

// NewHandler builds the WebSocket endpoint. origins follows the config
// convention: empty means same-origin only, "*" disables the check.
func NewHandler(co *arena.Coordinator, cat *msgcat.Catalog, origins []string) *Handler {
	opts := &websocket.AcceptOptions{}
	for _, o := range origins {
		if o == "*" {
			opts = &websocket.AcceptOptions{InsecureSkipVerify: true}
			break
		}
		opts.OriginPatterns = append(opts.OriginPatterns, o)
	}
	return &Handler{co: co, cat: cat, opts: opts}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := websocket.Accept(w, r, h.opts)
	if err != nil {
		obslog.L().Warn("ws_accept_error", zap.Error(err))
		return
	}
	defer sock.Close(websocket.StatusInternalError, "internal error")

	c := newConn(uuid.NewString())
	h.co.OnConnect(c)
	defer h.co.OnDisconnect(c)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- h.readLoop(ctx, sock, c) }()
	go func() { errCh <- h.writeLoop(ctx, sock, c) }()

	err = <-errCh
	cancel()
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			obslog.L().Warn("ws_closed_with_error", zap.String("conn_id", c.ID()), zap.Error(err))
		}
	}
	sock.Close(status, reason)
}

func (h *Handler) readLoop(ctx context.Context, sock *websocket.Conn, c *conn) error {
	for {
		var in wire.Inbound
		if err := wsjson.Read(ctx, sock, &in); err != nil {
			return err
		}
		h.dispatch(c, in)
	}
}

func (h *Handler) writeLoop(ctx context.Context, sock *websocket.Conn, c *conn) error {
	for {
		select {
		case ev := <-c.events:
			if err := wsjson.Write(ctx, sock, h.decorate(ev)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatch routes one inbound frame. Malformed frames are answered with an
// error event rather than closing the connection.
func (h *Handler) dispatch(c *conn, in wire.Inbound) {
	switch in.Type {
	case wire.InJoin:
		var d wire.JoinData
		if err := json.Unmarshal(in.Data, &d); err != nil || d.RoomID == "" {
			h.badRequest(c, "join needs a room id")
			return
		}
		requested := oracle.Color(d.Color)
		if d.Color != "" && !requested.Valid() {
			h.badRequest(c, "color must be white or black")
			return
		}
		h.co.OnJoinRoom(c, d.RoomID, requested)
	case wire.InFindMatch:
		h.co.OnFindMatch(c)
	case wire.InCancelFind:
		h.co.OnCancelFind(c)
	case wire.InMove:
		var d wire.MoveData
		if err := json.Unmarshal(in.Data, &d); err != nil || d.From == "" || d.To == "" {
			h.badRequest(c, "move needs from and to squares")
			return
		}
		h.co.OnMove(c, d.RoomID, d.From, d.To, d.Promotion)
	case wire.InChat:
		var d wire.ChatData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			h.badRequest(c, "malformed chat payload")
			return
		}
		h.co.OnChat(c, d.RoomID, d.From, d.Message)
	case wire.InResign:
		var d wire.ResignData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			h.badRequest(c, "malformed resign payload")
			return
		}
		h.co.OnResign(c, d.RoomID)
	default:
		h.badRequest(c, "unknown message type")
	}
}

func (h *Handler) badRequest(c *conn, message string) {
	c.Send(wire.Outbound{Type: wire.OutError, Data: wire.Error{
		Code:    errCodeBadRequest,
		Message: message,
	}})
}

// decorate fills in human-readable text for error payloads that only carry a
// code, using the message catalog.
func (h *Handler) decorate(ev wire.Outbound) wire.Outbound {
	if h.cat == nil {
		return ev
	}
	switch data := ev.Data.(type) {
	case wire.Error:
		if data.Message == "" {
			data.Message = h.cat.Message("errors."+data.Code, data.Code)
			ev.Data = data
		}
	case wire.MoveResult:
		if data.Error != nil && data.Error.Message == "" {
			decorated := *data.Error
			decorated.Message = h.cat.Message("errors."+decorated.Code, decorated.Code)
			data.Error = &decorated
			ev.Data = data
		}
	}
	return ev
}
