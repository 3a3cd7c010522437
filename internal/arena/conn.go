package arena

import "github.com/saad-bin-saud/my-chess-project/pkg/wire"

// Conn is the opaque handle for one client connection, owned by the
// transport layer. The coordinator only stores and compares handles.
//
// Send must never block: the transport buffers outbound events and drops on
// slow consumers. ID must be stable and unique for the connection lifetime.
type Conn interface {
	ID() string
	Send(ev wire.Outbound)
}
