package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saad-bin-saud/my-chess-project/internal/arena"
	"github.com/saad-bin-saud/my-chess-project/internal/msgcat"
	"github.com/saad-bin-saud/my-chess-project/pkg/pgn"
)

// NewRouter assembles the HTTP surface: health probe, the WebSocket
// endpoint, and a PGN export per room.
func NewRouter(co *arena.Coordinator, cat *msgcat.Catalog, origins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws", gin.WrapH(NewHandler(co, cat, origins)))

	r.GET("/rooms/:id/pgn", func(c *gin.Context) {
		snap, ok := co.Snapshot(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": arena.ErrCodeNoSuchRoom})
			return
		}
		out := pgn.Build(pgn.Game{
			Event:       "Online Match",
			Site:        "chess-server",
			White:       snap.Players.White,
			Black:       snap.Players.Black,
			Date:        snap.UpdatedAt,
			MovesSAN:    snap.MovesSAN,
			Result:      pgnResult(snap),
			Termination: pgnTermination(snap),
		})
		c.Data(http.StatusOK, "application/x-chess-pgn", []byte(out))
	})

	return r
}

func pgnResult(snap arena.Snapshot) string {
	switch snap.Status {
	case arena.StatusFinished, arena.StatusResigned:
		return string(snap.Winner)
	case arena.StatusDraw:
		return "draw"
	default:
		return ""
	}
}

func pgnTermination(snap arena.Snapshot) string {
	switch snap.Status {
	case arena.StatusResigned:
		return "resigned"
	case arena.StatusFinished:
		return "checkmate"
	default:
		return ""
	}
}
