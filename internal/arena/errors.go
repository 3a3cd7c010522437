package arena

import (
	"errors"

	"github.com/saad-bin-saud/my-chess-project/internal/oracle"
)

// Wire error codes for domain errors.
const (
	ErrCodeNotAPlayer   = "not_a_player"
	ErrCodeOutOfTurn    = "out_of_turn"
	ErrCodeIllegalMove  = "illegal_move"
	ErrCodeNoSuchRoom   = "no_such_room"
	ErrCodeRoomFull     = "room_full"
	ErrCodeColorTaken   = "color_taken"
	ErrCodeGameOver     = "game_over"
	ErrCodeEmptyMessage = "empty_message"
	ErrCodeInternal     = "internal"
)

var (
	ErrNotAPlayer   = errf("handle occupies no slot in this room")
	ErrOutOfTurn    = errf("not your turn")
	ErrIllegalMove  = errf("illegal move")
	ErrNoSuchRoom   = errf("no such room")
	ErrRoomFull     = errf("room already has two players")
	ErrColorTaken   = errf("requested color is taken")
	ErrGameOver     = errf("game is over")
	ErrEmptyMessage = errf("empty chat message")
)

type staticErr string

func (e staticErr) Error() string { return string(e) }
func errf(s string) error         { return staticErr(s) }

// Code maps a domain error to its wire code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotAPlayer):
		return ErrCodeNotAPlayer
	case errors.Is(err, ErrOutOfTurn):
		return ErrCodeOutOfTurn
	case errors.Is(err, ErrIllegalMove), errors.Is(err, oracle.ErrIllegalMove):
		return ErrCodeIllegalMove
	case errors.Is(err, ErrNoSuchRoom):
		return ErrCodeNoSuchRoom
	case errors.Is(err, ErrRoomFull):
		return ErrCodeRoomFull
	case errors.Is(err, ErrColorTaken):
		return ErrCodeColorTaken
	case errors.Is(err, ErrGameOver):
		return ErrCodeGameOver
	case errors.Is(err, ErrEmptyMessage):
		return ErrCodeEmptyMessage
	default:
		return ErrCodeInternal
	}
}
