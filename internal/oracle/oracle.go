// Package oracle isolates the chess rules engine behind a small interface.
// The session coordinator treats positions as opaque and never reimplements
// legality, check, or mate detection.
package oracle

import "errors"

// Color identifies a chess side.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Valid reports whether c is a known color.
func (c Color) Valid() bool { return c == White || c == Black }

// Outcome is the terminal result of a position.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWhiteWon   Outcome = "white_won"
	OutcomeBlackWon   Outcome = "black_won"
	OutcomeDraw       Outcome = "draw"
)

// Move is an applied move, recorded in both UCI and SAN notation.
type Move struct {
	From      string
	To        string
	Promotion string
	UCI       string
	SAN       string
}

// Position carries the FEN of the current board plus the UCI move history
// that produced it. Callers must not interpret either field; the history is
// what the engine replays to honor repetition and fifty-move rules.
type Position struct {
	FEN   string
	Moves []string
}

// ErrIllegalMove is returned by TryMove when the candidate move is rejected.
var ErrIllegalMove = errors.New("illegal move")

// Rules is the full contract the coordinator requires from a chess engine.
type Rules interface {
	// Start returns the initial position.
	Start() Position
	// TryMove validates and applies one move. On rejection it returns
	// ErrIllegalMove and the position is unchanged.
	TryMove(pos Position, from, to, promotion string) (Position, Move, error)
	// TurnOf reports which side moves next.
	TurnOf(pos Position) Color
	// IsGameOver reports whether the position is terminal.
	IsGameOver(pos Position) bool
	// Outcome resolves the result of a terminal position.
	Outcome(pos Position) Outcome
}
