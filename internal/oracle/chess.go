package oracle

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Engine implements Rules on top of corentings/chess. It is stateless: every
// call replays the stored UCI history from the start position, so repetition
// and fifty-move tracking stay correct without keeping live game objects.
type Engine struct{}

// NewEngine returns the chess rules engine.
func NewEngine() *Engine { return &Engine{} }

func (e *Engine) Start() Position {
	return Position{FEN: nchess.NewGame().FEN()}
}

func (e *Engine) TryMove(pos Position, from, to, promotion string) (Position, Move, error) {
	game := reconstruct(pos.Moves)
	if game == nil {
		return Position{}, Move{}, fmt.Errorf("corrupt move history (%d moves)", len(pos.Moves))
	}

	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	promotion = strings.ToLower(strings.TrimSpace(promotion))
	uci := from + to + promotion
	if len(from) != 2 || len(to) != 2 {
		return Position{}, Move{}, ErrIllegalMove
	}

	p := game.Position()
	mv, err := nchess.UCINotation{}.Decode(p, uci)
	if err != nil {
		return Position{}, Move{}, ErrIllegalMove
	}
	if err := game.Move(mv, nil); err != nil {
		return Position{}, Move{}, ErrIllegalMove
	}
	san := nchess.AlgebraicNotation{}.Encode(p, mv)

	history := make([]string, 0, len(pos.Moves)+1)
	history = append(history, pos.Moves...)
	history = append(history, uci)

	next := Position{FEN: game.FEN(), Moves: history}
	return next, Move{From: from, To: to, Promotion: promotion, UCI: uci, SAN: san}, nil
}

func (e *Engine) TurnOf(pos Position) Color {
	game := reconstruct(pos.Moves)
	if game == nil || game.Position().Turn() == nchess.White {
		return White
	}
	return Black
}

func (e *Engine) IsGameOver(pos Position) bool {
	game := reconstruct(pos.Moves)
	return game != nil && game.Outcome() != nchess.NoOutcome
}

func (e *Engine) Outcome(pos Position) Outcome {
	game := reconstruct(pos.Moves)
	if game == nil {
		return OutcomeInProgress
	}
	switch game.Outcome() {
	case nchess.WhiteWon:
		return OutcomeWhiteWon
	case nchess.BlackWon:
		return OutcomeBlackWon
	case nchess.Draw:
		return OutcomeDraw
	default:
		return OutcomeInProgress
	}
}

// reconstruct replays UCI moves from the start position. Returns nil when the
// history does not replay cleanly.
func reconstruct(moves []string) *nchess.Game {
	game := nchess.NewGame()
	for _, mv := range moves {
		if err := game.PushNotationMove(mv, nchess.UCINotation{}, nil); err != nil {
			return nil
		}
	}
	return game
}
