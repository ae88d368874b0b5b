// Package game owns the canonical state of one game: the board, the
// positions it passed through and the moves played. Every move, whether
// from a client, the predictor or the engine, is validated here before the
// board changes.
package game

import (
	"fmt"
	"slices"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/predictor"
)

// Game is not safe for concurrent use.
type Game struct {
	ID string // archive id, empty until first saved

	startFEN string
	pos      *board.Position
	history  []uint64 // repetition keys of the positions before pos
	moves    []board.Move
	undos    []board.Undo
	san      []string
	status   board.GameStatus

	predictor predictor.Predictor
	engine    *engine.Engine
}

// New starts a game from fen.
func New(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	g := &Game{startFEN: pos.ToFEN(), pos: pos}
	g.status = pos.Status(nil)
	return g, nil
}

// NewStandard starts a game from the initial position.
func NewStandard() *Game {
	g, err := New(board.StartFEN)
	if err != nil {
		panic(err)
	}
	return g
}

// Replay starts a game from startFEN and plays the UCI moves through the
// same validation as Apply.
func Replay(startFEN string, uciMoves []string) (*Game, error) {
	g, err := New(startFEN)
	if err != nil {
		return nil, err
	}
	for i, s := range uciMoves {
		if _, err := g.ApplyUCI(s); err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, s, err)
		}
	}
	return g, nil
}

// SetPredictor installs the external move predictor consulted by
// RequestAIMove. nil disables it.
func (g *Game) SetPredictor(p predictor.Predictor) {
	g.predictor = p
}

// SetEngine sets the engine used by RequestAIMove.
func (g *Game) SetEngine(e *engine.Engine) {
	g.engine = e
}

// Apply validates d against the current position and plays it. The board
// is untouched when an error is returned.
func (g *Game) Apply(d board.Descriptor) (board.Move, error) {
	if g.status.IsTerminal() {
		return board.NoMove, &GameAlreadyTerminalError{Status: g.status}
	}
	m, err := g.pos.Resolve(d)
	if err != nil {
		return board.NoMove, err
	}
	g.play(m)
	return m, nil
}

// ApplyUCI parses and applies a coordinate move such as "e7e8q".
func (g *Game) ApplyUCI(s string) (board.Move, error) {
	d, err := board.ParseDescriptor(s)
	if err != nil {
		return board.NoMove, err
	}
	return g.Apply(d)
}

// ApplySAN parses and applies a move in algebraic notation.
func (g *Game) ApplySAN(s string) (board.Move, error) {
	if g.status.IsTerminal() {
		return board.NoMove, &GameAlreadyTerminalError{Status: g.status}
	}
	m, err := board.ParseSAN(s, g.pos)
	if err != nil {
		return board.NoMove, err
	}
	return g.Apply(board.Descriptor{From: m.From, To: m.To, Promotion: m.Promotion})
}

func (g *Game) play(m board.Move) {
	g.san = append(g.san, m.SAN(g.pos))
	g.history = append(g.history, g.pos.RepetitionKey())
	g.undos = append(g.undos, g.pos.MakeMove(m))
	g.moves = append(g.moves, m)
	g.status = g.pos.Status(g.history)
}

// Undo takes back the last move.
func (g *Game) Undo() (board.Move, error) {
	n := len(g.moves)
	if n == 0 {
		return board.NoMove, fmt.Errorf("no moves to undo")
	}
	m := g.moves[n-1]
	g.pos.UnmakeMove(m, g.undos[n-1])
	g.moves = g.moves[:n-1]
	g.undos = g.undos[:n-1]
	g.san = g.san[:n-1]
	g.history = g.history[:n-1]
	g.status = g.pos.Status(g.history)
	return m, nil
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// FEN returns the current position in FEN.
func (g *Game) FEN() string {
	return g.pos.ToFEN()
}

// StartFEN returns the position the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// SideToMove returns the colour to move.
func (g *Game) SideToMove() board.Color {
	return g.pos.SideToMove
}

// Status returns the status of the current position.
func (g *Game) Status() board.GameStatus {
	return g.status
}

// LegalMoves lists the legal moves in SAN.
func (g *Game) LegalMoves() []string {
	legal := g.pos.GenerateLegalMoves()
	out := make([]string, len(legal))
	for i, m := range legal {
		out[i] = m.SAN(g.pos)
	}
	return out
}

// Moves returns the moves played so far.
func (g *Game) Moves() []board.Move {
	return slices.Clone(g.moves)
}

// SANMoves returns the moves played so far in SAN.
func (g *Game) SANMoves() []string {
	return slices.Clone(g.san)
}

// UCIMoves returns the moves played so far in coordinate notation.
func (g *Game) UCIMoves() []string {
	out := make([]string, len(g.moves))
	for i, m := range g.moves {
		out[i] = m.UCI()
	}
	return out
}

// History returns the repetition keys of the positions before the current
// one, oldest first.
func (g *Game) History() []uint64 {
	return slices.Clone(g.history)
}

// Result returns the PGN result token.
func (g *Game) Result() string {
	switch {
	case g.status == board.Checkmate && g.pos.SideToMove == board.Black:
		return "1-0"
	case g.status == board.Checkmate:
		return "0-1"
	case g.status.IsDraw():
		return "1/2-1/2"
	}
	return "*"
}
