package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/board"
)

// GameAlreadyTerminalError is returned when a move is attempted after the
// game has ended.
type GameAlreadyTerminalError struct {
	Status board.GameStatus
}

func (e *GameAlreadyTerminalError) Error() string {
	return fmt.Sprintf("game is over: %s", e.Status)
}
