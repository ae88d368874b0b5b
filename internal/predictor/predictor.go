// Package predictor is the client side of the external learned move
// predictor. Its suggestions are advisory: callers validate them like any
// other move before applying.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// Suggestion is a move proposed by a predictor.
type Suggestion struct {
	Move         board.Descriptor
	Score        float64 // pawns, from the side to move's point of view
	PV           []string
	Depth        int
	Nodes        uint64
	ThinkingTime time.Duration
}

// Predictor proposes a move for the position given in FEN.
type Predictor interface {
	Suggest(ctx context.Context, fen string) (Suggestion, error)
}

// ErrNotCovered is returned by sources that have nothing to say about a
// position, such as a book miss or an endgame with too many pieces.
var ErrNotCovered = errors.New("predictor: position not covered")

// StatusError is returned when the predictor answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("predictor: status %d: %s", e.Code, e.Body)
}

// sideToMove reads the active colour field of a FEN.
func sideToMove(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 1 && fields[1] == "b" {
		return board.Black.String()
	}
	return board.White.String()
}
