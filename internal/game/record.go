package game

import (
	"fmt"

	"github.com/hailam/chesscore/internal/storage"
)

// Record snapshots the game for the archive.
func (g *Game) Record() *storage.Record {
	return &storage.Record{
		ID:       g.ID,
		StartFEN: g.startFEN,
		Moves:    g.UCIMoves(),
		Status:   g.status.String(),
		Result:   g.Result(),
		FEN:      g.FEN(),
	}
}

// Restore rebuilds a game from an archived record by replaying its moves.
func Restore(r *storage.Record) (*Game, error) {
	g, err := Replay(r.StartFEN, r.Moves)
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", r.ID, err)
	}
	if r.FEN != "" && g.FEN() != r.FEN {
		return nil, fmt.Errorf("restore %s: replay ends at %q, record says %q", r.ID, g.FEN(), r.FEN)
	}
	g.ID = r.ID
	return g, nil
}
