package engine

import "github.com/hailam/chesscore/internal/board"

const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128

	// MaxDepth bounds the iterative deepening loop.
	MaxDepth = 64

	// stopPollMask sets how often workers look at the stop flag: once
	// every 2048 nodes.
	stopPollMask = 2047

	// deltaMargin is the slack quiescence allows before skipping a capture
	// that cannot raise alpha.
	deltaMargin = 200
)

// PVTable is the triangular principal variation table.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// update makes m followed by the child's line the new PV at ply.
func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	next := pv.length[ply+1]
	for i := ply + 1; i < next; i++ {
		pv.moves[ply][i] = pv.moves[ply+1][i]
	}
	pv.length[ply] = max(next, ply+1)
}

// line returns a copy of the root PV.
func (pv *PVTable) line() []board.Move {
	out := make([]board.Move, pv.length[0])
	copy(out, pv.moves[0][:pv.length[0]])
	return out
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// MateIn converts a mate score into moves to mate, negative when the side to
// move is being mated. It returns 0 for ordinary scores.
func MateIn(score int) int {
	switch {
	case score > MateScore-MaxPly:
		return (MateScore - score + 1) / 2
	case score < -MateScore+MaxPly:
		return -(MateScore + score + 1) / 2
	}
	return 0
}
