package engine

import "github.com/hailam/chesscore/internal/board"

// Ordering bands. Every capture outranks every killer, and killers outrank
// plain history scores, which stay well below killerScore2.
const (
	ttMoveScore    = 10_000_000
	captureBase    = 1_000_000
	promotionBase  = 950_000
	killerScore1   = 900_000
	killerScore2   = 800_000
	historyCeiling = 400_000
)

// mvvLva[victim][attacker]: the most valuable victim first, and among
// equal victims the least valuable attacker first.
var mvvLva [7][7]int

func init() {
	for victim := board.Pawn; victim <= board.King; victim++ {
		for attacker := board.Pawn; attacker <= board.King; attacker++ {
			mvvLva[victim][attacker] = int(victim)*10 - int(attacker)
		}
	}
}

// MoveOrderer holds the per-worker ordering heuristics: killer moves per
// ply and a from/to history table for quiet moves.
type MoveOrderer struct {
	killers [MaxPly][2]board.Move
	history [64][64]int
}

// NewMoveOrderer returns an empty orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear drops killers and halves history so older searches fade out.
func (mo *MoveOrderer) Clear() {
	mo.killers = [MaxPly][2]board.Move{}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
}

// ScoreMoves fills scores with an ordering key for each move.
func (mo *MoveOrderer) ScoreMoves(moves []board.Move, scores []int, ply int, ttMove board.Move) []int {
	scores = scores[:0]
	for _, m := range moves {
		scores = append(scores, mo.scoreMove(m, ply, ttMove))
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(m board.Move, ply int, ttMove board.Move) int {
	switch {
	case m == ttMove:
		return ttMoveScore
	case m.IsCapture():
		s := captureBase + mvvLva[m.Captured.Type()][m.Piece.Type()]*1000
		if m.IsPromotion() {
			s += board.PieceValue[m.Promotion]
		}
		return s
	case m.IsPromotion():
		return promotionBase + board.PieceValue[m.Promotion]
	case ply < MaxPly && m == mo.killers[ply][0]:
		return killerScore1
	case ply < MaxPly && m == mo.killers[ply][1]:
		return killerScore2
	}
	return mo.history[m.From][m.To]
}

// PickMove swaps the best scored move in [index:] into index. Ties keep
// generation order.
func PickMove(moves []board.Move, scores []int, index int) {
	best := index
	for j := index + 1; j < len(moves); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves[index], moves[best] = moves[best], moves[index]
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a quiet move that caused a beta cutoff.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory rewards a quiet cutoff move by depth squared.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int) {
	h := &mo.history[m.From][m.To]
	*h += depth * depth
	if *h > historyCeiling {
		for i := range mo.history {
			for j := range mo.history[i] {
				mo.history[i][j] /= 2
			}
		}
	}
}
