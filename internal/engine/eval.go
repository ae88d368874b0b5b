package engine

import "github.com/hailam/chesscore/internal/board"

// Evaluator scores a position in centipawns from the point of view of the
// side to move. Positive means the side to move stands better.
type Evaluator func(pos *board.Position) int

// mobilityWeight is the bonus per legal move of difference between the
// sides.
const mobilityWeight = 4

// Evaluators maps configuration names to evaluation functions.
var Evaluators = map[string]Evaluator{
	"standard": Evaluate,
	"material": EvaluateMaterial,
}

// Piece-square tables are drawn with rank 8 on the first row, as seen from
// white's side of the board. A white piece on sq reads entry sq^56, a black
// piece reads entry sq.

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMiddlegamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var pieceSquare = [7]*[64]int{
	board.Pawn:   &pawnPST,
	board.Knight: &knightPST,
	board.Bishop: &bishopPST,
	board.Rook:   &rookPST,
	board.Queen:  &queenPST,
}

// phaseWeight sums to 24 with all minor and major pieces on the board.
var phaseWeight = [7]int{board.Knight: 1, board.Bishop: 1, board.Rook: 2, board.Queen: 4}

// Evaluate combines material, piece-square tables and legal mobility.
func Evaluate(pos *board.Position) int {
	score := whiteStatic(pos)
	score += mobilityWeight * (pos.MobilityOf(board.White) - pos.MobilityOf(board.Black))
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// EvaluateMaterial is Evaluate without the mobility term. It is much
// cheaper and searches deeper in the same time.
func EvaluateMaterial(pos *board.Position) int {
	score := whiteStatic(pos)
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// whiteStatic returns material plus piece-square terms from white's view.
// The king table is tapered between middlegame and endgame by phase.
func whiteStatic(pos *board.Position) int {
	score, kingMg, kingEg, phase := 0, 0, 0, 0
	for _, c := range []board.Color{board.White, board.Black} {
		sign, flip := 1, board.Square(56)
		if c == board.Black {
			sign, flip = -1, 0
		}
		for pt := board.Pawn; pt < board.King; pt++ {
			for bb := pos.Pieces[c][pt]; bb != 0; {
				sq := bb.PopLSB() ^ flip
				score += sign * (board.PieceValue[pt] + pieceSquare[pt][sq])
				phase += phaseWeight[pt]
			}
		}
		ksq := pos.KingSquare[c] ^ flip
		kingMg += sign * kingMiddlegamePST[ksq]
		kingEg += sign * kingEndgamePST[ksq]
	}
	phase = min(phase, 24)
	return score + (kingMg*phase+kingEg*(24-phase))/24
}
