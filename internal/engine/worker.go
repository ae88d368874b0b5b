package engine

import (
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Worker runs iterative deepening on its own copy of the root position.
// Workers share only the transposition table and the stop flag.
type Worker struct {
	id      int
	pos     board.Position
	eval    Evaluator
	tt      *TranspositionTable
	stop    *atomic.Bool
	orderer *MoveOrderer

	nodes   atomic.Uint64
	pv      PVTable
	depth   int
	aborted bool

	// prevPV is the line from the last completed depth. onPV is set while
	// the search path still follows it.
	prevPV []board.Move
	onPV   bool

	// keys holds the repetition keys of every position before the current
	// one: the game history followed by the search path.
	keys []uint64

	moveBuf  [MaxPly][]board.Move
	scoreBuf [MaxPly][]int
}

// iteration is the outcome of one fully searched depth.
type iteration struct {
	Depth int
	Score int
	Move  board.Move
	PV    []board.Move
	Nodes uint64
}

func newWorker(id int, root *board.Position, history []uint64, eval Evaluator, tt *TranspositionTable, stop *atomic.Bool) *Worker {
	w := &Worker{
		id:      id,
		pos:     *root,
		eval:    eval,
		tt:      tt,
		stop:    stop,
		orderer: NewMoveOrderer(),
		keys:    make([]uint64, len(history), len(history)+MaxPly),
	}
	copy(w.keys, history)
	return w
}

// Nodes returns the number of nodes this worker has visited.
func (w *Worker) Nodes() uint64 {
	return w.nodes.Load()
}

// iterate deepens from depth 1 to maxDepth. Helper workers with an odd id
// start one ply deeper so the pool does not march in lockstep. After each
// completed depth onDone is called; returning false ends the loop.
func (w *Worker) iterate(maxDepth int, onDone func(iteration) bool) {
	start := 1
	if w.id%2 == 1 && maxDepth > 1 {
		start = 2
	}
	for depth := start; depth <= maxDepth; depth++ {
		w.depth = depth
		w.onPV = true
		score := w.negamax(depth, 0, -Infinity, Infinity)
		if w.aborted {
			return
		}
		it := iteration{
			Depth: depth,
			Score: score,
			Move:  w.pv.moves[0][0],
			PV:    w.pv.line(),
			Nodes: w.nodes.Load(),
		}
		w.prevPV = it.PV
		if onDone != nil && !onDone(it) {
			return
		}
		if IsMateScore(score) && MateScore-abs(score) <= depth {
			return
		}
	}
}

// visit counts a node and polls the shared stop flag every few thousand
// nodes. The first iteration always runs to completion so there is a move
// to return.
func (w *Worker) visit() bool {
	n := w.nodes.Add(1)
	if !w.aborted && w.depth > 1 && n&stopPollMask == 0 && w.stop.Load() {
		w.aborted = true
	}
	return w.aborted
}

func (w *Worker) isRepetition() bool {
	key := w.pos.Hash
	n := len(w.keys)
	for i := n - 1; i >= 0 && n-i <= w.pos.HalfMoveClock; i-- {
		if w.keys[i] == key {
			return true
		}
	}
	return false
}

// pvMove returns the previous iteration's move at ply while the search is
// still on that line. It stands in for the hash move when there is no
// transposition table or the probe misses.
func (w *Worker) pvMove(ply int) board.Move {
	if w.onPV && ply < len(w.prevPV) {
		return w.prevPV[ply]
	}
	return board.NoMove
}

// negamax is a fail-soft alpha-beta search. Scores are from the side to
// move's point of view.
func (w *Worker) negamax(depth, ply, alpha, beta int) int {
	if w.visit() {
		return 0
	}
	w.pv.length[ply] = ply
	pos := &w.pos

	if ply > 0 {
		if pos.IsInsufficientMaterial() || w.isRepetition() {
			return 0
		}
		// Checkmate takes precedence over the fifty-move rule.
		if pos.HalfMoveClock >= 100 && (!pos.InCheck() || pos.HasLegalMoves()) {
			return 0
		}
		if ply >= MaxPly-1 {
			return w.eval(pos)
		}
		// Mate distance pruning.
		alpha = max(alpha, -MateScore+ply)
		beta = min(beta, MateScore-ply-1)
		if alpha >= beta {
			return alpha
		}
	}

	inCheck := pos.InCheck()
	if inCheck && ply > 0 {
		depth++
	}
	if depth <= 0 {
		return w.quiescence(ply, alpha, beta)
	}

	ttMove := board.NoMove
	if w.tt != nil {
		if e, ok := w.tt.Probe(pos.Hash); ok {
			ttMove = e.BestMove
			if ply > 0 && int(e.Depth) >= depth {
				score := scoreFromTT(int(e.Score), ply)
				switch {
				case e.Bound == BoundExact,
					e.Bound == BoundLower && score >= beta,
					e.Bound == BoundUpper && score <= alpha:
					return score
				}
			}
		}
	}

	if ttMove == board.NoMove {
		ttMove = w.pvMove(ply)
	}

	moves := pos.AppendLegalMoves(w.moveBuf[ply][:0])
	w.moveBuf[ply] = moves
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}
	scores := w.orderer.ScoreMoves(moves, w.scoreBuf[ply], ply, ttMove)
	w.scoreBuf[ply] = scores

	alphaOrig := alpha
	best, bestMove := -Infinity, board.NoMove
	for i := range moves {
		PickMove(moves, scores, i)
		m := moves[i]

		u := pos.MakeMove(m)
		w.keys = append(w.keys, u.Hash)
		onPV := w.onPV
		w.onPV = onPV && m == w.pvMove(ply)
		score := -w.negamax(depth-1, ply+1, -beta, -alpha)
		w.onPV = onPV
		w.keys = w.keys[:len(w.keys)-1]
		pos.UnmakeMove(m, u)

		if w.aborted {
			return 0
		}
		if score <= best {
			continue
		}
		best, bestMove = score, m
		if score <= alpha {
			continue
		}
		alpha = score
		w.pv.update(ply, m)
		if alpha >= beta {
			if m.IsQuiet() {
				w.orderer.UpdateKillers(m, ply)
				w.orderer.UpdateHistory(m, depth)
			}
			break
		}
	}

	if w.tt != nil {
		bound := BoundExact
		switch {
		case best <= alphaOrig:
			bound = BoundUpper
		case best >= beta:
			bound = BoundLower
		}
		w.tt.Store(pos.Hash, depth, scoreToTT(best, ply), bound, bestMove)
	}
	return best
}

// quiescence extends the search along captures and promotions until the
// position is quiet, so the static evaluation is never taken mid-exchange.
func (w *Worker) quiescence(ply, alpha, beta int) int {
	if w.visit() {
		return 0
	}
	w.pv.length[ply] = ply
	pos := &w.pos

	standPat := w.eval(pos)
	if ply >= MaxPly-1 || standPat >= beta {
		return standPat
	}
	alpha = max(alpha, standPat)

	moves := pos.AppendCaptures(w.moveBuf[ply][:0])
	w.moveBuf[ply] = moves
	scores := w.orderer.ScoreMoves(moves, w.scoreBuf[ply], ply, board.NoMove)
	w.scoreBuf[ply] = scores

	for i := range moves {
		PickMove(moves, scores, i)
		m := moves[i]
		if !m.IsPromotion() && standPat+board.PieceValue[m.Captured.Type()]+deltaMargin < alpha {
			continue
		}

		u := pos.MakeMove(m)
		score := -w.quiescence(ply+1, -beta, -alpha)
		pos.UnmakeMove(m, u)

		if w.aborted {
			return 0
		}
		if score > alpha {
			alpha = score
			w.pv.update(ply, m)
			if alpha >= beta {
				break
			}
		}
	}
	return alpha
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
