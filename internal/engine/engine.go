package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// Info is reported after every completed iteration of the main worker.
type Info struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // permille of the transposition table in use
}

// Limits specifies constraints on a search. At least one of Depth and
// MoveTime must be set.
type Limits struct {
	Depth    int           // maximum depth, 0 = only bounded by MoveTime
	MoveTime time.Duration // wall-clock budget, 0 = only bounded by Depth
	Threads  int           // 0 = the engine default
	Eval     Evaluator     // nil = Evaluate

	// History holds the repetition keys of the positions that led to the
	// root, oldest first. It lets the search see repetition draws.
	History []uint64
}

// Validate reports limits that cannot be searched as an
// *InvalidConfigurationError.
func (l Limits) Validate() error {
	switch {
	case l.Depth < 0:
		return &InvalidConfigurationError{Field: "depth", Value: l.Depth, Reason: "must not be negative"}
	case l.Depth > MaxDepth:
		return &InvalidConfigurationError{Field: "depth", Value: l.Depth, Reason: fmt.Sprintf("must be at most %d", MaxDepth)}
	case l.MoveTime < 0:
		return &InvalidConfigurationError{Field: "move time", Value: l.MoveTime, Reason: "must not be negative"}
	case l.Threads < 0:
		return &InvalidConfigurationError{Field: "threads", Value: l.Threads, Reason: "must not be negative"}
	case l.Depth == 0 && l.MoveTime == 0:
		return &InvalidConfigurationError{Field: "limits", Value: "depth 0, move time 0", Reason: "search would be unbounded"}
	}
	return nil
}

// Result is the outcome of a search. Score is from the side to move's point
// of view. GameOver is set when the root has no legal moves.
type Result struct {
	Move     board.Move
	Score    int
	PV       []board.Move
	Nodes    uint64
	Depth    int
	GameOver bool
}

// Difficulty is a named preset of search limits.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]Limits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 5, MoveTime: 2 * time.Second},
	Hard:   {Depth: 7, MoveTime: 5 * time.Second},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("engine: unknown difficulty %q", s)
}

// Engine searches positions for the best move. One search runs at a time;
// Stop may be called from any goroutine.
type Engine struct {
	tt      *TranspositionTable
	threads int

	// OnInfo, when set, is called from the search goroutine after every
	// completed iteration.
	OnInfo func(Info)

	mu   sync.Mutex
	stop atomic.Bool
}

// NewEngine creates an engine with a transposition table of hashMB
// megabytes. hashMB <= 0 disables the table.
func NewEngine(hashMB int) *Engine {
	e := &Engine{threads: 1}
	if hashMB > 0 {
		e.tt = NewTranspositionTable(hashMB)
	}
	return e
}

// SetThreads sets the default number of search workers.
func (e *Engine) SetThreads(n int) {
	e.threads = max(n, 1)
}

// Stop asks a running search to return its best result so far.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Clear empties the transposition table.
func (e *Engine) Clear() {
	if e.tt != nil {
		e.tt.Clear()
	}
}

// HashFull returns the transposition table usage in permille.
func (e *Engine) HashFull() int {
	if e.tt == nil {
		return 0
	}
	return e.tt.HashFull()
}

// Search finds the best move for pos within limits. pos is not modified.
// A deadline or cancelled ctx ends the search early with the deepest
// completed iteration; neither is an error.
func (e *Engine) Search(ctx context.Context, pos *board.Position, limits Limits) (Result, error) {
	if err := limits.Validate(); err != nil {
		return Result{}, err
	}
	legal := pos.GenerateLegalMoves()
	if len(legal) == 0 {
		return Result{GameOver: true}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stop.Store(false)
	if e.tt != nil {
		e.tt.NewSearch()
	}

	maxDepth := limits.Depth
	if maxDepth == 0 {
		maxDepth = MaxDepth
	}
	threads := limits.Threads
	if threads == 0 {
		threads = e.threads
	}
	eval := limits.Eval
	if eval == nil {
		eval = Evaluate
	}

	start := time.Now()
	if limits.MoveTime > 0 {
		timer := time.AfterFunc(limits.MoveTime, e.Stop)
		defer timer.Stop()
	}
	stopOnCancel := context.AfterFunc(ctx, e.Stop)
	defer stopOnCancel()

	workers := make([]*Worker, threads)
	for i := range workers {
		workers[i] = newWorker(i, pos, limits.History, eval, e.tt, &e.stop)
	}

	var best iteration
	report := func(it iteration) bool {
		best = it
		if e.OnInfo != nil {
			e.OnInfo(Info{
				Depth:    it.Depth,
				Score:    it.Score,
				Nodes:    sumNodes(workers),
				Time:     time.Since(start),
				PV:       it.PV,
				HashFull: e.HashFull(),
			})
		}
		// Another iteration would not finish in the remaining time.
		if limits.MoveTime > 0 && time.Since(start) > limits.MoveTime/2 {
			return false
		}
		return true
	}

	var g errgroup.Group
	for _, w := range workers {
		g.Go(func() error {
			if w.id == 0 {
				w.iterate(maxDepth, report)
				// Helpers stop when the main worker is done.
				e.Stop()
				return nil
			}
			w.iterate(maxDepth, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{
		Move:  best.Move,
		Score: best.Score,
		PV:    best.PV,
		Nodes: sumNodes(workers),
		Depth: best.Depth,
	}
	if !containsMove(legal, res.Move) {
		res.Move = legal[0]
		res.PV = []board.Move{legal[0]}
	}
	return res, nil
}

func sumNodes(workers []*Worker) uint64 {
	var n uint64
	for _, w := range workers {
		n += w.Nodes()
	}
	return n
}

func containsMove(moves []board.Move, m board.Move) bool {
	for _, lm := range moves {
		if lm == m {
			return true
		}
	}
	return false
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if n := MateIn(score); n > 0 {
		return fmt.Sprintf("Mate in %d", n)
	} else if n < 0 {
		return fmt.Sprintf("Mated in %d", -n)
	}
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
