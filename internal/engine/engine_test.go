package engine

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

func mustFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	before := *pos
	eng := NewEngine(16)

	res, err := eng.Search(context.Background(), pos, Limits{Depth: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !slices.Contains(pos.GenerateLegalMoves(), res.Move) {
		t.Errorf("Search returned illegal move %s", res.Move)
	}
	if res.Depth != 3 {
		t.Errorf("Depth = %d, want 3", res.Depth)
	}
	if res.Nodes == 0 {
		t.Error("Nodes = 0")
	}
	if len(res.PV) == 0 || res.PV[0] != res.Move {
		t.Errorf("PV %v does not start with %s", res.PV, res.Move)
	}
	if *pos != before {
		t.Error("Search modified the root position")
	}
}

func TestSearchFindsMate(t *testing.T) {
	tests := []struct {
		name    string
		fen     string
		want    string
		threads int
	}{
		{"fools mate", "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2", "d8h4", 1},
		{"back rank", "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "a1a8", 1},
		{"back rank smp", "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "a1a8", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewEngine(8)
			res, err := eng.Search(context.Background(), mustFEN(t, tt.fen), Limits{Depth: 4, Threads: tt.threads})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Move.UCI() != tt.want {
				t.Errorf("Move = %s, want %s", res.Move.UCI(), tt.want)
			}
			if res.Score != MateScore-1 {
				t.Errorf("Score = %d, want %d", res.Score, MateScore-1)
			}
			if MateIn(res.Score) != 1 {
				t.Errorf("MateIn = %d, want 1", MateIn(res.Score))
			}
		})
	}
}

func TestSearchWinsHangingQueen(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3q4/8/8/8/3QK3 w - - 0 1")
	res, err := NewEngine(8).Search(context.Background(), pos, Limits{Depth: 3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move.UCI() != "d1d5" {
		t.Errorf("Move = %s, want d1d5", res.Move.UCI())
	}
	if res.Score < 500 {
		t.Errorf("Score = %d, want a winning score", res.Score)
	}
}

func TestSearchWithoutTranspositionTable(t *testing.T) {
	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	res, err := NewEngine(0).Search(context.Background(), pos, Limits{Depth: 3, Eval: EvaluateMaterial})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move.UCI() != "a1a8" {
		t.Errorf("Move = %s, want a1a8", res.Move.UCI())
	}
}

func TestSearchMateOnHundredthHalfMove(t *testing.T) {
	// Ra8 is mate and also the hundredth half-move without a capture or
	// pawn move. Mate wins over the fifty-move draw.
	pos := mustFEN(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 99 80")
	res, err := NewEngine(1).Search(context.Background(), pos, Limits{Depth: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move.UCI() != "a1a8" || MateIn(res.Score) != 1 {
		t.Errorf("got %s (%s), want a1a8 mate in 1", res.Move.UCI(), ScoreToString(res.Score))
	}

	// Without mate the position is a draw one ply later.
	pos = mustFEN(t, "6k1/5pp1/7p/8/8/8/8/R5K1 w - - 99 80")
	res, err = NewEngine(1).Search(context.Background(), pos, Limits{Depth: 2, Eval: EvaluateMaterial})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Score != 0 {
		t.Errorf("Score = %d, want 0 for a fifty-move draw", res.Score)
	}
}

func TestWorkerFollowsPreviousPV(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1")
	var stop atomic.Bool
	w := newWorker(0, pos, nil, EvaluateMaterial, nil, &stop)
	w.iterate(3, nil)

	if len(w.prevPV) == 0 || w.prevPV[0].UCI() != "d1d5" {
		t.Fatalf("prevPV = %v, want a line starting d1d5", w.prevPV)
	}
	w.onPV = true
	for ply, m := range w.prevPV {
		if got := w.pvMove(ply); got != m {
			t.Errorf("pvMove(%d) = %s, want %s", ply, got.UCI(), m.UCI())
		}
	}
	if got := w.pvMove(len(w.prevPV)); got != board.NoMove {
		t.Errorf("pvMove past the line = %s, want none", got.UCI())
	}
	w.onPV = false
	if got := w.pvMove(0); got != board.NoMove {
		t.Errorf("pvMove off the line = %s, want none", got.UCI())
	}
}

func TestSearchInvalidLimits(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		field  string
	}{
		{"negative depth", Limits{Depth: -1}, "depth"},
		{"depth too large", Limits{Depth: MaxDepth + 1}, "depth"},
		{"negative move time", Limits{Depth: 2, MoveTime: -time.Second}, "move time"},
		{"negative threads", Limits{Depth: 2, Threads: -2}, "threads"},
		{"unbounded", Limits{}, "limits"},
	}
	eng := NewEngine(1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Search(context.Background(), board.NewPosition(), tt.limits)
			var cfgErr *InvalidConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *InvalidConfigurationError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestSearchGameOver(t *testing.T) {
	for _, fen := range []string{
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",                             // stalemate
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", // mated
	} {
		res, err := NewEngine(1).Search(context.Background(), mustFEN(t, fen), Limits{Depth: 3})
		if err != nil {
			t.Fatalf("%s: Search: %v", fen, err)
		}
		if !res.GameOver || res.Move != board.NoMove {
			t.Errorf("%s: got %+v, want GameOver with no move", fen, res)
		}
	}
}

func TestSearchDeadline(t *testing.T) {
	pos := board.NewPosition()
	start := time.Now()
	res, err := NewEngine(16).Search(context.Background(), pos, Limits{MoveTime: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("search took %v with a 50ms budget", elapsed)
	}
	if res.Depth < 1 {
		t.Errorf("Depth = %d, want at least one completed iteration", res.Depth)
	}
	if !slices.Contains(pos.GenerateLegalMoves(), res.Move) {
		t.Errorf("Search returned illegal move %s", res.Move)
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pos := board.NewPosition()
	res, err := NewEngine(16).Search(ctx, pos, Limits{Depth: MaxDepth, Threads: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Depth < 1 || !slices.Contains(pos.GenerateLegalMoves(), res.Move) {
		t.Errorf("got %+v, want a legal move from a completed iteration", res)
	}
}

func TestSearchReportsInfo(t *testing.T) {
	eng := NewEngine(8)
	var depths []int
	eng.OnInfo = func(info Info) {
		depths = append(depths, info.Depth)
		if len(info.PV) == 0 {
			t.Errorf("depth %d: empty PV", info.Depth)
		}
	}
	if _, err := eng.Search(context.Background(), board.NewPosition(), Limits{Depth: 3}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !slices.Equal(depths, []int{1, 2, 3}) {
		t.Errorf("reported depths %v, want [1 2 3]", depths)
	}
}

func TestWorkerRepetition(t *testing.T) {
	pos := board.NewPosition()
	var history []uint64
	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		d, err := board.ParseDescriptor(uci)
		if err != nil {
			t.Fatal(err)
		}
		m, err := pos.Resolve(d)
		if err != nil {
			t.Fatal(err)
		}
		history = append(history, pos.Hash)
		pos.MakeMove(m)
	}

	var stop atomic.Bool
	w := newWorker(0, pos, history, Evaluate, nil, &stop)
	if !w.isRepetition() {
		t.Error("isRepetition = false after a knight shuffle")
	}
	w = newWorker(0, pos, nil, Evaluate, nil, &stop)
	if w.isRepetition() {
		t.Error("isRepetition = true without history")
	}
}

func TestEvaluate(t *testing.T) {
	if got := Evaluate(board.NewPosition()); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
	white := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	if Evaluate(white) <= 0 {
		t.Errorf("Evaluate(queen up, white to move) = %d, want > 0", Evaluate(white))
	}
	if Evaluate(black) >= 0 {
		t.Errorf("Evaluate(queen up, black to move) = %d, want < 0", Evaluate(black))
	}
	for name, eval := range Evaluators {
		if got := eval(white); got < board.PieceValue[board.Queen]-100 {
			t.Errorf("%s: eval = %d, want roughly a queen", name, got)
		}
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{150, "1.50"},
		{-5, "-0.05"},
		{MateScore - 1, "Mate in 1"},
		{MateScore - 3, "Mate in 2"},
		{-MateScore + 2, "Mated in 1"},
	}
	for _, tt := range tests {
		if got := ScoreToString(tt.score); got != tt.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	for d := Easy; d <= Hard; d++ {
		got, err := ParseDifficulty(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %v, %v", d.String(), got, err)
		}
		if err := DifficultySettings[d].Validate(); err != nil {
			t.Errorf("%s limits invalid: %v", d, err)
		}
	}
	if _, err := ParseDifficulty("grandmaster"); err == nil {
		t.Error("ParseDifficulty accepted an unknown level")
	}
}

func TestClockLimits(t *testing.T) {
	fixed := ClockLimits{MoveTime: time.Second}.Limits(board.White, 0)
	if fixed.MoveTime != time.Second {
		t.Errorf("movetime: MoveTime = %v", fixed.MoveTime)
	}

	inf := ClockLimits{Infinite: true}.Limits(board.White, 0)
	if inf.Depth != MaxDepth || inf.MoveTime != 0 {
		t.Errorf("infinite: got %+v", inf)
	}

	clock := ClockLimits{Time: [2]time.Duration{time.Minute, time.Second}}
	l := clock.Limits(board.White, 20)
	if l.MoveTime < minMoveTime || l.MoveTime > time.Minute*8/10 {
		t.Errorf("white clock: MoveTime = %v", l.MoveTime)
	}
	short := clock.Limits(board.Black, 20)
	if short.MoveTime >= l.MoveTime {
		t.Errorf("black with less time got %v >= %v", short.MoveTime, l.MoveTime)
	}
	if err := short.Validate(); err != nil {
		t.Errorf("clock limits invalid: %v", err)
	}
}
