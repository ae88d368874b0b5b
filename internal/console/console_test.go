package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

func newTest(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := New(engine.NewEngine(4), engine.Limits{Depth: 2}, &out)
	return c, &out
}

func runScript(t *testing.T, c *Console, script string) {
	t.Helper()
	if err := c.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestHumanVsHumanMate(t *testing.T) {
	c, out := newTest(t)
	runScript(t, c, "mode human\nmove f3\nmove e7e5\nmove g4\nmove Qh4#\nmove a3\nstatus\n")

	s := out.String()
	for _, want := range []string{"Qh4#", "Black wins by checkmate!", "game is over", "checkmate"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestComputerReplies(t *testing.T) {
	c, out := newTest(t)
	runScript(t, c, "move e2e4\n")

	if got := len(c.Game().Moves()); got != 2 {
		t.Fatalf("%d moves played, want 2:\n%s", got, out)
	}
	if !strings.Contains(out.String(), "black plays") {
		t.Errorf("no computer move reported:\n%s", out)
	}

	runScript(t, c, "undo\n")
	if got := len(c.Game().Moves()); got != 0 {
		t.Errorf("undo left %d moves, want 0", got)
	}
}

func TestComputerMovesFirstAsWhite(t *testing.T) {
	c, _ := newTest(t)
	runScript(t, c, "color black\n")
	if c.Game().SideToMove() != board.Black || len(c.Game().Moves()) != 1 {
		t.Errorf("computer did not open: moves %v", c.Game().UCIMoves())
	}
}

func TestIllegalMoveReported(t *testing.T) {
	c, out := newTest(t)
	runScript(t, c, "move e2e5\nmove Nf6\nbogus\n")
	s := out.String()
	if !strings.Contains(s, "error: illegal move e2e5") {
		t.Errorf("illegal move not reported:\n%s", s)
	}
	if !strings.Contains(s, `unknown command "bogus"`) {
		t.Errorf("unknown command not reported:\n%s", s)
	}
	if len(c.Game().Moves()) != 0 {
		t.Errorf("moves played: %v", c.Game().UCIMoves())
	}
}

func TestNewFromFEN(t *testing.T) {
	c, out := newTest(t)
	runScript(t, c, "mode human\nnew 8/8/8/8/8/8/k7/7K w - - 0 1\nstatus\nnew not a fen\n")
	s := out.String()
	if !strings.Contains(s, "draw_insufficient_material") {
		t.Errorf("status not reported:\n%s", s)
	}
	if !strings.Contains(s, "error: invalid FEN") {
		t.Errorf("bad FEN not reported:\n%s", s)
	}
}

func TestArchive(t *testing.T) {
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	c, out := newTest(t)
	c.Store = store
	runScript(t, c, "mode human\nmove e4\nmove c5\nsave\n")

	records, err := store.List()
	if err != nil || len(records) != 1 {
		t.Fatalf("List = %v, %v", records, err)
	}
	id := records[0].ID
	if !strings.Contains(out.String(), "saved "+id) {
		t.Errorf("save not reported:\n%s", out)
	}

	runScript(t, c, "new\nload "+id+"\nfen\nlist\nstats\ndelete "+id+"\nlist\n")
	s := out.String()
	if !strings.Contains(s, "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2") {
		t.Errorf("loaded position wrong:\n%s", s)
	}
	if !strings.Contains(s, "finished 0") || !strings.Contains(s, "no saved games") {
		t.Errorf("stats or list output wrong:\n%s", s)
	}
}

func TestArchiveWithoutStore(t *testing.T) {
	c, out := newTest(t)
	runScript(t, c, "save\n")
	if !strings.Contains(out.String(), errNoStore.Error()) {
		t.Errorf("missing store not reported:\n%s", out)
	}
}

func TestDifficulty(t *testing.T) {
	c, _ := newTest(t)
	c.Limits.Threads = 2
	runScript(t, c, "difficulty hard\n")
	if c.Limits.Depth != 7 || c.Limits.Threads != 2 {
		t.Errorf("Limits = %+v", c.Limits)
	}
}
