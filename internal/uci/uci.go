// Package uci drives the engine over the Universal Chess Interface.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
)

const (
	defaultHashMB = 64
	maxHashMB     = 4096
	maxThreads    = 256
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine  *engine.Engine
	game    *game.Game
	eval    string
	threads int

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serialises writes to out

	cancel     context.CancelFunc
	searchDone chan struct{} // nil when idle
}

// New creates a protocol handler reading commands from in and writing
// responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:  eng,
		game:    game.NewStandard(),
		eval:    "standard",
		threads: 1,
		in:      in,
		out:     out,
	}
}

// SetThreads sets the number of search threads.
func (u *UCI) SetThreads(n int) {
	u.threads = max(n, 1)
	u.engine.SetThreads(u.threads)
}

// SetEval selects a named evaluation function.
func (u *UCI) SetEval(name string) error {
	if _, ok := engine.Evaluators[name]; !ok {
		return fmt.Errorf("unknown eval %q", name)
	}
	u.eval = name
	return nil
}

func (u *UCI) send(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

// Run reads commands until "quit" or end of input. A search still running
// at end of input is allowed to finish.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.send("readyok")
		case "ucinewgame":
			u.handleStop()
			u.engine.Clear()
			u.game = game.NewStandard()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		default:
			u.send("info string unknown command: %s", cmd)
		}
	}
	u.wait()
	return scanner.Err()
}

func (u *UCI) handleUCI() {
	u.send("id name ChessCore")
	u.send("id author ChessCore Team")
	u.send("")
	u.send("option name Hash type spin default %d min 0 max %d", defaultHashMB, maxHashMB)
	u.send("option name Threads type spin default 1 min 1 max %d", maxThreads)
	u.send("option name Eval type combo default standard var standard var material")
	u.send("uciok")
}

// handlePosition sets up a position. Formats:
//   - position startpos [moves e2e4 e7e5 ...]
//   - position fen <fen> [moves ...]
//
// The previous position is kept when the command is invalid.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	movesAt := len(args)
	for i, a := range args {
		if a == "moves" {
			movesAt = i
			break
		}
	}

	var fen string
	switch args[0] {
	case "startpos":
		fen = board.StartFEN
	case "fen":
		fen = strings.Join(args[1:movesAt], " ")
	default:
		u.send("info string bad position command")
		return
	}

	var moves []string
	if movesAt < len(args) {
		moves = args[movesAt+1:]
	}
	g, err := game.Replay(fen, moves)
	if err != nil {
		u.send("info string invalid position: %v", err)
		return
	}
	u.game = g
}

// parseGo parses "go" arguments into clock limits. Unknown tokens and
// malformed numbers are skipped.
func parseGo(args []string) engine.ClockLimits {
	var c engine.ClockLimits
	next := func(i *int) int {
		if *i+1 >= len(args) {
			return 0
		}
		*i++
		n, _ := strconv.Atoi(args[*i])
		return max(n, 0)
	}
	ms := func(i *int) time.Duration {
		return time.Duration(next(i)) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			c.Depth = min(next(&i), engine.MaxDepth)
		case "movetime":
			c.MoveTime = ms(&i)
		case "infinite":
			c.Infinite = true
		case "wtime":
			c.Time[board.White] = ms(&i)
		case "btime":
			c.Time[board.Black] = ms(&i)
		case "winc":
			c.Inc[board.White] = ms(&i)
		case "binc":
			c.Inc[board.Black] = ms(&i)
		case "movestogo":
			c.MovesToGo = next(&i)
		}
	}
	return c
}

// handleGo starts a search in the background. "stop" or the next
// position-changing command ends it.
func (u *UCI) handleGo(args []string) {
	u.handleStop()

	pos := u.game.Position()
	ply := (pos.FullMoveNumber-1)*2 + int(pos.SideToMove)
	limits := parseGo(args).Limits(pos.SideToMove, ply)
	limits.Threads = u.threads
	limits.Eval = engine.Evaluators[u.eval]
	limits.History = u.game.History()

	u.engine.OnInfo = u.sendInfo
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	u.cancel, u.searchDone = cancel, done

	go func() {
		defer close(done)
		res, err := u.engine.Search(ctx, pos, limits)
		switch {
		case err != nil:
			u.send("info string search failed: %v", err)
			u.send("bestmove 0000")
		case res.GameOver:
			u.send("bestmove 0000")
		default:
			u.send("bestmove %s", res.Move.UCI())
		}
	}()
}

func (u *UCI) sendInfo(info engine.Info) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d", info.Depth)
	if n := engine.MateIn(info.Score); n != 0 {
		fmt.Fprintf(&sb, " score mate %d", n)
	} else {
		fmt.Fprintf(&sb, " score cp %d", info.Score)
	}
	fmt.Fprintf(&sb, " nodes %d time %d", info.Nodes, info.Time.Milliseconds())
	if info.Time > 0 {
		fmt.Fprintf(&sb, " nps %d", uint64(float64(info.Nodes)/info.Time.Seconds()))
	}
	if info.HashFull > 0 {
		fmt.Fprintf(&sb, " hashfull %d", info.HashFull)
	}
	if len(info.PV) > 0 {
		sb.WriteString(" pv")
		for _, m := range info.PV {
			sb.WriteString(" " + m.UCI())
		}
	}
	u.send("%s", sb.String())
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.cancel != nil {
		u.cancel()
	}
	u.wait()
}

func (u *UCI) wait() {
	if u.searchDone != nil {
		<-u.searchDone
		u.cancel()
		u.cancel, u.searchDone = nil, nil
	}
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value []string
	var target *[]string
	for _, a := range args {
		switch a {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, a)
			}
		}
	}
	val := strings.Join(value, " ")

	switch strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		mb, err := strconv.Atoi(val)
		if err != nil || mb < 0 || mb > maxHashMB {
			u.send("info string bad Hash value %q", val)
			return
		}
		u.handleStop()
		onInfo := u.engine.OnInfo
		u.engine = engine.NewEngine(mb)
		u.engine.OnInfo = onInfo
		u.engine.SetThreads(u.threads)
	case "threads":
		n, err := strconv.Atoi(val)
		if err != nil || n < 1 || n > maxThreads {
			u.send("info string bad Threads value %q", val)
			return
		}
		u.SetThreads(n)
	case "eval":
		if err := u.SetEval(val); err != nil {
			u.send("info string %v", err)
		}
	default:
		u.send("info string unknown option %q", strings.Join(name, " "))
	}
}

func (u *UCI) handleDisplay() {
	pos := u.game.Position()
	u.send("%s", strings.TrimSuffix(pos.String(), "\n"))
	u.send("Status: %s", u.game.Status())
	u.send("Eval: %s", engine.ScoreToString(engine.Evaluators[u.eval](pos)))
}

// handlePerft prints a divide of the current position and the total, in
// the format perft comparison tools expect.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.send("info string bad perft depth %q", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	var total uint64
	for _, e := range u.game.Position().PerftDivide(depth) {
		u.send("%s: %d", e.Move.UCI(), e.Nodes)
		total += e.Nodes
	}
	elapsed := time.Since(start)
	u.send("")
	u.send("Nodes searched: %d", total)
	u.send("info string time %dms", elapsed.Milliseconds())
}
