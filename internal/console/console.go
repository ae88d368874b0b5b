// Package console is a line-oriented front end for playing games against
// the engine and managing the game archive.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/predictor"
	"github.com/hailam/chesscore/internal/storage"
)

// Mode selects who plays the side the user does not.
type Mode int

const (
	ModeHumanVsHuman Mode = iota
	ModeHumanVsComputer
)

func (m Mode) String() string {
	if m == ModeHumanVsHuman {
		return "human"
	}
	return "computer"
}

// Console runs one interactive session. Store and Predictor may be nil.
type Console struct {
	Engine    *engine.Engine
	Store     *storage.Storage
	Predictor predictor.Predictor
	Limits    engine.Limits

	game        *game.Game
	mode        Mode
	playerColor board.Color

	out io.Writer
}

// New creates a console playing white against the computer.
func New(eng *engine.Engine, limits engine.Limits, out io.Writer) *Console {
	c := &Console{
		Engine: eng,
		Limits: limits,
		mode:   ModeHumanVsComputer,
		out:    out,
	}
	c.reset(game.NewStandard())
	return c
}

// Game returns the game in progress.
func (c *Console) Game() *game.Game {
	return c.game
}

func (c *Console) reset(g *game.Game) {
	g.SetEngine(c.Engine)
	if c.Predictor != nil {
		g.SetPredictor(c.Predictor)
	}
	c.game = g
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Run reads commands from in until "quit" or end of input.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	c.reset(c.game)
	c.printf("chesscore: type 'help' for commands\n")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := c.Exec(ctx, fields[0], fields[1:]); err != nil {
			c.printf("error: %v\n", err)
		}
	}
	return scanner.Err()
}

// Exec runs a single command.
func (c *Console) Exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		c.help()
	case "new":
		return c.newGame(ctx, args)
	case "move", "m":
		if len(args) != 1 {
			return errors.New("usage: move <e2e4|Nf3>")
		}
		return c.move(ctx, args[0])
	case "ai":
		return c.aiMove(ctx)
	case "undo":
		return c.undo()
	case "board", "d":
		c.printf("%s\n", c.game.Position())
	case "fen":
		c.printf("%s\n", c.game.FEN())
	case "moves":
		c.printf("%s\n", strings.Join(c.game.LegalMoves(), " "))
	case "status":
		c.printf("%s\n", c.game.Status())
	case "pgn":
		c.printf("%s", c.game.PGN(game.PGNTags{Event: "chesscore game"}))
	case "mode":
		return c.setMode(ctx, args)
	case "color":
		return c.setColor(ctx, args)
	case "difficulty":
		if len(args) != 1 {
			return errors.New("usage: difficulty easy|medium|hard")
		}
		d, err := engine.ParseDifficulty(args[0])
		if err != nil {
			return err
		}
		threads, eval := c.Limits.Threads, c.Limits.Eval
		c.Limits = engine.DifficultySettings[d]
		c.Limits.Threads, c.Limits.Eval = threads, eval
		c.printf("difficulty %s\n", d)
	case "save", "load", "list", "delete", "stats":
		return c.archive(ctx, cmd, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (c *Console) help() {
	c.printf(`commands:
  new [fen]             start a new game
  move <move>           play a move (e2e4, e7e8q or SAN)
  ai                    let the computer move
  undo                  take back the last move
  board | fen | moves | status | pgn
  mode human|computer   choose the opponent
  color white|black     choose your side against the computer
  difficulty easy|medium|hard
  save | load <id> | list | delete <id> | stats
  quit
`)
}

func (c *Console) newGame(ctx context.Context, args []string) error {
	g := game.NewStandard()
	if len(args) > 0 {
		var err error
		if g, err = game.New(strings.Join(args, " ")); err != nil {
			return err
		}
	}
	c.reset(g)
	c.printf("new game\n")
	return c.maybeComputerMove(ctx)
}

// move accepts coordinate notation first and falls back to SAN.
func (c *Console) move(ctx context.Context, s string) error {
	var err error
	if _, perr := board.ParseDescriptor(s); perr == nil {
		_, err = c.game.ApplyUCI(s)
	} else {
		_, err = c.game.ApplySAN(s)
	}
	if err != nil {
		return err
	}
	moves := c.game.SANMoves()
	c.printf("%s\n", moves[len(moves)-1])
	c.reportStatus()
	return c.maybeComputerMove(ctx)
}

func (c *Console) aiMove(ctx context.Context) error {
	ai, err := c.game.RequestAIMove(ctx, c.Limits)
	if err != nil {
		return err
	}
	if ai.PredictorErr != nil {
		c.printf("predictor unavailable: %v\n", ai.PredictorErr)
	}
	c.printf("%s plays %s (%s, depth %d, %s)\n",
		ai.Move.Piece.Color(), ai.SAN, engine.ScoreToString(ai.Score), ai.Depth, ai.Source)
	c.reportStatus()
	return nil
}

// maybeComputerMove answers when it is the computer's turn.
func (c *Console) maybeComputerMove(ctx context.Context) error {
	if c.mode != ModeHumanVsComputer || c.game.Status().IsTerminal() || c.game.SideToMove() == c.playerColor {
		return nil
	}
	return c.aiMove(ctx)
}

func (c *Console) undo() error {
	n := 1
	if c.mode == ModeHumanVsComputer && c.game.SideToMove() == c.playerColor {
		n = 2 // the computer's reply and the user's move
	}
	for i := 0; i < n; i++ {
		m, err := c.game.Undo()
		if err != nil {
			if i > 0 {
				break
			}
			return err
		}
		c.printf("took back %s\n", m.UCI())
	}
	return nil
}

func (c *Console) setMode(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: mode human|computer")
	}
	switch args[0] {
	case "human":
		c.mode = ModeHumanVsHuman
	case "computer":
		c.mode = ModeHumanVsComputer
	default:
		return fmt.Errorf("unknown mode %q", args[0])
	}
	c.printf("mode %s\n", c.mode)
	return c.maybeComputerMove(ctx)
}

func (c *Console) setColor(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: color white|black")
	}
	switch args[0] {
	case "white":
		c.playerColor = board.White
	case "black":
		c.playerColor = board.Black
	default:
		return fmt.Errorf("unknown color %q", args[0])
	}
	c.printf("you play %s\n", c.playerColor)
	return c.maybeComputerMove(ctx)
}

// reportStatus announces check and the end of the game.
func (c *Console) reportStatus() {
	if msg := statusMessage(c.game.Status(), c.game.SideToMove()); msg != "" {
		c.printf("%s\n", msg)
	}
}

func statusMessage(s board.GameStatus, toMove board.Color) string {
	switch s {
	case board.Check:
		return "check"
	case board.Checkmate:
		if toMove == board.White {
			return "Black wins by checkmate!"
		}
		return "White wins by checkmate!"
	case board.Stalemate:
		return "Draw by stalemate"
	case board.DrawFiftyMove:
		return "Draw by 50-move rule"
	case board.DrawRepetition:
		return "Draw by threefold repetition"
	case board.DrawInsufficientMaterial:
		return "Draw by insufficient material"
	}
	return ""
}
