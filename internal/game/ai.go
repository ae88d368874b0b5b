package game

import (
	"context"
	"fmt"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// Source says where an AI move came from.
type Source string

const (
	SourcePredictor Source = "predictor"
	SourceEngine    Source = "engine"
)

// DefaultHashMB sizes the engine created when none was set.
const DefaultHashMB = 16

// AIMove is a computer move that has been validated and played.
type AIMove struct {
	Move   board.Move
	SAN    string
	Score  int // centipawns from the mover's point of view
	PV     []string
	Nodes  uint64
	Depth  int
	Source Source

	// PredictorErr is set when a predictor was configured but its
	// suggestion could not be used.
	PredictorErr error
}

// RequestAIMove asks the predictor for a move, falling back to the search
// engine when there is no predictor or its suggestion fails validation.
// The chosen move is played.
func (g *Game) RequestAIMove(ctx context.Context, limits engine.Limits) (AIMove, error) {
	if g.status.IsTerminal() {
		return AIMove{}, &GameAlreadyTerminalError{Status: g.status}
	}

	var predErr error
	if g.predictor != nil {
		ai, err := g.fromPredictor(ctx)
		if err == nil {
			return ai, nil
		}
		predErr = err
	}

	ai, err := g.fromEngine(ctx, limits)
	if err != nil {
		return AIMove{}, err
	}
	ai.PredictorErr = predErr
	return ai, nil
}

func (g *Game) fromPredictor(ctx context.Context) (AIMove, error) {
	s, err := g.predictor.Suggest(ctx, g.FEN())
	if err != nil {
		return AIMove{}, err
	}
	m, err := g.Apply(s.Move)
	if err != nil {
		return AIMove{}, fmt.Errorf("predictor suggested %s: %w", s.Move, err)
	}
	return AIMove{
		Move:   m,
		SAN:    g.lastSAN(),
		Score:  int(s.Score * 100),
		PV:     s.PV,
		Nodes:  s.Nodes,
		Depth:  s.Depth,
		Source: SourcePredictor,
	}, nil
}

func (g *Game) fromEngine(ctx context.Context, limits engine.Limits) (AIMove, error) {
	if g.engine == nil {
		g.engine = engine.NewEngine(DefaultHashMB)
	}
	limits.History = g.History()

	res, err := g.engine.Search(ctx, g.pos, limits)
	if err != nil {
		return AIMove{}, err
	}
	if res.GameOver {
		return AIMove{}, &GameAlreadyTerminalError{Status: g.status}
	}

	d := board.Descriptor{From: res.Move.From, To: res.Move.To, Promotion: res.Move.Promotion}
	m, err := g.Apply(d)
	if err != nil {
		return AIMove{}, fmt.Errorf("engine returned %s: %w", d, err)
	}

	pv := make([]string, len(res.PV))
	for i, pm := range res.PV {
		pv[i] = pm.UCI()
	}
	return AIMove{
		Move:   m,
		SAN:    g.lastSAN(),
		Score:  res.Score,
		PV:     pv,
		Nodes:  res.Nodes,
		Depth:  res.Depth,
		Source: SourceEngine,
	}, nil
}

func (g *Game) lastSAN() string {
	return g.san[len(g.san)-1]
}
