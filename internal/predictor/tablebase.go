package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// LichessTablebaseURL is the public endgame tablebase service.
const LichessTablebaseURL = "https://tablebase.lichess.ovh"

// Tablebase suggests the best move in endgames with few pieces by querying
// a Lichess-compatible tablebase API.
type Tablebase struct {
	baseURL   string
	client    *http.Client
	maxPieces int
}

// NewTablebase creates a tablebase client. Lichess covers up to seven
// pieces.
func NewTablebase(baseURL string, timeout time.Duration) *Tablebase {
	return &Tablebase{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		maxPieces: 7,
	}
}

type tablebaseResponse struct {
	Category string `json:"category"`
	DTZ      *int   `json:"dtz"`
	Moves    []struct {
		UCI      string `json:"uci"`
		Category string `json:"category"`
		DTZ      *int   `json:"dtz"`
	} `json:"moves"`
}

// categoryScore maps a tablebase verdict, from the side to move's point of
// view, to a score in pawns.
func categoryScore(category string) float64 {
	switch category {
	case "win":
		return 100
	case "loss":
		return -100
	}
	// maybe-win, cursed-win, blessed-loss, maybe-loss, draw and unknown
	// verdicts are treated as draws.
	return 0
}

// countPieces counts the pieces in the placement field of a FEN.
func countPieces(fen string) int {
	placement, _, _ := strings.Cut(fen, " ")
	n := 0
	for _, c := range placement {
		if board.PieceFromChar(byte(c)) != board.NoPiece {
			n++
		}
	}
	return n
}

func (t *Tablebase) Suggest(ctx context.Context, fen string) (Suggestion, error) {
	if countPieces(fen) > t.maxPieces {
		return Suggestion{}, ErrNotCovered
	}

	u := t.baseURL + "/standard?fen=" + url.QueryEscape(fen)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Suggestion{}, fmt.Errorf("predictor: %w", err)
	}
	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("predictor: tablebase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Suggestion{}, &StatusError{Code: resp.StatusCode, Body: resp.Status}
	}

	var tr tablebaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Suggestion{}, fmt.Errorf("predictor: decode tablebase response: %w", err)
	}
	// Moves are ordered best first.
	if len(tr.Moves) == 0 || tr.Category == "unknown" {
		return Suggestion{}, ErrNotCovered
	}
	best := tr.Moves[0]
	d, err := board.ParseDescriptor(best.UCI)
	if err != nil {
		return Suggestion{}, fmt.Errorf("predictor: bad move in tablebase response: %w", err)
	}

	return Suggestion{
		Move:         d,
		Score:        categoryScore(tr.Category),
		PV:           []string{best.UCI},
		ThinkingTime: time.Since(start),
	}, nil
}

// Chain tries each predictor in turn and returns the first suggestion.
type Chain []Predictor

func (c Chain) Suggest(ctx context.Context, fen string) (Suggestion, error) {
	var errs []error
	for _, p := range c {
		s, err := p.Suggest(ctx, fen)
		if err == nil {
			return s, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return Suggestion{}, errors.New("predictor: empty chain")
	}
	return Suggestion{}, errors.Join(errs...)
}
