package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// HTTPClient calls a predictor service over HTTP: POST <base>/predict with
// the position as JSON and the API key in the api-key header.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	FEN         string `json:"fen"`
	PlayerColor string `json:"playerColor"`
}

type predictResponse struct {
	From         string   `json:"from"`
	To           string   `json:"to"`
	Promotion    *string  `json:"promotion"`
	Score        float64  `json:"score"`
	PV           []string `json:"pv"`
	Depth        int      `json:"depth"`
	Nodes        uint64   `json:"nodes"`
	ThinkingTime int64    `json:"thinkingTime"` // milliseconds
}

// Suggest asks the service for a move.
func (c *HTTPClient) Suggest(ctx context.Context, fen string) (Suggestion, error) {
	body, err := json.Marshal(predictRequest{FEN: fen, PlayerColor: sideToMove(fen)})
	if err != nil {
		return Suggestion{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return Suggestion{}, fmt.Errorf("predictor: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("predictor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Suggestion{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Suggestion{}, fmt.Errorf("predictor: decode response: %w", err)
	}

	uci := pr.From + pr.To
	if pr.Promotion != nil {
		uci += strings.ToLower(*pr.Promotion)
	}
	d, err := board.ParseDescriptor(uci)
	if err != nil {
		return Suggestion{}, fmt.Errorf("predictor: bad move in response: %w", err)
	}

	return Suggestion{
		Move:         d,
		Score:        pr.Score,
		PV:           pr.PV,
		Depth:        pr.Depth,
		Nodes:        pr.Nodes,
		ThinkingTime: time.Duration(pr.ThinkingTime) * time.Millisecond,
	}, nil
}
