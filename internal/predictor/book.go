package predictor

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// BookEntry is one move stored for a position in a Polyglot book.
type BookEntry struct {
	Move   board.Descriptor
	Weight uint16
}

// Book suggests opening moves from a Polyglot book. Among several moves for
// a position it picks one at random in proportion to the weights.
type Book struct {
	entries map[uint64][]BookEntry
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{entries: make(map[uint64][]BookEntry)}
}

// LoadBook reads a Polyglot book file.
func LoadBook(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("predictor: open book: %w", err)
	}
	defer f.Close()
	return ReadBook(bufio.NewReader(f))
}

// ReadBook reads Polyglot entries from r. Each entry is 16 big-endian bytes:
// the position key, the move, the weight and four bytes of learn data.
func ReadBook(r io.Reader) (*Book, error) {
	b := NewBook()
	var rec [16]byte
	for {
		_, err := io.ReadFull(r, rec[:])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("predictor: read book: %w", err)
		}
		key := binary.BigEndian.Uint64(rec[0:8])
		b.Add(key, BookEntry{
			Move:   decodePolyglotMove(binary.BigEndian.Uint16(rec[8:10])),
			Weight: binary.BigEndian.Uint16(rec[10:12]),
		})
	}
	return b, nil
}

// Add stores an entry for the position key, keeping entries heaviest first.
func (b *Book) Add(key uint64, e BookEntry) {
	entries := append(b.entries[key], e)
	slices.SortStableFunc(entries, func(x, y BookEntry) int {
		return int(y.Weight) - int(x.Weight)
	})
	b.entries[key] = entries
}

// Size returns the number of positions in the book.
func (b *Book) Size() int {
	return len(b.entries)
}

// Entries returns the moves stored for pos, heaviest first.
func (b *Book) Entries(pos *board.Position) []BookEntry {
	return slices.Clone(b.entries[pos.PolyglotKey()])
}

// polyglotPromotions maps the three promotion bits, 1=knight to 4=queen.
var polyglotPromotions = [8]board.PieceType{1: board.Knight, 2: board.Bishop, 3: board.Rook, 4: board.Queen}

// decodePolyglotMove unpacks to (bits 0-5), from (bits 6-11) and the
// promotion piece (bits 12-14).
func decodePolyglotMove(data uint16) board.Descriptor {
	return board.Descriptor{
		From:      board.NewSquare(int(data>>6)&7, int(data>>9)&7),
		To:        board.NewSquare(int(data)&7, int(data>>3)&7),
		Promotion: polyglotPromotions[(data>>12)&7],
	}
}

// castlingTarget rewrites Polyglot's king-takes-rook castling notation into
// the king's destination square.
func castlingTarget(pos *board.Position, d board.Descriptor) board.Descriptor {
	us := pos.SideToMove
	if pos.PieceAt(d.From) != board.NewPiece(board.King, us) || pos.PieceAt(d.To) != board.NewPiece(board.Rook, us) {
		return d
	}
	switch {
	case d.From == board.E1 && d.To == board.H1:
		d.To = board.G1
	case d.From == board.E1 && d.To == board.A1:
		d.To = board.C1
	case d.From == board.E8 && d.To == board.H8:
		d.To = board.G8
	case d.From == board.E8 && d.To == board.A8:
		d.To = board.C8
	}
	return d
}

// pick chooses an entry with probability proportional to its weight. With
// all weights zero the first entry wins.
func pick(entries []BookEntry) BookEntry {
	var total uint32
	for _, e := range entries {
		total += uint32(e.Weight)
	}
	if total == 0 {
		return entries[0]
	}
	r := rand.Uint32N(total)
	for _, e := range entries {
		if r < uint32(e.Weight) {
			return e
		}
		r -= uint32(e.Weight)
	}
	return entries[0]
}

func (b *Book) Suggest(ctx context.Context, fen string) (Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return Suggestion{}, err
	}
	start := time.Now()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return Suggestion{}, fmt.Errorf("predictor: book: %w", err)
	}
	entries := b.entries[pos.PolyglotKey()]
	if len(entries) == 0 {
		return Suggestion{}, ErrNotCovered
	}
	d := castlingTarget(pos, pick(entries).Move)
	if _, err := pos.Resolve(d); err != nil {
		return Suggestion{}, fmt.Errorf("predictor: book move %s: %w", d, err)
	}
	return Suggestion{
		Move:         d,
		PV:           []string{d.String()},
		ThinkingTime: time.Since(start),
	}, nil
}
