package predictor

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

// polyglotMove packs squares and a promotion code the way book files do.
func polyglotMove(from, to board.Square, promo uint16) uint16 {
	return uint16(to.File()) | uint16(to.Rank())<<3 |
		uint16(from.File())<<6 | uint16(from.Rank())<<9 | promo<<12
}

func writeEntry(t *testing.T, buf *bytes.Buffer, fen string, move, weight uint16) {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []any{pos.PolyglotKey(), move, weight, uint32(0)} {
		if err := binary.Write(buf, binary.BigEndian, v); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBookLoadAndSuggest(t *testing.T) {
	var buf bytes.Buffer
	writeEntry(t, &buf, board.StartFEN, polyglotMove(board.E2, board.E4, 0), 100)

	b, err := ReadBook(&buf)
	if err != nil {
		t.Fatalf("ReadBook: %v", err)
	}
	if b.Size() != 1 {
		t.Errorf("Size = %d, want 1", b.Size())
	}

	s, err := b.Suggest(context.Background(), board.StartFEN)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if s.Move != (board.Descriptor{From: board.E2, To: board.E4}) {
		t.Errorf("Move = %v, want e2e4", s.Move)
	}
	if len(s.PV) != 1 || s.PV[0] != "e2e4" {
		t.Errorf("PV = %v", s.PV)
	}
}

func TestBookMiss(t *testing.T) {
	_, err := NewBook().Suggest(context.Background(), board.StartFEN)
	if !errors.Is(err, ErrNotCovered) {
		t.Errorf("err = %v, want ErrNotCovered", err)
	}
	if _, err := NewBook().Suggest(context.Background(), "not a fen"); err == nil || errors.Is(err, ErrNotCovered) {
		t.Errorf("bad FEN: err = %v", err)
	}
}

func TestBookTruncated(t *testing.T) {
	var buf bytes.Buffer
	writeEntry(t, &buf, board.StartFEN, polyglotMove(board.E2, board.E4, 0), 1)
	buf.Truncate(buf.Len() - 3)
	if _, err := ReadBook(&buf); err == nil {
		t.Error("ReadBook accepted a truncated entry")
	}
}

func TestDecodePolyglotMove(t *testing.T) {
	tests := []struct {
		data uint16
		want board.Descriptor
	}{
		{polyglotMove(board.E2, board.E4, 0), board.Descriptor{From: board.E2, To: board.E4}},
		{polyglotMove(board.D7, board.D5, 0), board.Descriptor{From: board.D7, To: board.D5}},
		{polyglotMove(board.A7, board.A8, 4), board.Descriptor{From: board.A7, To: board.A8, Promotion: board.Queen}},
		{polyglotMove(board.B2, board.B1, 1), board.Descriptor{From: board.B2, To: board.B1, Promotion: board.Knight}},
	}
	for _, tc := range tests {
		if got := decodePolyglotMove(tc.data); got != tc.want {
			t.Errorf("decodePolyglotMove(%#x) = %v, want %v", tc.data, got, tc.want)
		}
	}
}

func TestBookCastling(t *testing.T) {
	const fen = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"
	tests := []struct {
		name string
		move uint16
		want board.Descriptor
	}{
		{"king side", polyglotMove(board.E1, board.H1, 0), board.Descriptor{From: board.E1, To: board.G1}},
		{"queen side", polyglotMove(board.E1, board.A1, 0), board.Descriptor{From: board.E1, To: board.C1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			writeEntry(t, &buf, fen, tc.move, 1)
			b, err := ReadBook(&buf)
			if err != nil {
				t.Fatal(err)
			}
			s, err := b.Suggest(context.Background(), fen)
			if err != nil {
				t.Fatalf("Suggest: %v", err)
			}
			if s.Move != tc.want {
				t.Errorf("Move = %v, want %v", s.Move, tc.want)
			}
		})
	}
}

func TestBookWeights(t *testing.T) {
	b := NewBook()
	pos := board.NewPosition()
	key := pos.PolyglotKey()
	b.Add(key, BookEntry{Move: board.Descriptor{From: board.D2, To: board.D4}, Weight: 0})
	b.Add(key, BookEntry{Move: board.Descriptor{From: board.E2, To: board.E4}, Weight: 50})

	entries := b.Entries(pos)
	if len(entries) != 2 || entries[0].Weight != 50 {
		t.Fatalf("Entries = %+v, want heaviest first", entries)
	}
	for range 20 {
		s, err := b.Suggest(context.Background(), board.StartFEN)
		if err != nil {
			t.Fatal(err)
		}
		if s.Move.From != board.E2 {
			t.Fatalf("picked zero-weight move %v", s.Move)
		}
	}
}

func TestBookIllegalEntry(t *testing.T) {
	b := NewBook()
	b.Add(board.NewPosition().PolyglotKey(), BookEntry{Move: board.Descriptor{From: board.E2, To: board.E5}, Weight: 1})
	_, err := b.Suggest(context.Background(), board.StartFEN)
	var illegal *board.IllegalMoveError
	if !errors.As(err, &illegal) {
		t.Errorf("err = %v, want *board.IllegalMoveError", err)
	}
}

func TestChainBookFirst(t *testing.T) {
	b := NewBook()
	b.Add(board.NewPosition().PolyglotKey(), BookEntry{Move: board.Descriptor{From: board.G1, To: board.F3}, Weight: 1})
	next := &countingPredictor{}

	s, err := Chain{b, next}.Suggest(context.Background(), board.StartFEN)
	if err != nil || s.Move.From != board.G1 || next.calls != 0 {
		t.Fatalf("in book: %+v, %v, calls %d", s, err, next.calls)
	}

	const later = "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"
	s, err = Chain{b, next}.Suggest(context.Background(), later)
	if err != nil || s.Move.To != board.E4 || next.calls != 1 {
		t.Fatalf("out of book: %+v, %v, calls %d", s, err, next.calls)
	}
}
