package board

import "testing"

// walk applies and reverts every legal move to the given depth, checking
// that each unmake restores the exact position and that the incremental
// hash matches a full recomputation.
func walk(t *testing.T, pos *Position, depth int) {
	t.Helper()
	if depth == 0 {
		return
	}
	for _, m := range pos.GenerateLegalMoves() {
		before := *pos
		u := pos.MakeMove(m)
		if pos.Hash != pos.ComputeHash() {
			t.Fatalf("%s from %s: incremental hash %016x, recomputed %016x", m, before.ToFEN(), pos.Hash, pos.ComputeHash())
		}
		walk(t, pos, depth-1)
		pos.UnmakeMove(m, u)
		if *pos != before {
			t.Fatalf("%s from %s: unmake left %s", m, before.ToFEN(), pos.ToFEN())
		}
	}
}

func TestMakeUnmakeRestoresPosition(t *testing.T) {
	for _, fen := range []string{StartFEN, kiwipeteFEN, position3, position4} {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		walk(t, pos, 3)
	}
}

func TestStartingPositionHasTwentyMoves(t *testing.T) {
	if n := NewPosition().LegalMoveCount(); n != 20 {
		t.Errorf("LegalMoveCount() = %d, want 20", n)
	}
}

func TestCastlingRightsCleared(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		move  string
		right string
	}{
		{"king move", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1e2", "kq"},
		{"kingside rook move", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "h1h5", "Qkq"},
		{"queenside rook move", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "a8a5", "KQk"},
		{"rook captured at home", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "a1a8", "Kk"},
		{"castling", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", "KQ"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			d, _ := ParseDescriptor(tc.move)
			m, err := pos.Resolve(d)
			if err != nil {
				t.Fatal(err)
			}
			pos.MakeMove(m)
			if got := pos.CastlingRights.String(); got != tc.right {
				t.Errorf("rights after %s = %s, want %s", tc.move, got, tc.right)
			}
		})
	}
}

func TestEnPassantTargetLifetime(t *testing.T) {
	pos := NewPosition()
	play := func(uci string) {
		t.Helper()
		d, _ := ParseDescriptor(uci)
		m, err := pos.Resolve(d)
		if err != nil {
			t.Fatalf("%s: %v", uci, err)
		}
		pos.MakeMove(m)
	}

	play("e2e4")
	if pos.EnPassant != E3 {
		t.Fatalf("EnPassant after e2e4 = %s, want e3", pos.EnPassant)
	}
	play("g8f6")
	if pos.EnPassant != NoSquare {
		t.Fatalf("EnPassant after quiet reply = %s, want -", pos.EnPassant)
	}
	play("e4e5")
	play("d7d5")
	play("e5d6")
	if pos.PieceAt(D5) != NoPiece || pos.PieceAt(D6) != WhitePawn {
		t.Errorf("en passant capture did not remove the d5 pawn:\n%s", pos)
	}
}
