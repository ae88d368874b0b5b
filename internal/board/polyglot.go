package board

// Polyglot key layout: 768 piece keys indexed 64*kind + square, where kind
// is 2*(type-1) plus one for white, then 4 castling keys (KQkq), 8
// en-passant file keys and the white-to-move key.
const (
	polyglotCastleOffset    = 768
	polyglotEnPassantOffset = 772
	polyglotTurnOffset      = 780
)

var polyglotRandom [781]uint64

func init() {
	rng := xorshift{state: 0x37b4a4b3f0d1c0d0}
	for i := range polyglotRandom {
		polyglotRandom[i] = rng.next()
	}
}

// PolyglotKey returns the position's key in the Polyglot opening book
// layout. Unlike Hash, the en-passant file only counts when a pawn of the
// side to move stands ready to capture.
func (p *Position) PolyglotKey() uint64 {
	var key uint64
	for c := White; c <= Black; c++ {
		white := 0
		if c == White {
			white = 1
		}
		for pt := Pawn; pt <= King; pt++ {
			kind := 2*(int(pt)-1) + white
			for bb := p.Pieces[c][pt]; bb != 0; {
				key ^= polyglotRandom[64*kind+int(bb.PopLSB())]
			}
		}
	}

	for i, right := range []CastlingRights{WhiteKingSide, WhiteQueenSide, BlackKingSide, BlackQueenSide} {
		if p.CastlingRights&right != 0 {
			key ^= polyglotRandom[polyglotCastleOffset+i]
		}
	}

	if p.EnPassant != NoSquare {
		// The capturing pawns sit beside the double-pushed pawn.
		victim := enPassantVictim(p.EnPassant, p.SideToMove)
		var beside Bitboard
		if victim.File() > 0 {
			beside |= SquareBB(victim - 1)
		}
		if victim.File() < 7 {
			beside |= SquareBB(victim + 1)
		}
		if p.Pieces[p.SideToMove][Pawn]&beside != 0 {
			key ^= polyglotRandom[polyglotEnPassantOffset+p.EnPassant.File()]
		}
	}

	if p.SideToMove == White {
		key ^= polyglotRandom[polyglotTurnOffset]
	}
	return key
}
