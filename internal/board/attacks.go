package board

type direction int

// Ray directions. The first four increase the square index, the last four
// decrease it, which decides whether the nearest blocker is the LSB or MSB.
const (
	dirNorth direction = iota
	dirEast
	dirNorthEast
	dirNorthWest
	dirSouth
	dirWest
	dirSouthEast
	dirSouthWest
	numDirections
)

var directionDelta = [numDirections][2]int{
	dirNorth:     {0, 1},
	dirEast:      {1, 0},
	dirNorthEast: {1, 1},
	dirNorthWest: {-1, 1},
	dirSouth:     {0, -1},
	dirWest:      {-1, 0},
	dirSouthEast: {1, -1},
	dirSouthWest: {-1, -1},
}

var (
	rookDirections   = [4]direction{dirNorth, dirEast, dirSouth, dirWest}
	bishopDirections = [4]direction{dirNorthEast, dirNorthWest, dirSouthEast, dirSouthWest}

	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
)

var (
	rays          [numDirections][64]Bitboard
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		file, rank := sq.File(), sq.Rank()
		for d := direction(0); d < numDirections; d++ {
			df, dr := directionDelta[d][0], directionDelta[d][1]
			for f, r := file+df, rank+dr; onBoard(f, r); f, r = f+df, r+dr {
				rays[d][sq] |= SquareBB(NewSquare(f, r))
			}
		}
		knightAttacks[sq] = offsetTargets(file, rank, knightOffsets[:])
		kingAttacks[sq] = offsetTargets(file, rank, kingOffsets[:])
		pawnAttacks[White][sq] = offsetTargets(file, rank, [][2]int{{-1, 1}, {1, 1}})
		pawnAttacks[Black][sq] = offsetTargets(file, rank, [][2]int{{-1, -1}, {1, -1}})
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func offsetTargets(file, rank int, offsets [][2]int) Bitboard {
	var bb Bitboard
	for _, o := range offsets {
		if f, r := file+o[0], rank+o[1]; onBoard(f, r) {
			bb |= SquareBB(NewSquare(f, r))
		}
	}
	return bb
}

// rayAttacks walks the ray from sq in direction d and stops at the first
// occupied square, which is included in the result.
func rayAttacks(d direction, sq Square, occupied Bitboard) Bitboard {
	ray := rays[d][sq]
	blockers := ray & occupied
	if blockers == 0 {
		return ray
	}
	var first Square
	if d < dirSouth {
		first = blockers.LSB()
	} else {
		first = blockers.MSB()
	}
	return ray &^ rays[d][first]
}

// RookAttacks returns the squares a rook on sq attacks given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	var bb Bitboard
	for _, d := range rookDirections {
		bb |= rayAttacks(d, sq, occupied)
	}
	return bb
}

// BishopAttacks returns the squares a bishop on sq attacks given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	var bb Bitboard
	for _, d := range bishopDirections {
		bb |= rayAttacks(d, sq, occupied)
	}
	return bb
}

// QueenAttacks is the union of rook and bishop attacks.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}

func KnightAttacks(sq Square) Bitboard { return knightAttacks[sq] }
func KingAttacks(sq Square) Bitboard   { return kingAttacks[sq] }

// PawnAttacks returns the squares a pawn of color c on sq captures on.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// pieceAttacks returns the attack set of a piece of type pt for c on sq.
func pieceAttacks(pt PieceType, c Color, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

// AttackersOf returns every piece of color by that attacks sq, using the
// given occupancy for slider blocking.
func (p *Position) AttackersOf(sq Square, by Color, occupied Bitboard) Bitboard {
	pieces := &p.Pieces[by]
	attackers := pawnAttacks[by.Other()][sq] & pieces[Pawn]
	attackers |= knightAttacks[sq] & pieces[Knight]
	attackers |= kingAttacks[sq] & pieces[King]
	attackers |= BishopAttacks(sq, occupied) & (pieces[Bishop] | pieces[Queen])
	attackers |= RookAttacks(sq, occupied) & (pieces[Rook] | pieces[Queen])
	return attackers
}

// IsSquareAttacked reports whether any piece of color by attacks sq. Check
// detection and castling safety both go through here.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.AttackersOf(sq, by, p.AllOccupied) != 0
}

// InCheck reports whether the side to move has its king attacked.
func (p *Position) InCheck() bool {
	return p.IsSquareAttacked(p.KingSquare[p.SideToMove], p.SideToMove.Other())
}

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	return p.AttackersOf(p.KingSquare[p.SideToMove], p.SideToMove.Other(), p.AllOccupied)
}
