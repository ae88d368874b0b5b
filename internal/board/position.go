package board

import (
	"fmt"
	"strings"
)

// CastlingRights packs the four castling permissions as independent bits.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling field, "-" when no rights remain.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// castlingClear[sq] lists the rights lost when a move starts or ends on sq:
// the king's home square drops both of that side's rights and each rook home
// square drops its own. Capturing a rook at home goes through the same table.
var castlingClear [64]CastlingRights

func init() {
	castlingClear[E1] = WhiteKingSide | WhiteQueenSide
	castlingClear[H1] = WhiteKingSide
	castlingClear[A1] = WhiteQueenSide
	castlingClear[E8] = BlackKingSide | BlackQueenSide
	castlingClear[H8] = BlackKingSide
	castlingClear[A8] = BlackQueenSide
}

// Position is a full chess position. Piece placement is kept twice, as a
// mailbox and as per-color/per-type bitboards, and both views always agree.
//
// Position is a plain value: copying it with *p yields an independent board,
// and two positions compare equal with == exactly when every field matches.
type Position struct {
	Squares     [64]Piece
	Pieces      [2][7]Bitboard // [Color][PieceType], index 0 unused
	Occupied    [2]Bitboard
	AllOccupied Bitboard
	KingSquare  [2]Square

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // NoSquare unless the last move was a double push
	HalfMoveClock  int
	FullMoveNumber int

	// Hash is the incrementally maintained Zobrist key.
	Hash uint64
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Squares[sq]
}

func (p *Position) setPiece(pc Piece, sq Square) {
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.Squares[sq] = pc
	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	if pt == King {
		p.KingSquare[c] = sq
	}
}

func (p *Position) removePiece(sq Square) Piece {
	pc := p.Squares[sq]
	if pc == NoPiece {
		return NoPiece
	}
	c, pt := pc.Color(), pc.Type()
	bb := SquareBB(sq)
	p.Squares[sq] = NoPiece
	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	return pc
}

func (p *Position) movePiece(from, to Square) {
	pc := p.removePiece(from)
	p.setPiece(pc, to)
}

// Validate checks the structural invariants every position must hold.
func (p *Position) Validate() error {
	for _, c := range []Color{White, Black} {
		if n := p.Pieces[c][King].PopCount(); n != 1 {
			return fmt.Errorf("%s has %d kings, want 1", c, n)
		}
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawn on first or eighth rank")
	}
	if p.IsSquareAttacked(p.KingSquare[p.SideToMove.Other()], p.SideToMove) {
		return fmt.Errorf("%s king can be captured", p.SideToMove.Other())
	}
	return nil
}

// IsInsufficientMaterial reports whether neither side has mating material:
// bare kings, a single minor piece, or only bishops that all stand on
// squares of one color.
func (p *Position) IsInsufficientMaterial() bool {
	for _, c := range []Color{White, Black} {
		if p.Pieces[c][Pawn]|p.Pieces[c][Rook]|p.Pieces[c][Queen] != 0 {
			return false
		}
	}
	knights := p.Pieces[White][Knight] | p.Pieces[Black][Knight]
	bishops := p.Pieces[White][Bishop] | p.Pieces[Black][Bishop]
	if (knights | bishops).PopCount() <= 1 {
		return true
	}
	if knights != 0 {
		return false
	}
	return bishops&LightSquares == 0 || bishops&^LightSquares == 0
}

// Material returns white's material minus black's, kings excluded.
func (p *Position) Material() int {
	score := 0
	for pt := Pawn; pt < King; pt++ {
		score += PieceValue[pt] * (p.Pieces[White][pt].PopCount() - p.Pieces[Black][pt].PopCount())
	}
	return score
}

// String draws the board with rank 8 on top followed by the FEN.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteByte(p.Squares[NewSquare(file, rank)].Char())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Fen: %s\nKey: %016X\n", p.ToFEN(), p.Hash)
	return sb.String()
}
