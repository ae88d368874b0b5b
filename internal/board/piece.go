package board

// Color is the side a piece or player belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is the kind of a piece. The zero value means "no piece type",
// which lets an empty Move.Promotion read as "not a promotion".
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (pt PieceType) String() string {
	if int(pt) < len(pieceTypeNames) {
		return pieceTypeNames[pt]
	}
	return "none"
}

// Char returns the lowercase letter used for the type in FEN and UCI text.
func (pt PieceType) Char() byte {
	return " pnbrqk"[pt%7]
}

// SANLetter returns the uppercase letter used in SAN. Pawns have none.
func (pt PieceType) SANLetter() string {
	if pt == Pawn || pt == NoPieceType {
		return ""
	}
	return string(pt.Char() - 'a' + 'A')
}

// PieceTypeFromChar maps a promotion/FEN letter (either case) to a type.
func PieceTypeFromChar(c byte) PieceType {
	switch c | 0x20 {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	}
	return NoPieceType
}

// PieceValue is the material weight of each type in centipawns.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 20000}

// Piece is an immutable {type, color} pair packed as color*6 + type.
// The zero value is NoPiece.
type Piece uint8

const NoPiece Piece = 0

const (
	WhitePawn Piece = iota + 1
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

// NewPiece builds a piece from its type and color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(c)*6 + Piece(pt)
}

// Type returns the piece type, or NoPieceType for NoPiece.
func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoPieceType
	}
	return PieceType((p-1)%6 + 1)
}

// Color returns the piece color. Calling it on NoPiece returns White.
func (p Piece) Color() Color {
	if p == NoPiece {
		return White
	}
	return Color((p - 1) / 6)
}

// Char returns the FEN letter: uppercase for white, lowercase for black.
func (p Piece) Char() byte {
	if p == NoPiece {
		return '.'
	}
	c := p.Type().Char()
	if p.Color() == White {
		c -= 'a' - 'A'
	}
	return c
}

func (p Piece) String() string {
	return string(p.Char())
}

// PieceFromChar parses a FEN piece letter, returning NoPiece when unknown.
func PieceFromChar(c byte) Piece {
	pt := PieceTypeFromChar(c)
	if pt == NoPieceType {
		return NoPiece
	}
	if c >= 'a' {
		return NewPiece(pt, Black)
	}
	return NewPiece(pt, White)
}
