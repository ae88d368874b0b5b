package board

import "fmt"

// MoveFlag tells make/unmake which special handling a move needs.
type MoveFlag uint8

const (
	FlagNormal MoveFlag = iota
	FlagDoublePush
	FlagEnPassant
	FlagCastleKing
	FlagCastleQueen
)

func (f MoveFlag) String() string {
	switch f {
	case FlagDoublePush:
		return "double-push"
	case FlagEnPassant:
		return "en-passant"
	case FlagCastleKing:
		return "castle-kingside"
	case FlagCastleQueen:
		return "castle-queenside"
	}
	return "normal"
}

// Move is a pure, comparable description of one ply. Captured is NoPiece
// for quiet moves and Promotion is NoPieceType unless the move promotes.
// Castling is encoded as the king's two-square step.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece
	Promotion PieceType
	Flag      MoveFlag
}

// NoMove is the zero Move. No generated move equals it.
var NoMove = Move{}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsPromotion reports whether a pawn is promoted.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// IsCastle reports whether the move is either castling move.
func (m Move) IsCastle() bool {
	return m.Flag == FlagCastleKing || m.Flag == FlagCastleQueen
}

// IsQuiet reports whether the move neither captures nor promotes.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// UCI returns coordinate notation such as "e2e4" or "e7e8q"; NoMove is "0000".
func (m Move) UCI() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

func (m Move) String() string {
	return m.UCI()
}

// Descriptor is a move as a client states it: two squares and an optional
// promotion type. It carries no claim about legality.
type Descriptor struct {
	From      Square
	To        Square
	Promotion PieceType
}

func (d Descriptor) String() string {
	s := d.From.String() + d.To.String()
	if d.Promotion != NoPieceType {
		s += string(d.Promotion.Char())
	}
	return s
}

// ParseDescriptor parses coordinate text such as "e2e4" or "e7e8q".
func ParseDescriptor(s string) (Descriptor, error) {
	if len(s) != 4 && len(s) != 5 {
		return Descriptor{}, fmt.Errorf("invalid move %q: want 4 or 5 characters", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Descriptor{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Descriptor{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	d := Descriptor{From: from, To: to}
	if len(s) == 5 {
		d.Promotion = PieceTypeFromChar(s[4])
		if d.Promotion == NoPieceType || s[4] < 'a' {
			return Descriptor{}, fmt.Errorf("invalid move %q: bad promotion letter %q", s, s[4])
		}
	}
	return d, nil
}

// Matches reports whether m is the move d describes.
func (d Descriptor) Matches(m Move) bool {
	return m.From == d.From && m.To == d.To && m.Promotion == d.Promotion
}

// Undo records everything MakeMove overwrites so UnmakeMove can restore the
// position bit for bit.
type Undo struct {
	Captured       Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
}
