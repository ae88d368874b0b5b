package board

import (
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN decodes a six-field FEN string. Any malformed or inconsistent
// field yields an *InvalidFormatError and a nil position.
func ParseFEN(fen string) (*Position, error) {
	fail := func(field, reason string) (*Position, error) {
		return nil, &InvalidFormatError{Input: fen, Field: field, Reason: reason}
	}

	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return fail("", "want 6 fields, got "+strconv.Itoa(len(parts)))
	}

	pos := &Position{EnPassant: NoSquare}
	if reason := parsePlacement(pos, parts[0]); reason != "" {
		return fail("placement", reason)
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return fail("side to move", "want w or b")
	}

	if reason := parseCastling(pos, parts[2]); reason != "" {
		return fail("castling", reason)
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return fail("en passant", err.Error())
		}
		if reason := checkEnPassant(pos, sq); reason != "" {
			return fail("en passant", reason)
		}
		pos.EnPassant = sq
	}

	var ok bool
	if pos.HalfMoveClock, ok = parseCounter(parts[4]); !ok {
		return fail("halfmove clock", "want a non-negative integer")
	}
	if pos.FullMoveNumber, ok = parseCounter(parts[5]); !ok || pos.FullMoveNumber < 1 {
		return fail("fullmove number", "want a positive integer")
	}

	if err := pos.Validate(); err != nil {
		return fail("placement", err.Error())
	}
	pos.Hash = pos.ComputeHash()
	return pos, nil
}

func parsePlacement(pos *Position, placement string) string {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return "want 8 ranks, got " + strconv.Itoa(len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			default:
				pc := PieceFromChar(c)
				if pc == NoPiece {
					return "unexpected character " + strconv.QuoteRune(rune(c))
				}
				if file < 8 {
					pos.setPiece(pc, NewSquare(file, rank))
				}
				file++
			}
			if file > 8 {
				return "rank " + strconv.Itoa(rank+1) + " is wider than 8 squares"
			}
		}
		if file != 8 {
			return "rank " + strconv.Itoa(rank+1) + " is narrower than 8 squares"
		}
	}
	for _, c := range []Color{White, Black} {
		if n := pos.Pieces[c][King].PopCount(); n != 1 {
			return c.String() + " must have exactly one king, found " + strconv.Itoa(n)
		}
		if reason := checkPieceCounts(pos, c); reason != "" {
			return reason
		}
	}
	return ""
}

// checkPieceCounts rejects material that no game can reach: more than eight
// pawns or sixteen pieces, or more promoted pieces than missing pawns.
func checkPieceCounts(pos *Position, c Color) string {
	pieces := &pos.Pieces[c]
	pawns := pieces[Pawn].PopCount()
	if pawns > 8 {
		return c.String() + " has " + strconv.Itoa(pawns) + " pawns"
	}
	total := 0
	for pt := Pawn; pt <= King; pt++ {
		total += pieces[pt].PopCount()
	}
	if total > 16 {
		return c.String() + " has " + strconv.Itoa(total) + " pieces"
	}
	promoted := max(0, pieces[Knight].PopCount()-2) +
		max(0, pieces[Bishop].PopCount()-2) +
		max(0, pieces[Rook].PopCount()-2) +
		max(0, pieces[Queen].PopCount()-1)
	if promoted > 8-pawns {
		return c.String() + " has " + strconv.Itoa(promoted) + " promoted pieces but only " +
			strconv.Itoa(8-pawns) + " missing pawns"
	}
	return ""
}

// parseCastling accepts "-" or each of KQkq at most once. A right is only
// accepted when the king and that rook stand on their home squares.
func parseCastling(pos *Position, field string) string {
	if field == "-" {
		return ""
	}
	for i := 0; i < len(field); i++ {
		idx := strings.IndexByte("KQkq", field[i])
		if idx < 0 {
			return "unexpected character " + strconv.QuoteRune(rune(field[i]))
		}
		right := CastlingRights(1 << idx)
		if pos.CastlingRights&right != 0 {
			return "duplicate right " + string(field[i])
		}
		pos.CastlingRights |= right
	}
	for _, side := range castleMoves {
		for _, cm := range side {
			if pos.CastlingRights&cm.right == 0 {
				continue
			}
			us := White
			if cm.kingFrom == E8 {
				us = Black
			}
			if pos.Squares[cm.kingFrom] != NewPiece(King, us) || pos.Squares[cm.rookFrom] != NewPiece(Rook, us) {
				return "right " + cm.right.String() + " without king and rook on their home squares"
			}
		}
	}
	return ""
}

// checkEnPassant requires the target to be the empty square a pawn of the
// side not to move just skipped over.
func checkEnPassant(pos *Position, sq Square) string {
	mover := pos.SideToMove.Other()
	if sq.RelativeRank(mover) != 2 {
		return "target " + sq.String() + " is on the wrong rank"
	}
	victim := enPassantVictim(sq, pos.SideToMove)
	origin := enPassantVictim(sq, mover)
	if pos.Squares[sq] != NoPiece || pos.Squares[origin] != NoPiece {
		return "target " + sq.String() + " is not behind a double-pushed pawn"
	}
	if pos.Squares[victim] != NewPiece(Pawn, mover) {
		return "no pawn to capture on " + victim.String()
	}
	return ""
}

func parseCounter(s string) (int, bool) {
	if s == "" || len(s) > 6 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// ToFEN encodes the position; ParseFEN(p.ToFEN()) reproduces p exactly.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.Squares[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if p.SideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.CastlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))
	return sb.String()
}
