package board

import (
	"fmt"
	"strings"
)

// SAN renders a legal move of pos in Standard Algebraic Notation, with a
// trailing "+" or "#" taken from the resulting position.
func (m Move) SAN(pos *Position) string {
	return m.san(pos, pos.GenerateLegalMoves())
}

func (m Move) san(pos *Position, legal []Move) string {
	if m == NoMove {
		return "--"
	}

	var sb strings.Builder
	switch m.Flag {
	case FlagCastleKing:
		sb.WriteString("O-O")
	case FlagCastleQueen:
		sb.WriteString("O-O-O")
	default:
		pt := m.Piece.Type()
		if pt == Pawn {
			if m.IsCapture() {
				sb.WriteByte(byte('a' + m.From.File()))
			}
		} else {
			sb.WriteString(pt.SANLetter())
			sb.WriteString(disambiguation(m, legal))
		}
		if m.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteString(m.Promotion.SANLetter())
		}
	}

	after := *pos
	after.MakeMove(m)
	if after.InCheck() {
		if after.HasLegalMoves() {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

// disambiguation returns the origin file, rank, or full square needed to
// tell m apart from other legal moves by the same piece type to the same
// destination: file when it is unique, else rank, else both.
func disambiguation(m Move, legal []Move) string {
	ambiguous, sameFile, sameRank := false, false, false
	for _, o := range legal {
		if o.To != m.To || o.From == m.From || o.Piece != m.Piece {
			continue
		}
		ambiguous = true
		if o.From.File() == m.From.File() {
			sameFile = true
		}
		if o.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return m.From.String()[:1]
	case !sameRank:
		return m.From.String()[1:]
	}
	return m.From.String()
}

// ParseSAN finds the legal move whose SAN matches s. Check marks and
// annotation suffixes are ignored and castling may be written with zeros.
func ParseSAN(s string, pos *Position) (Move, error) {
	want := normalizeSAN(s)
	legal := pos.GenerateLegalMoves()
	for _, m := range legal {
		if normalizeSAN(m.san(pos, legal)) == want {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("no legal move matches %q", s)
}

func normalizeSAN(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")
	return strings.ReplaceAll(s, "0", "O")
}

// MovesToSAN converts a sequence of moves played from pos into SAN. The
// position is left unchanged. Conversion stops at the first move that is not
// legal in sequence.
func MovesToSAN(pos *Position, moves []Move) []string {
	cur := *pos
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		legal := cur.GenerateLegalMoves()
		if !containsMove(legal, m) {
			break
		}
		out = append(out, m.san(&cur, legal))
		cur.MakeMove(m)
	}
	return out
}

func containsMove(moves []Move, m Move) bool {
	for _, o := range moves {
		if o == m {
			return true
		}
	}
	return false
}
