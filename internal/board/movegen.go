package board

// castleMove describes one of the four castling moves.
type castleMove struct {
	right            CastlingRights
	flag             MoveFlag
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	empty            Bitboard  // squares between king and rook
	path             [2]Square // squares the king crosses and lands on
}

var castleMoves = [2][2]castleMove{
	White: {
		{WhiteKingSide, FlagCastleKing, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), [2]Square{F1, G1}},
		{WhiteQueenSide, FlagCastleQueen, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), [2]Square{D1, C1}},
	},
	Black: {
		{BlackKingSide, FlagCastleKing, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), [2]Square{F8, G8}},
		{BlackQueenSide, FlagCastleQueen, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), [2]Square{D8, C8}},
	},
}

// castleRook returns the rook squares for a castling move landing on kingTo.
func castleRook(kingTo Square) (from, to Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default:
		return A8, D8
	}
}

var promotionOrder = [4]PieceType{Queen, Rook, Bishop, Knight}

// GenerateLegalMoves returns every legal move for the side to move.
func (p *Position) GenerateLegalMoves() []Move {
	return p.AppendLegalMoves(make([]Move, 0, 48))
}

// AppendLegalMoves appends the legal moves to dst and returns the result.
func (p *Position) AppendLegalMoves(dst []Move) []Move {
	start := len(dst)
	dst = p.appendPseudoLegal(dst, false)
	return p.filterLegal(dst, start)
}

// GeneratePseudoLegalMoves returns moves that obey piece movement rules but
// may leave the mover's king in check.
func (p *Position) GeneratePseudoLegalMoves() []Move {
	return p.appendPseudoLegal(make([]Move, 0, 48), false)
}

// GenerateCaptures returns the legal captures and promotions, the move set
// quiescence search looks at.
func (p *Position) GenerateCaptures() []Move {
	return p.AppendCaptures(make([]Move, 0, 16))
}

// AppendCaptures appends the legal captures and promotions to dst.
func (p *Position) AppendCaptures(dst []Move) []Move {
	start := len(dst)
	dst = p.appendPseudoLegal(dst, true)
	return p.filterLegal(dst, start)
}

// LegalMoveCount returns the number of legal moves.
func (p *Position) LegalMoveCount() int {
	var buf [256]Move
	return len(p.AppendLegalMoves(buf[:0]))
}

// HasLegalMoves reports whether the side to move has any legal move. It
// stops at the first one found.
func (p *Position) HasLegalMoves() bool {
	var buf [256]Move
	for _, m := range p.appendPseudoLegal(buf[:0], false) {
		if p.isLegal(m) {
			return true
		}
	}
	return false
}

// filterLegal keeps the moves in moves[start:] that do not leave the
// mover's king attacked. Every candidate is made, tested and unmade.
func (p *Position) filterLegal(moves []Move, start int) []Move {
	n := start
	for _, m := range moves[start:] {
		if p.isLegal(m) {
			moves[n] = m
			n++
		}
	}
	return moves[:n]
}

func (p *Position) isLegal(m Move) bool {
	us := p.SideToMove
	u := p.MakeMove(m)
	ok := !p.IsSquareAttacked(p.KingSquare[us], us.Other())
	p.UnmakeMove(m, u)
	return ok
}

// appendPseudoLegal generates moves for the side to move. With
// capturesOnly set it emits captures and promotions only. Captures of the
// enemy king are never generated.
func (p *Position) appendPseudoLegal(dst []Move, capturesOnly bool) []Move {
	us, them := p.SideToMove, p.SideToMove.Other()
	enemies := p.Occupied[them] &^ p.Pieces[them][King]

	dst = p.appendPawnMoves(dst, enemies, capturesOnly)

	targets := ^p.Occupied[us] &^ p.Pieces[them][King]
	if capturesOnly {
		targets = enemies
	}
	for pt := Knight; pt <= King; pt++ {
		pc := NewPiece(pt, us)
		for bb := p.Pieces[us][pt]; bb != 0; {
			from := bb.PopLSB()
			for to := pieceAttacks(pt, us, from, p.AllOccupied) & targets; to != 0; {
				sq := to.PopLSB()
				dst = append(dst, Move{From: from, To: sq, Piece: pc, Captured: p.Squares[sq]})
			}
		}
	}

	if !capturesOnly {
		dst = p.appendCastling(dst)
	}
	return dst
}

func (p *Position) appendPawnMoves(dst []Move, enemies Bitboard, capturesOnly bool) []Move {
	us := p.SideToMove
	pawn := NewPiece(Pawn, us)
	forward := 8
	if us == Black {
		forward = -8
	}

	for bb := p.Pieces[us][Pawn]; bb != 0; {
		from := bb.PopLSB()

		one := Square(int(from) + forward)
		if p.Squares[one] == NoPiece {
			if one.RelativeRank(us) == 7 {
				dst = appendPromotions(dst, from, one, pawn, NoPiece)
			} else if !capturesOnly {
				dst = append(dst, Move{From: from, To: one, Piece: pawn})
				two := Square(int(one) + forward)
				if from.RelativeRank(us) == 1 && p.Squares[two] == NoPiece {
					dst = append(dst, Move{From: from, To: two, Piece: pawn, Flag: FlagDoublePush})
				}
			}
		}

		for caps := pawnAttacks[us][from] & enemies; caps != 0; {
			to := caps.PopLSB()
			if to.RelativeRank(us) == 7 {
				dst = appendPromotions(dst, from, to, pawn, p.Squares[to])
			} else {
				dst = append(dst, Move{From: from, To: to, Piece: pawn, Captured: p.Squares[to]})
			}
		}

		if p.EnPassant != NoSquare && pawnAttacks[us][from].Has(p.EnPassant) {
			dst = append(dst, Move{
				From:     from,
				To:       p.EnPassant,
				Piece:    pawn,
				Captured: NewPiece(Pawn, us.Other()),
				Flag:     FlagEnPassant,
			})
		}
	}
	return dst
}

func appendPromotions(dst []Move, from, to Square, pawn, captured Piece) []Move {
	for _, pt := range promotionOrder {
		dst = append(dst, Move{From: from, To: to, Piece: pawn, Captured: captured, Promotion: pt})
	}
	return dst
}

// appendCastling emits castling moves whose right is held, whose squares
// between king and rook are empty, and where the king is not in check and
// neither crosses nor lands on an attacked square.
func (p *Position) appendCastling(dst []Move) []Move {
	us, them := p.SideToMove, p.SideToMove.Other()
	king, rook := NewPiece(King, us), NewPiece(Rook, us)
	for _, cm := range castleMoves[us] {
		if p.CastlingRights&cm.right == 0 || p.AllOccupied&cm.empty != 0 {
			continue
		}
		if p.Squares[cm.kingFrom] != king || p.Squares[cm.rookFrom] != rook {
			continue
		}
		if p.IsSquareAttacked(cm.kingFrom, them) ||
			p.IsSquareAttacked(cm.path[0], them) ||
			p.IsSquareAttacked(cm.path[1], them) {
			continue
		}
		dst = append(dst, Move{From: cm.kingFrom, To: cm.kingTo, Piece: king, Flag: cm.flag})
	}
	return dst
}

func enPassantVictim(to Square, mover Color) Square {
	if mover == White {
		return to - 8
	}
	return to + 8
}

// MakeMove applies a pseudo-legal move in place and returns the frame that
// UnmakeMove needs to reverse it. The hash is updated incrementally.
func (p *Position) MakeMove(m Move) Undo {
	u := Undo{
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
	}
	us := p.SideToMove
	pc := p.Squares[m.From]

	h := p.Hash ^ zobristCastling[p.CastlingRights] ^ zobristBlack
	if p.EnPassant != NoSquare {
		h ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	victim := m.To
	if m.Flag == FlagEnPassant {
		victim = enPassantVictim(m.To, us)
	}
	if captured := p.removePiece(victim); captured != NoPiece {
		u.Captured = captured
		h ^= zobristPiece[captured][victim]
	}

	p.movePiece(m.From, m.To)
	h ^= zobristPiece[pc][m.From] ^ zobristPiece[pc][m.To]

	if m.Promotion != NoPieceType {
		promoted := NewPiece(m.Promotion, us)
		p.removePiece(m.To)
		p.setPiece(promoted, m.To)
		h ^= zobristPiece[pc][m.To] ^ zobristPiece[promoted][m.To]
	}

	if m.IsCastle() {
		rf, rt := castleRook(m.To)
		rook := p.Squares[rf]
		p.movePiece(rf, rt)
		h ^= zobristPiece[rook][rf] ^ zobristPiece[rook][rt]
	}

	p.CastlingRights &^= castlingClear[m.From] | castlingClear[m.To]
	h ^= zobristCastling[p.CastlingRights]

	if m.Flag == FlagDoublePush {
		p.EnPassant = Square((int(m.From) + int(m.To)) / 2)
		h ^= zobristEnPassant[p.EnPassant.File()]
	}

	if pc.Type() == Pawn || u.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = us.Other()
	p.Hash = h
	return u
}

// UnmakeMove reverses MakeMove. Frames must be unmade in reverse order.
func (p *Position) UnmakeMove(m Move, u Undo) {
	us := p.SideToMove.Other()
	p.SideToMove = us
	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsCastle() {
		rf, rt := castleRook(m.To)
		p.movePiece(rt, rf)
	}

	if m.Promotion != NoPieceType {
		p.removePiece(m.To)
		p.setPiece(NewPiece(Pawn, us), m.From)
	} else {
		p.movePiece(m.To, m.From)
	}

	if u.Captured != NoPiece {
		victim := m.To
		if m.Flag == FlagEnPassant {
			victim = enPassantVictim(m.To, us)
		}
		p.setPiece(u.Captured, victim)
	}

	p.CastlingRights = u.CastlingRights
	p.EnPassant = u.EnPassant
	p.HalfMoveClock = u.HalfMoveClock
	p.Hash = u.Hash
}

// MobilityOf counts the legal moves color c would have if it were to move
// in this position. The receiver is left unchanged.
func (p *Position) MobilityOf(c Color) int {
	if c == p.SideToMove {
		return p.LegalMoveCount()
	}
	q := *p
	q.SideToMove = c
	q.EnPassant = NoSquare
	return q.LegalMoveCount()
}
