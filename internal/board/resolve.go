package board

// Resolve validates a client descriptor against the current legal moves and
// returns the matching Move. On failure the error is an *IllegalMoveError
// naming the first rule the descriptor breaks. The position is not changed.
func (p *Position) Resolve(d Descriptor) (Move, error) {
	illegal := func(r IllegalMoveReason) (Move, error) {
		return NoMove, &IllegalMoveError{Move: d, Reason: r}
	}

	pc := p.Squares[d.From]
	if pc == NoPiece {
		return illegal(ReasonNoPiece)
	}
	if pc.Color() != p.SideToMove {
		return illegal(ReasonWrongSide)
	}

	var buf [256]Move
	var candidates []Move
	for _, m := range p.appendPseudoLegal(buf[:0], false) {
		if m.From == d.From && m.To == d.To {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return illegal(p.unreachableReason(pc, d))
	}

	promoting := candidates[0].IsPromotion()
	switch {
	case promoting && d.Promotion == NoPieceType:
		return illegal(ReasonPromotionRequired)
	case !promoting && d.Promotion != NoPieceType:
		return illegal(ReasonBadPromotion)
	}
	for _, m := range candidates {
		if m.Promotion != d.Promotion {
			continue
		}
		if !p.isLegal(m) {
			return illegal(ReasonLeavesKingInCheck)
		}
		return m, nil
	}
	return illegal(ReasonBadPromotion)
}

// unreachableReason explains why no pseudo-legal move joins d.From to d.To.
func (p *Position) unreachableReason(pc Piece, d Descriptor) IllegalMoveReason {
	us, pt := pc.Color(), pc.Type()

	if pt == King && d.From.Rank() == d.To.Rank() && abs(d.From.File()-d.To.File()) == 2 {
		return p.castlingReason(us, d)
	}
	if p.Occupied[us].Has(d.To) {
		return ReasonOwnPiece
	}

	switch pt {
	case Pawn:
		forward := 8
		if us == Black {
			forward = -8
		}
		one := int(d.From) + forward
		switch {
		case int(d.To) == one:
			return ReasonPathBlocked
		case int(d.To) == one+forward && d.From.RelativeRank(us) == 1:
			return ReasonPathBlocked
		}
	case Bishop, Rook, Queen:
		if pieceAttacks(pt, us, d.From, 0).Has(d.To) {
			return ReasonPathBlocked
		}
	}
	return ReasonUnreachable
}

func (p *Position) castlingReason(us Color, d Descriptor) IllegalMoveReason {
	for _, cm := range castleMoves[us] {
		if cm.kingFrom != d.From || cm.kingTo != d.To {
			continue
		}
		switch {
		case p.CastlingRights&cm.right == 0:
			return ReasonCastlingUnavailable
		case p.AllOccupied&cm.empty != 0:
			return ReasonPathBlocked
		default:
			return ReasonCastlingThroughCheck
		}
	}
	return ReasonUnreachable
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
