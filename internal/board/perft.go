package board

import "sort"

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	buffers := make([][]Move, depth)
	for i := range buffers {
		buffers[i] = make([]Move, 0, 64)
	}
	return p.perft(depth, buffers)
}

func (p *Position) perft(depth int, buffers [][]Move) uint64 {
	moves := p.AppendLegalMoves(buffers[depth-1][:0])
	buffers[depth-1] = moves
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		u := p.MakeMove(m)
		nodes += p.perft(depth-1, buffers)
		p.UnmakeMove(m, u)
	}
	return nodes
}

// DivideEntry is the subtree size below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide splits the perft count by root move, sorted by UCI text.
func (p *Position) PerftDivide(depth int) []DivideEntry {
	if depth <= 0 {
		return nil
	}
	var entries []DivideEntry
	for _, m := range p.GenerateLegalMoves() {
		u := p.MakeMove(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: p.Perft(depth - 1)})
		p.UnmakeMove(m, u)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.UCI() < entries[j].Move.UCI()
	})
	return entries
}
