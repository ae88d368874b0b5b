package engine

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/chesscore/internal/board"
)

// Bound tells how a stored score relates to the true value.
type Bound uint8

const (
	BoundNone  Bound = iota
	BoundExact       // score is exact
	BoundLower       // search failed high, true score >= score
	BoundUpper       // search failed low, true score <= score
)

const ttShards = 256

// TTEntry is one cached search result. Key holds the full Zobrist key and
// is compared on every probe, so a slot reused by another position is never
// mistaken for a hit.
type TTEntry struct {
	Key      uint64
	BestMove board.Move
	Score    int32
	Depth    int8
	Bound    Bound
	Age      uint8
}

// TranspositionTable is shared by all search workers. Slots are guarded by
// a fixed set of RWMutex shards, so a reader never sees a half-written
// entry.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64
	shards  [ttShards]sync.RWMutex
	age     atomic.Uint32

	probes atomic.Uint64
	hits   atomic.Uint64
}

// NewTranspositionTable sizes the table to at most sizeMB megabytes,
// rounded down to a power of two entries.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	const entrySize = 24
	n := uint64(sizeMB) * 1024 * 1024 / entrySize
	if n < 1024 {
		n = 1024
	}
	for n&(n-1) != 0 {
		n &= n - 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, n),
		mask:    n - 1,
	}
}

func (tt *TranspositionTable) lock(idx uint64) *sync.RWMutex {
	return &tt.shards[idx%ttShards]
}

// Probe returns the entry stored for key, if any.
func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	tt.probes.Add(1)
	idx := key & tt.mask
	mu := tt.lock(idx)

	mu.RLock()
	e := tt.entries[idx]
	mu.RUnlock()

	if e.Key != key || e.Bound == BoundNone {
		return TTEntry{}, false
	}
	tt.hits.Add(1)
	return e, true
}

// Store records a search result. An existing entry from the current search
// is only replaced by one searched at least as deep; entries left over from
// earlier searches are always replaced.
func (tt *TranspositionTable) Store(key uint64, depth, score int, bound Bound, best board.Move) {
	idx := key & tt.mask
	mu := tt.lock(idx)
	age := uint8(tt.age.Load())

	mu.Lock()
	e := &tt.entries[idx]
	if e.Bound == BoundNone || e.Age != age || depth >= int(e.Depth) {
		if best == board.NoMove && e.Key == key {
			best = e.BestMove
		}
		*e = TTEntry{
			Key:      key,
			BestMove: best,
			Score:    int32(score),
			Depth:    int8(depth),
			Bound:    bound,
			Age:      age,
		}
	}
	mu.Unlock()
}

// NewSearch advances the generation used by the replacement policy.
func (tt *TranspositionTable) NewSearch() {
	tt.age.Add(1)
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.shards {
		tt.shards[i].Lock()
	}
	clear(tt.entries)
	for i := range tt.shards {
		tt.shards[i].Unlock()
	}
	tt.probes.Store(0)
	tt.hits.Store(0)
}

// HashFull returns the permille of sampled slots written by the current
// search.
func (tt *TranspositionTable) HashFull() int {
	sample := min(1000, len(tt.entries))
	age := uint8(tt.age.Load())
	used := 0
	for i := 0; i < sample; i++ {
		mu := tt.lock(uint64(i))
		mu.RLock()
		if tt.entries[i].Bound != BoundNone && tt.entries[i].Age == age {
			used++
		}
		mu.RUnlock()
	}
	return used * 1000 / sample
}

// HitRate returns the share of probes that found an entry, in percent.
func (tt *TranspositionTable) HitRate() float64 {
	probes := tt.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(probes) * 100
}

// scoreToTT converts a mate score relative to the root into one relative
// to the stored node.
func scoreToTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score + ply
	case score < -MateScore+MaxPly:
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	switch {
	case score > MateScore-MaxPly:
		return score - ply
	case score < -MateScore+MaxPly:
		return score + ply
	}
	return score
}
