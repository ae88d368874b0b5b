package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	gamePrefix = "game/"
	keyStats   = "stats"
)

// ErrNotFound is returned when no game is stored under an ID.
var ErrNotFound = errors.New("storage: game not found")

// Record is an archived game. Moves are in UCI notation so the game can be
// replayed through move validation on load.
type Record struct {
	ID        string    `json:"id"`
	StartFEN  string    `json:"start_fen"`
	Moves     []string  `json:"moves"`
	Status    string    `json:"status"`
	Result    string    `json:"result"` // PGN result: 1-0, 0-1, 1/2-1/2 or *
	FEN       string    `json:"fen"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finished reports whether the record holds a decided game.
func (r *Record) Finished() bool {
	return r.Result != "" && r.Result != "*"
}

// Stats counts finished games by result.
type Stats struct {
	GamesFinished int            `json:"games_finished"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	ByStatus      map[string]int `json:"by_status"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{ByStatus: make(map[string]int)}
}

func (s *Stats) add(r *Record) {
	s.GamesFinished++
	switch r.Result {
	case "1-0":
		s.WhiteWins++
	case "0-1":
		s.BlackWins++
	default:
		s.Draws++
	}
	s.ByStatus[r.Status]++
}

// DrawRate returns the share of finished games that were drawn, in
// percent.
func (s *Stats) DrawRate() float64 {
	if s.GamesFinished == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesFinished) * 100
}

// Storage wraps BadgerDB for the game archive.
type Storage struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens (or creates) the archive in dir. An empty dir means the
// platform data directory.
func Open(dir string) (*Storage, error) {
	dbDir, err := DatabaseDir(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return open(badger.DefaultOptions(dbDir))
}

// OpenInMemory opens an archive that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Storage, error) {
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return &Storage{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

// Save stores r, assigning an ID on first save. The statistics are updated
// in the same transaction the first time a game is saved as finished.
func (s *Storage) Save(r *Record) error {
	now := s.now()
	if r.ID == "" {
		r.ID = uuid.NewString()
	} else if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("storage: bad game id %q: %w", r.ID, err)
	}
	r.UpdatedAt = now

	return s.db.Update(func(txn *badger.Txn) error {
		prev, err := getRecord(txn, r.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		switch {
		case prev != nil:
			r.CreatedAt = prev.CreatedAt
		case r.CreatedAt.IsZero():
			r.CreatedAt = now
		}
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if r.Finished() && (prev == nil || !prev.Finished()) {
			stats, err := getStats(txn)
			if err != nil {
				return err
			}
			stats.add(r)
			raw, err := json.Marshal(stats)
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(keyStats), raw); err != nil {
				return err
			}
		}
		return txn.Set(gameKey(r.ID), data)
	})
}

// Load returns the game stored under id.
func (s *Storage) Load(id string) (*Record, error) {
	var r *Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		r, err = getRecord(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func getRecord(txn *badger.Txn, id string) (*Record, error) {
	item, err := txn.Get(gameKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r := &Record{}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, r)
	})
	if err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", id, err)
	}
	return r, nil
}

// List returns every stored game, most recently updated first.
func (s *Storage) List() ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			r := &Record{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, r)
			}); err != nil {
				return fmt.Errorf("storage: decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Delete removes a game. Statistics are not rolled back.
func (s *Storage) Delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// Stats returns the result statistics of finished games.
func (s *Storage) Stats() (*Stats, error) {
	var stats *Stats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = getStats(txn)
		return err
	})
	return stats, err
}

func getStats(txn *badger.Txn) (*Stats, error) {
	stats := NewStats()
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}
