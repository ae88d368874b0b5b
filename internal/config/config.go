// Package config loads process configuration from CHESSCORE_* environment
// variables with command-line flag overrides.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/hailam/chesscore/internal/engine"
)

// Config holds the settings shared by the chesscore commands.
type Config struct {
	HashMB     int           `env:"CHESSCORE_HASH_MB" envDefault:"64"`
	Threads    int           `env:"CHESSCORE_THREADS" envDefault:"1"`
	Depth      int           `env:"CHESSCORE_DEPTH" envDefault:"0"`
	MoveTime   time.Duration `env:"CHESSCORE_MOVE_TIME" envDefault:"2s"`
	Difficulty string        `env:"CHESSCORE_DIFFICULTY"`
	Eval       string        `env:"CHESSCORE_EVAL" envDefault:"standard"`
	DataDir    string        `env:"CHESSCORE_DATA_DIR"`

	PredictorURL     string        `env:"CHESSCORE_PREDICTOR_URL"`
	PredictorKey     string        `env:"CHESSCORE_PREDICTOR_API_KEY"`
	PredictorTimeout time.Duration `env:"CHESSCORE_PREDICTOR_TIMEOUT" envDefault:"3s"`
	PredictorCache   int64         `env:"CHESSCORE_PREDICTOR_CACHE" envDefault:"10000"`
	TablebaseURL     string        `env:"CHESSCORE_TABLEBASE_URL"`
	BookPath         string        `env:"CHESSCORE_BOOK_PATH"`
}

// ParseConfig reads the environment, then lets flags in args override it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.IntVar(&cfg.HashMB, "hash", cfg.HashMB, "transposition table size in MB (0 disables it)")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "search threads")
	fs.IntVar(&cfg.Depth, "depth", cfg.Depth, "search depth (0 = limited by -movetime only)")
	fs.DurationVar(&cfg.MoveTime, "movetime", cfg.MoveTime, "time per engine move")
	fs.StringVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "easy, medium or hard; overrides -depth and -movetime")
	fs.StringVar(&cfg.Eval, "eval", cfg.Eval, "evaluation function (standard or material)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "game archive directory (default: platform data dir)")
	fs.StringVar(&cfg.PredictorURL, "predictor-url", cfg.PredictorURL, "base URL of the move predictor service (empty disables it)")
	fs.StringVar(&cfg.PredictorKey, "predictor-key", cfg.PredictorKey, "API key for the move predictor")
	fs.DurationVar(&cfg.PredictorTimeout, "predictor-timeout", cfg.PredictorTimeout, "move predictor request timeout")
	fs.StringVar(&cfg.TablebaseURL, "tablebase-url", cfg.TablebaseURL, "endgame tablebase service, e.g. https://tablebase.lichess.ovh (empty disables it)")
	fs.StringVar(&cfg.BookPath, "book", cfg.BookPath, "Polyglot opening book file (empty disables it)")
	fs.Int64Var(&cfg.PredictorCache, "predictor-cache", cfg.PredictorCache, "number of predictor suggestions to cache (0 disables caching)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be caught by parsing alone.
func (c Config) Validate() error {
	if c.HashMB < 0 {
		return fmt.Errorf("hash must not be negative, got %d", c.HashMB)
	}
	if c.PredictorCache < 0 {
		return fmt.Errorf("predictor-cache must not be negative, got %d", c.PredictorCache)
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	if c.Difficulty != "" {
		if _, err := engine.ParseDifficulty(c.Difficulty); err != nil {
			return err
		}
	}
	if _, ok := engine.Evaluators[c.Eval]; !ok {
		return fmt.Errorf("unknown eval %q", c.Eval)
	}
	return c.Limits().Validate()
}

// Limits returns the engine limits described by the configuration.
func (c Config) Limits() engine.Limits {
	var l engine.Limits
	if d, err := engine.ParseDifficulty(c.Difficulty); err == nil && c.Difficulty != "" {
		l = engine.DifficultySettings[d]
	} else {
		l = engine.Limits{Depth: c.Depth, MoveTime: c.MoveTime}
	}
	l.Threads = c.Threads
	l.Eval = engine.Evaluators[c.Eval]
	return l
}
