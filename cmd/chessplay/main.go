// Command chessplay plays chess against the engine in the terminal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/console"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/predictor"
	"github.com/hailam/chesscore/internal/storage"
)

func main() {
	log.SetPrefix("chessplay: ")
	log.SetFlags(0)

	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.NewEngine(cfg.HashMB)
	eng.SetThreads(cfg.Threads)
	c := console.New(eng, cfg.Limits(), os.Stdout)

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.Printf("game archive disabled: %v", err)
	} else {
		defer store.Close()
		c.Store = store
	}

	var chain predictor.Chain
	if cfg.BookPath != "" {
		book, err := predictor.LoadBook(cfg.BookPath)
		if err != nil {
			log.Fatal(err)
		}
		chain = append(chain, book)
		log.Printf("using opening book %s (%d positions)", cfg.BookPath, book.Size())
	}
	if cfg.TablebaseURL != "" {
		chain = append(chain, predictor.NewTablebase(cfg.TablebaseURL, cfg.PredictorTimeout))
		log.Printf("using endgame tablebase at %s", cfg.TablebaseURL)
	}
	if cfg.PredictorURL != "" {
		chain = append(chain, predictor.NewHTTPClient(cfg.PredictorURL, cfg.PredictorKey, cfg.PredictorTimeout))
		log.Printf("using move predictor at %s", cfg.PredictorURL)
	}
	if len(chain) > 0 {
		var p predictor.Predictor = chain
		if cfg.PredictorCache > 0 {
			cached, err := predictor.NewCached(chain, cfg.PredictorCache)
			if err != nil {
				log.Fatal(err)
			}
			defer cached.Close()
			p = cached
		}
		c.Predictor = p
	}

	if err := c.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
