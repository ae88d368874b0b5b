// Command perft counts move-generation leaf nodes, optionally split by
// root move.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hailam/chesscore/internal/board"
)

func main() {
	log.SetPrefix("perft: ")
	log.SetFlags(0)

	fen := flag.String("fen", board.StartFEN, "position to count from")
	depth := flag.Int("depth", 5, "depth in plies")
	divide := flag.Bool("divide", false, "print the count below each root move")
	flag.Parse()

	if *depth < 1 {
		log.Fatalf("depth must be at least 1, got %d", *depth)
	}
	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal(err)
	}

	p := message.NewPrinter(language.English)
	start := time.Now()
	var nodes uint64
	if *divide {
		for _, e := range pos.PerftDivide(*depth) {
			p.Fprintf(os.Stdout, "%s: %d\n", e.Move.UCI(), e.Nodes)
			nodes += e.Nodes
		}
		p.Fprintln(os.Stdout)
	} else {
		nodes = pos.Perft(*depth)
	}
	elapsed := time.Since(start)

	p.Fprintf(os.Stdout, "depth %d: %d nodes in %v", *depth, nodes, elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		p.Fprintf(os.Stdout, " (%d nps)", uint64(float64(nodes)/elapsed.Seconds()))
	}
	p.Fprintln(os.Stdout)
}
