// Command chessplay-uci runs the engine as a UCI process on stdin/stdout.
package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/uci"
)

func main() {
	log.SetPrefix("chessplay-uci: ")
	log.SetFlags(0)

	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine(cfg.HashMB)
	protocol := uci.New(eng, os.Stdin, os.Stdout)
	protocol.SetThreads(cfg.Threads)
	if err := protocol.SetEval(cfg.Eval); err != nil {
		log.Fatal(err)
	}
	if err := protocol.Run(); err != nil {
		log.Printf("reading commands: %v", err)
	}
}
