// Command kestrel runs the engine as a UCI protocol handler over
// stdin/stdout. Grounded on
// hailam-chessplay/cmd/chessplay-uci/main.go's flag-driven startup,
// trimmed of CPU profiling and the OS-specific NNUE auto-discovery paths.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/kestrelchess/kestrel/internal/engine"
	"github.com/kestrelchess/kestrel/internal/uci"
)

func main() {
	hashMB := flag.Int("hash", engine.DefaultHashMB, "transposition table size in MB")
	threads := flag.Int("threads", 1, "number of lazy-SMP search threads")
	evalFile := flag.String("evalfile", "", "path to a quantized NNUE weight file")
	flag.Parse()

	eng, err := engine.NewEngine(*hashMB, *threads)
	if err != nil {
		log.Fatalf("kestrel: %v", err)
	}

	if *evalFile != "" {
		if err := eng.LoadNNUE(*evalFile); err != nil {
			log.Printf("kestrel: NNUE not loaded: %v (using hand-crafted evaluation)", err)
		} else {
			eng.SetUseNNUE(true)
		}
	}

	protocol := uci.New(eng, os.Stdout, os.Stderr)
	protocol.Run(os.Stdin)
}
