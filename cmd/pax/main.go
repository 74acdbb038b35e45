// Command pax is the UCI-speaking process entry point, wiring the
// board/eval/search/book/tablebase packages to stdin/stdout. Grounded
// on ChizhovVadim-CounterGo/cmd/counter/main.go's flag/logging/wiring
// shape.
package main

import (
	"log"
	"os"
	"runtime"

	"github.com/opensourcechess/pax/uci"
)

var (
	versionName = "dev"
	gitRevision = "(null)"
)

func main() {
	var logger = log.New(os.Stderr, "", log.LstdFlags)

	logger.Println("Pax",
		"VersionName", versionName,
		"GitRevision", gitRevision,
		"RuntimeVersion", runtime.Version(),
		"GOARCH", runtime.GOARCH,
		"GOOS", runtime.GOOS,
		"NumCPU", runtime.NumCPU(),
	)

	uci.Run(os.Stdin, os.Stdout)
}
