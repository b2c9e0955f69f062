// teamfit scores zodiac compatibility within groups and assembles teams.
//
// Usage:
//
//	teamfit serve [--addr=:9080]
//	teamfit pair <sign> <sign>
//	teamfit score --profiles=<file> [--ids=a,b,c]
//	teamfit build --profiles=<file> --size=N [--balance] [--avoid-conflicts] [--min-score=X]
//	teamfit optimize --profiles=<file> --team=a,b,c [--max=N] [--target=N]
//	teamfit loadtest [--url=http://localhost:9080] [--calls=N] [--workers=N]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
