// Command cachesim replays memory address traces through a simulated
// set-associative cache and reports hit/miss statistics.
//
// Usage:
//
//	cachesim run --size 8192 --block 64 --assoc 2 --policy lru --trace trace.txt
//	cachesim compare --pattern mixed --count 800
//	cachesim sweep size --pattern mixed
//	cachesim sweep assoc --pattern looping
//	cachesim patterns
//	cachesim gen-trace --pattern looping --count 1000 --out loop.txt
//	cachesim decode 0x1234
//
// Every flag can also be set through a CACHESIM_<FLAG> environment variable,
// for example CACHESIM_POLICY=fifo, or from a .env file.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	atexit.Register(stop)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
