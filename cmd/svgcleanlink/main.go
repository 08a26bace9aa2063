package main

import (
	"context"
	"os"
	"os/signal"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := runMain(ctx, os.Args[1:], DefaultDeps())
	stop()
	os.Exit(code)
}
