package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/templui/goalvoice/cmd/goalctl/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Root().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
