// Package main is the entry point for sitectl. Ctrl-C cancels the command
// context; a transaction in progress finishes its current step and rolls
// back before the process exits.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen11/sitesmith/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCommand(), os.Args[1:])
	stop()
	os.Exit(code)
}
