package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/codex-cli/codex/cmd"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := fang.Execute(ctx, cmd.GetRootCommand(version), fang.WithoutManpage()); err != nil {
		os.Exit(1)
	}
}
