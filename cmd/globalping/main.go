package main

import (
	"GlobalpingCLI/internal/cli/commands"
	"GlobalpingCLI/internal/config"
	"GlobalpingCLI/internal/dependencies"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := commands.NewRoot(commands.Options{
		Out:      colorable.NewColorableStdout(),
		ErrOut:   colorable.NewColorableStderr(),
		Terminal: commands.IsTerminal(os.Stdout),
		Version:  version,
		NewApp: func(ctx context.Context, cfg *config.Config) (commands.App, error) {
			return dependencies.NewContainer(ctx, cfg, commands.UserAgent(version))
		},
	})

	if err := root.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
