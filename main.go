package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reefgenomics/reefkb/cmd"
	"github.com/reefgenomics/reefkb/internal/buildinfo"
	"github.com/reefgenomics/reefkb/internal/conf"
)

// buildDate and version are set at build time through -ldflags.
var (
	buildDate string
	version   string
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	info := &buildinfo.Context{Version: version, BuildDate: buildDate}
	settings := &conf.Settings{}

	// Cancel a running import on Ctrl-C; its transaction rolls back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCommand(settings, info)
	err := rootCmd.ExecuteContext(ctx)
	cmd.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
