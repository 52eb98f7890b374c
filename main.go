package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func init() {
	MoonLZ.AddCommand(
		compressCommand(),
		decompressCommand(),
		listCommand(),
		inspectCommand(),
		cleanupCommand(),
		exportCommand(),
		benchCommand(),
	)
}

var (
	MoonLZ = &cobra.Command{
		Use:           "moonlz",
		Version:       "v0.1.0",
		Short:         "MoonLZ factors files into LZ77 tokens with a suffix tree",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := MoonLZ.ExecuteContext(ctx); err != nil {
		logFatal(err)
	}
}
