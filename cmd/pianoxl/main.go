// Command pianoxl lays out and renders the PianoXL keyboard preview.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/internal/cli"
	"github.com/matzehuels/pianoxl/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	cancel()

	code := errors.ExitCode(err)
	if code != 0 && code != errors.ExitInterrupted {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.UserMessage(err))
		if c := errors.GetCode(err); c != "" {
			fmt.Fprintf(os.Stderr, "  code: %s\n", c)
		}
	}
	os.Exit(code)
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return nil
	}
	return root.ExecuteContext(ctx)
}
