// Command azimage browses the Azure VM image catalog and writes a Markdown
// report for the chosen image.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/azimage/internal/cli"
	"github.com/rshade/azimage/internal/workflow"
	"github.com/rshade/azimage/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A second interrupt terminates immediately, even while blocked on a prompt.
	go func() {
		<-ctx.Done()
		stop()
	}()

	root := cli.NewRootCmd(version.GetVersion())
	err := root.ExecuteContext(ctx)
	return reportExit(os.Stderr, err)
}

// reportExit prints err for the user and returns the exit code for it.
func reportExit(w io.Writer, err error) int {
	code := workflow.ExitCode(err)
	switch {
	case err == nil:
	case errors.Is(err, workflow.ErrUserCancelled):
		fmt.Fprintf(w, "Cancelled: %v\n", err)
	case code == workflow.ExitInterrupted:
		fmt.Fprintln(w, "Interrupted.")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return code
}
