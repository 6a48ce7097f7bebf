package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/albatross-proto/albatross-data/cmd"
	"github.com/albatross-proto/albatross-data/internal/buildinfo"
	"github.com/albatross-proto/albatross-data/internal/conf"
	"github.com/albatross-proto/albatross-data/internal/errors"
)

// Exit statuses. Anything not listed exits with exitFailure.
const (
	exitOK         = 0
	exitFailure    = 1
	exitNotFound   = 2
	exitParse      = 3
	exitValidation = 4
)

// Set with -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = "dev"
	buildDate = ""
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &conf.Context{Build: &buildinfo.Context{Version: version, BuildDate: buildDate}}
	rootCmd := cmd.RootCommand(appCtx)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if closeErr := appCtx.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps an error category to the documented exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.IsCategory(err, errors.CategoryNotFound):
		return exitNotFound
	case errors.IsCategory(err, errors.CategoryParse):
		return exitParse
	case errors.IsCategory(err, errors.CategorySchema):
		return exitValidation
	default:
		return exitFailure
	}
}
