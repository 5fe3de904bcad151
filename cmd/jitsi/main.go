// Package main is the entry point for the jitsi launcher.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/thoreinstein/jitsi/cmd/jitsi/commands"
	"github.com/thoreinstein/jitsi/internal/errors"
)

func main() {
	os.Exit(report(commands.Execute(), os.Stdout, os.Stderr))
}

// report prints err and returns the process exit status. Errors carrying a
// zero status (another instance took the arguments) go to stdout.
func report(err error, stdout, stderr io.Writer) int {
	if err == nil {
		return errors.ExitSuccess
	}

	code := errors.ExitCode(err)
	w := stderr
	if code == errors.ExitSuccess {
		w = stdout
	}

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(w, exitErr.Err)
		}
		if exitErr.Suggestion != "" {
			fmt.Fprintln(w, exitErr.Suggestion)
		}
		return code
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	return code
}
