// Command unformat extracts values from strings using format templates.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
)

const exitFailure = 1

// exitError ends the process with code after its output has already been
// written.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	err := Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return
	}
	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitFailure)
}
