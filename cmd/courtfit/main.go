// Command courtfit fits a court model to the lines of a sports image.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"court-fitter/internal/fitter"
)

// Exit codes for different failure modes
const (
	ExitError        = 1 // Runtime or configuration error
	ExitPrecondition = 2 // Not enough lines or pairs to fit a court
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, fitter.ErrPrecondition) {
			os.Exit(ExitPrecondition)
		}
		os.Exit(ExitError)
	}
}
