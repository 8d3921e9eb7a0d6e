package main

import (
	"fmt"
	"os"

	"github.com/TFMV/findexec/cmd"
)

// main always exits with status 0; failures are reported on standard error.
func main() {
	// Set up a deferred function to recover from panics.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Something strange happened: %v\n", r)
		}
	}()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
