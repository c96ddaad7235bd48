// Command lcrtool runs the attendance checks offline: validate an attendance
// CSV, print the geocoding variants of an address, or compare two names.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
