package cmd

import (
	"fmt"
	"os"
)

// printError prints an error message to stderr with consistent formatting.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// exitWithError prints an error and exits with code 1.
func exitWithError(format string, args ...interface{}) {
	printError(format, args...)
	os.Exit(1)
}
