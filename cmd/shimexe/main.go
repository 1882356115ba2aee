package main

import (
	"fmt"
	"os"

	"github.com/shimexe/shimexe/cmd/shimexe/cmd"
	"github.com/shimexe/shimexe/internal/acquire"
	"github.com/shimexe/shimexe/internal/dispatcher"
	"github.com/shimexe/shimexe/internal/shimconfig"
	"github.com/shimexe/shimexe/internal/shimrun"
	"github.com/shimexe/shimexe/internal/updater"
)

// Version is the application version, can be overridden at build time with ldflags.
var Version string

func main() {
	storeDir, err := dispatcher.DefaultStoreDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "shimexe: %v\n", err)
		os.Exit(1)
	}

	decision, err := dispatcher.Dispatch(storeDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shimexe: %v\n", err)
		os.Exit(1)
	}

	if decision.Mode == dispatcher.ModeManager {
		if Version == "" {
			Version = "dev"
		}
		cmd.SetVersion(Version)
		if err := cmd.Execute(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	os.Exit(runShim(decision, storeDir))
}

func runShim(decision dispatcher.Decision, storeDir string) int {
	doc, err := shimconfig.Load(decision.DocPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shimexe: %v\n", err)
		return 1
	}

	acquirer := acquire.New(false)
	u := updater.New(acquirer)
	runner := shimrun.New(storeDir, acquirer, u)

	code, err := runner.Execute(doc, decision.DocPath, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "shimexe: %v\n", err)
		return 1
	}
	return code
}
