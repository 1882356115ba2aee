package cmd

import (
	"fmt"
	"runtime"

	"github.com/shimexe/shimexe/internal/shimconfig"
)

// quietMode suppresses non-error output when true.
var quietMode bool

func shouldPrint() bool {
	return !quietMode
}

// printMessage prints a message to stdout if not in quiet mode.
func printMessage(format string, args ...interface{}) {
	if shouldPrint() {
		fmt.Printf(format+"\n", args...)
	}
}

// printShimList prints shim names, marking invalid ones.
func printShimList(names []string, invalid map[string]bool) {
	if !shouldPrint() {
		return
	}
	for _, n := range names {
		if invalid[n] {
			fmt.Printf("  %s (invalid)\n", n)
		} else {
			fmt.Printf("  %s\n", n)
		}
	}
}

// printShimListDetailed prints one line per shim, in names order, with
// its target path, version and description alongside the validity marker.
func printShimListDetailed(names []string, docs map[string]*shimconfig.ShimDocument, invalid map[string]bool) {
	if !shouldPrint() {
		return
	}
	for _, name := range names {
		doc := docs[name]
		status := "ok"
		if invalid[name] {
			status = "invalid"
		}
		version := doc.Metadata.Version
		if version == "" {
			version = "-"
		}
		desc := doc.Metadata.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Printf("  %-20s %-8s %-10s %-30s %s\n", name, status, version, doc.Shim.Path, desc)
	}
}

// printPathHint surfaces the shell command needed to put dir on PATH,
// rather than editing a shell profile or the registry on the user's
// behalf.
func printPathHint(dir string) {
	if !shouldPrint() {
		return
	}
	if runtime.GOOS == "windows" {
		fmt.Printf("add %s to PATH, e.g.: setx PATH \"%%PATH%%;%s\"\n", dir, dir)
		return
	}
	fmt.Printf("add %s to PATH, e.g.: export PATH=\"%s:$PATH\"\n", dir, dir)
}
