package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/acquire"
	"github.com/shimexe/shimexe/internal/shimconfig"
	"github.com/shimexe/shimexe/internal/shimmanager"
	"github.com/shimexe/shimexe/internal/shimrun"
	"github.com/shimexe/shimexe/internal/updater"
)

var runCmd = &cobra.Command{
	Use:                "run NAME|PATH -- [args...]",
	Short:              "Invoke a shim by name or document path, as if it had been invoked directly",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE:               runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runRun accepts either a shim name already registered in the store or a
// direct path to a *.shim.toml document, per the `run <name|path>` CLI
// contract — the same looksLikePath disambiguation validate.go uses.
func runRun(cmd *cobra.Command, args []string) error {
	target := args[0]
	forwarded := args[1:]
	if len(forwarded) > 0 && forwarded[0] == "--" {
		forwarded = forwarded[1:]
	}

	store := storeDir()

	var doc *shimconfig.ShimDocument
	var docPath string

	if looksLikePath(target) {
		var err error
		doc, err = shimconfig.Load(target)
		if err != nil {
			exitWithError("%v", err)
			return nil
		}
		docPath = target
	} else {
		m, err := shimmanager.New(store)
		if err != nil {
			exitWithError("%v", err)
			return nil
		}
		doc, err = m.GetShim(target)
		if err != nil {
			exitWithError("%v", err)
			return nil
		}
		docPath = filepath.Join(store, target+".shim.toml")
	}

	acquirer := acquire.New(quietMode)
	runner := shimrun.New(store, acquirer, updater.New(acquirer))

	code, err := runner.Execute(doc, docPath, forwarded)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	os.Exit(code)
	return nil
}
