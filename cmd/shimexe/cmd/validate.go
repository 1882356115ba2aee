package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/shimconfig"
	"github.com/shimexe/shimexe/internal/shimmanager"
	"github.com/shimexe/shimexe/internal/validationcache"
)

var validateCmd = &cobra.Command{
	Use:   "validate NAME|FILE",
	Short: "Check whether a shim document resolves to a usable executable",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate accepts either a shim name already registered in the store
// or a direct path to a *.shim.toml document, per the `validate <file>`
// CLI contract: a path-shaped argument (contains a separator, ends in
// ".toml", or names an existing file) is loaded directly; anything else is
// looked up by name.
func runValidate(cmd *cobra.Command, args []string) error {
	arg := args[0]

	if looksLikePath(arg) {
		doc, err := shimconfig.Load(arg)
		if err != nil {
			exitWithError("%v", err)
			return nil
		}
		cache := validationcache.New(validationcache.DefaultTTL)
		target, err := shimconfig.Resolve(doc, storeDir())
		if err != nil || !cache.IsValid(target) {
			exitWithError("%s: invalid", arg)
			return nil
		}
		printMessage("%s: ok", arg)
		return nil
	}

	m, err := shimmanager.New(storeDir())
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	ok, err := m.ValidateShim(arg)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	if ok {
		printMessage("%s: ok", arg)
		return nil
	}

	exitWithError("%s: invalid", arg)
	return nil
}

func looksLikePath(s string) bool {
	if strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".toml") {
		return true
	}
	_, err := os.Stat(s)
	return err == nil
}
