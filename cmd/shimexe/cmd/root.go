package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/config"
	"github.com/shimexe/shimexe/internal/dispatcher"
)

var appVersion string

// storeFlag overrides the shim store directory; empty means the default.
var storeFlag string

var rootCmd = &cobra.Command{
	Use:   "shimexe",
	Short: "Cross-platform executable shim manager",
	Long: `shimexe manages lightweight shim executables that forward invocations
to a target program, with optional argument templating, environment
injection, remote acquisition and self-updating.

Each shim is one binary-copy-plus-document pair: invoking the shim by
name resolves its document, acquires its target if missing, validates
it, and execs it with your arguments.`,
	Example: `  shimexe add mytool --path /usr/local/bin/real-tool
  shimexe list
  shimexe run mytool -- --flag
  mytool --flag`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyConfigDefaults(cmd)
	},
}

// applyConfigDefaults loads the store's persisted settings and uses them
// to fill in flags the user did not explicitly pass on this invocation —
// currently just --quiet. Settings are best-effort: a store that has
// never been init'd simply gets config.Manager.Load's built-in defaults.
func applyConfigDefaults(cmd *cobra.Command) {
	if cmd.Flags().Changed("quiet") {
		return
	}
	cfg, err := config.NewManager(storeDir()).Load()
	if err != nil {
		return
	}
	quietMode = cfg.Quiet
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the application version.
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "shim store directory (default: ~/.shimexe)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "suppress non-error output")
}

// storeDir resolves the effective shim store directory for this
// invocation: the --store flag if given, else the dispatcher default.
func storeDir() string {
	if storeFlag != "" {
		return storeFlag
	}
	dir, err := dispatcher.DefaultStoreDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return dir
}
