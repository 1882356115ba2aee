package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/config"
	"github.com/shimexe/shimexe/internal/shimconfig"
	"github.com/shimexe/shimexe/internal/shimmanager"
)

var initExamples bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the shim store directory and its settings file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initExamples, "examples", false, "also write a couple of example shim documents")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := storeDir()
	if _, err := shimmanager.New(dir); err != nil {
		exitWithError("%v", err)
		return nil
	}

	settings := config.NewManager(dir)
	cfg, err := settings.Load()
	if err != nil {
		exitWithError("%v", err)
		return nil
	}
	if err := settings.Save(cfg); err != nil {
		exitWithError("%v", err)
		return nil
	}

	printMessage("initialized shim store at %s", dir)

	if initExamples {
		if err := writeExampleShims(dir); err != nil {
			exitWithError("%v", err)
			return nil
		}
		printMessage("wrote example shims: echo-hi, verbose-tool")
	}
	return nil
}

// writeExampleShims drops two illustrative documents straight into the
// store via shimconfig, bypassing the manager so no executable copy is
// made — they exist purely to show the args-mode and template syntax.
func writeExampleShims(dir string) error {
	echoHi := &shimconfig.ShimDocument{
		Shim: shimconfig.ShimCore{Name: "echo-hi", Path: "echo", Args: []string{"hi"}},
		Args: shimconfig.ArgsConfig{Mode: shimconfig.ArgsModeMerge},
		Metadata: shimconfig.Metadata{
			Description: "echoes 'hi' followed by any arguments you pass",
		},
	}

	verboseTool := &shimconfig.ShimDocument{
		Shim: shimconfig.ShimCore{Name: "verbose-tool", Path: "echo"},
		Args: shimconfig.ArgsConfig{
			Mode: shimconfig.ArgsModeTemplate,
			Template: []string{
				"{{if env('DEBUG') == 'true'}}--verbose{{endif}}",
				"{{args('--help')}}",
			},
		},
		Metadata: shimconfig.Metadata{
			Description: "demonstrates template mode: an if test renders as the literal true or false and {{endif}} as endif, so the first argument is true--verboseendif with DEBUG=true and false--verboseendif otherwise; the second is your arguments, or --help when none are given",
		},
	}

	if err := shimconfig.Save(filepath.Join(dir, "echo-hi.shim.toml"), echoHi); err != nil {
		return err
	}
	return shimconfig.Save(filepath.Join(dir, "verbose-tool.shim.toml"), verboseTool)
}
