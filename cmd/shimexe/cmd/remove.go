package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/shimmanager"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm"},
	Short:   "Remove a shim's document, executable and sibling copy",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "do not fail if the shim does not exist")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	m, err := shimmanager.New(storeDir())
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	if !m.ShimExists(name) {
		if removeForce {
			printMessage("removed shim %s", name)
			return nil
		}
		exitWithError("no such shim: %s", name)
		return nil
	}

	if err := m.RemoveShim(name); err != nil {
		exitWithError("%v", err)
		return nil
	}

	printMessage("removed shim %s", name)
	return nil
}
