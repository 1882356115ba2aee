package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/shimmanager"
)

var (
	updatePath        string
	updateArgs        []string
	updateCwd         string
	updateEnv         map[string]string
	updateVersion     string
	updateDescription string
)

var updateCmd = &cobra.Command{
	Use:   "update NAME",
	Short: "Update an existing shim's document",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updatePath, "path", "", "new target executable path")
	updateCmd.Flags().StringSliceVar(&updateArgs, "args", nil, "new default arguments (repeatable, replaces existing)")
	updateCmd.Flags().StringVar(&updateCwd, "cwd", "", "new working directory")
	updateCmd.Flags().StringToStringVar(&updateEnv, "env", nil, "environment variable KEY=VALUE (repeatable, merged into existing)")
	updateCmd.Flags().StringVar(&updateVersion, "version", "", "new version metadata")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description metadata")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	name := args[0]

	m, err := shimmanager.New(storeDir())
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	doc, err := m.GetShim(name)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	if updatePath != "" {
		doc.Shim.Path = updatePath
	}
	if cmd.Flags().Changed("args") {
		doc.Shim.Args = updateArgs
	}
	if updateCwd != "" {
		doc.Shim.Cwd = updateCwd
	}
	if len(updateEnv) > 0 {
		if doc.Shim.Env == nil {
			doc.Shim.Env = make(map[string]string, len(updateEnv))
		}
		for k, v := range updateEnv {
			doc.Shim.Env[k] = v
		}
	}
	if updateVersion != "" {
		doc.Metadata.Version = updateVersion
	}
	if updateDescription != "" {
		doc.Metadata.Description = updateDescription
	}

	if err := m.UpdateShim(name, doc); err != nil {
		exitWithError("%v", err)
		return nil
	}

	printMessage("updated shim %s", name)
	return nil
}
