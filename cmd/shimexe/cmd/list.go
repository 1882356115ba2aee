package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/shimconfig"
	"github.com/shimexe/shimexe/internal/shimmanager"
)

var listDetailed bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every shim in the store",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listDetailed, "detailed", false, "show target path, version and description for each shim")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	m, err := shimmanager.New(storeDir())
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	shims, err := m.ListShims()
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	names := make([]string, 0, len(shims))
	invalid := make(map[string]bool, len(shims))
	docs := make(map[string]*shimconfig.ShimDocument, len(shims))
	for _, s := range shims {
		names = append(names, s.Name)
		if ok, err := m.ValidateShim(s.Name); err != nil || !ok {
			invalid[s.Name] = true
		}
		if listDetailed {
			if doc, err := m.GetShim(s.Name); err == nil {
				docs[s.Name] = doc
			}
		}
	}

	if listDetailed {
		printShimListDetailed(names, docs, invalid)
		return nil
	}
	printShimList(names, invalid)
	return nil
}
