package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/acquire"
	"github.com/shimexe/shimexe/internal/shimmanager"
	"github.com/shimexe/shimexe/internal/updater"
)

var (
	checkUpdateAll     bool
	checkUpdateForce   bool
	checkUpdateInstall bool
)

var checkUpdateCmd = &cobra.Command{
	Use:   "check-update [NAME]",
	Short: "Check whether a newer version is available, optionally installing it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheckUpdate,
}

func init() {
	checkUpdateCmd.Flags().BoolVar(&checkUpdateAll, "all", false, "check every auto-updating shim in the store")
	checkUpdateCmd.Flags().BoolVar(&checkUpdateForce, "force", false, "ignore check_interval_hours and check now")
	checkUpdateCmd.Flags().BoolVar(&checkUpdateInstall, "install", false, "install the update if one is found")
	rootCmd.AddCommand(checkUpdateCmd)
}

func runCheckUpdate(cmd *cobra.Command, args []string) error {
	store := storeDir()
	m, err := shimmanager.New(store)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	var names []string
	switch {
	case checkUpdateAll:
		shims, err := m.ListShims()
		if err != nil {
			exitWithError("%v", err)
			return nil
		}
		for _, s := range shims {
			names = append(names, s.Name)
		}
	case len(args) == 1:
		names = []string{args[0]}
	default:
		exitWithError("check-update requires NAME or --all")
		return nil
	}

	u := updater.New(acquire.New(quietMode))
	for _, name := range names {
		checkOneUpdate(m, u, store, name)
	}
	return nil
}

func checkOneUpdate(m *shimmanager.Manager, u *updater.Updater, store, name string) {
	doc, err := m.GetShim(name)
	if err != nil {
		printError("%s: %v", name, err)
		return
	}

	if doc.AutoUpdate == nil || !doc.AutoUpdate.Enabled {
		printMessage("%s: auto-update is not enabled", name)
		return
	}

	docPath := filepath.Join(store, name+".shim.toml")
	interval := doc.AutoUpdate.CheckIntervalHours
	if checkUpdateForce {
		doc.AutoUpdate.CheckIntervalHours = 0
	}

	latest, needed, err := u.CheckUpdateNeeded(doc, docPath)
	doc.AutoUpdate.CheckIntervalHours = interval
	if err != nil {
		printError("%s: %v", name, err)
		return
	}

	if !needed {
		printMessage("%s: up to date", name)
		return
	}

	printMessage("%s: update available (%s)", name, latest)
	if !checkUpdateInstall {
		return
	}

	if err := u.UpdateToVersion(doc, docPath, latest); err != nil {
		printError("%s: update failed: %v", name, err)
		return
	}
	if err := m.UpdateShim(name, doc); err != nil {
		printError("%s: saved new version but failed to persist metadata: %v", name, err)
		return
	}
	printMessage("%s: updated to %s", name, latest)
}
