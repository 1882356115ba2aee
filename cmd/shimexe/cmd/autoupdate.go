package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/config"
	"github.com/shimexe/shimexe/internal/shimconfig"
	"github.com/shimexe/shimexe/internal/shimmanager"
)

var autoUpdateCmd = &cobra.Command{
	Use:   "auto-update",
	Short: "Enable, disable, configure or inspect a shim's auto-update settings",
}

func init() {
	rootCmd.AddCommand(autoUpdateCmd)
	autoUpdateCmd.AddCommand(autoUpdateEnableCmd, autoUpdateDisableCmd, autoUpdateStatusCmd, autoUpdateConfigureCmd)
}

func loadForAutoUpdate(name string) (*shimmanager.Manager, *shimconfig.ShimDocument, bool) {
	m, err := shimmanager.New(storeDir())
	if err != nil {
		exitWithError("%v", err)
		return nil, nil, false
	}
	doc, err := m.GetShim(name)
	if err != nil {
		exitWithError("%v", err)
		return nil, nil, false
	}
	if doc.AutoUpdate == nil {
		doc.AutoUpdate = &shimconfig.AutoUpdate{}
	}
	return m, doc, true
}

var autoUpdateEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable auto-update for a shim",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		m, doc, ok := loadForAutoUpdate(name)
		if !ok {
			return nil
		}
		doc.AutoUpdate.Enabled = true
		if err := m.UpdateShim(name, doc); err != nil {
			exitWithError("%v", err)
			return nil
		}
		printMessage("%s: auto-update enabled", name)
		return nil
	},
}

var autoUpdateDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable auto-update for a shim",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		m, doc, ok := loadForAutoUpdate(name)
		if !ok {
			return nil
		}
		doc.AutoUpdate.Enabled = false
		if err := m.UpdateShim(name, doc); err != nil {
			exitWithError("%v", err)
			return nil
		}
		printMessage("%s: auto-update disabled", name)
		return nil
	},
}

var autoUpdateStatusCmd = &cobra.Command{
	Use:   "status NAME",
	Short: "Show a shim's auto-update configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if doc.AutoUpdate == nil || !doc.AutoUpdate.Enabled {
			printMessage("%s: auto-update disabled", name)
			return nil
		}
		printMessage("%s: auto-update enabled, checks every %d hour(s), current version %s",
			name, doc.AutoUpdate.CheckIntervalHours, doc.Metadata.Version)
		return nil
	},
}

var (
	configureIntervalHours uint64
	configurePreCommand    string
	configurePostCommand   string
)

var autoUpdateConfigureCmd = &cobra.Command{
	Use:   "configure NAME",
	Short: "Set a shim's check interval and pre/post update commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		m, doc, ok := loadForAutoUpdate(name)
		if !ok {
			return nil
		}

		if cmd.Flags().Changed("interval-hours") {
			doc.AutoUpdate.CheckIntervalHours = configureIntervalHours
		} else if doc.AutoUpdate.CheckIntervalHours == 0 {
			if cfg, err := config.NewManager(storeDir()).Load(); err == nil {
				doc.AutoUpdate.CheckIntervalHours = cfg.DefaultCheckIntervalHours
			}
		}
		if configurePreCommand != "" {
			doc.AutoUpdate.PreUpdateCommand = configurePreCommand
		}
		if configurePostCommand != "" {
			doc.AutoUpdate.PostUpdateCommand = configurePostCommand
		}

		if err := m.UpdateShim(name, doc); err != nil {
			exitWithError("%v", err)
			return nil
		}
		printMessage("%s: auto-update configuration updated", name)
		return nil
	},
}

func init() {
	autoUpdateConfigureCmd.Flags().Uint64Var(&configureIntervalHours, "interval-hours", 0, "hours between update checks (0 = always check)")
	autoUpdateConfigureCmd.Flags().StringVar(&configurePreCommand, "pre-update-command", "", "shell command to run before updating")
	autoUpdateConfigureCmd.Flags().StringVar(&configurePostCommand, "post-update-command", "", "shell command to run after updating")
}
