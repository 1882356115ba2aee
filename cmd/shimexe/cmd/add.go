package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shimexe/shimexe/internal/archive"
	"github.com/shimexe/shimexe/internal/shimmanager"
)

var (
	addPath          string
	addArgs          []string
	addEnv           map[string]string
	addCwd           string
	addDownloadURL   string
	addVersion       string
	addDescription   string
	addAuthor        string
	addTags          []string
	addForce         bool
	addShimDir       string
	addAddSystemPath bool
)

var addCmd = &cobra.Command{
	Use:   "add [NAME]",
	Short: "Create a new shim",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addPath, "path", "", "target executable path or URL")
	addCmd.Flags().StringSliceVar(&addArgs, "args", nil, "default argument (repeatable)")
	addCmd.Flags().StringToStringVar(&addEnv, "env", nil, "environment variable KEY=VALUE (repeatable)")
	addCmd.Flags().StringVar(&addCwd, "cwd", "", "working directory")
	addCmd.Flags().StringVar(&addDownloadURL, "download-url", "", "remote URL to acquire the target from")
	addCmd.Flags().StringVar(&addVersion, "version", "", "shim version metadata")
	addCmd.Flags().StringVar(&addDescription, "description", "", "shim description metadata")
	addCmd.Flags().StringVar(&addAuthor, "author", "", "shim author metadata")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "metadata tag (repeatable)")
	addCmd.Flags().BoolVar(&addForce, "force", false, "overwrite an existing shim of the same name")
	addCmd.Flags().StringVar(&addShimDir, "shim-dir", "", "shim store directory (overrides --store for this command)")
	addCmd.Flags().BoolVar(&addAddSystemPath, "add-system-path", false, "print the command needed to add the shim store to PATH")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if addPath == "" {
		exitWithError("--path is required")
		return nil
	}

	dir := storeDir()
	if addShimDir != "" {
		dir = addShimDir
	}

	m, err := shimmanager.New(dir)
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	} else {
		existing, err := m.ListShims()
		if err != nil {
			exitWithError("%v", err)
			return nil
		}
		existingNames := make([]string, 0, len(existing))
		for _, s := range existing {
			existingNames = append(existingNames, s.Name)
		}
		name = archive.GenerateShimName(addPath, existingNames)
	}

	if m.ShimExists(name) && !addForce {
		exitWithError("%s: shim already exists (use --force to overwrite)", name)
		return nil
	}

	builder := shimmanager.NewBuilder(name, addPath)
	if len(addArgs) > 0 {
		builder.Args(addArgs...)
	}
	for k, v := range addEnv {
		builder.Env(k, v)
	}
	if addCwd != "" {
		builder.Cwd(addCwd)
	}
	if addDownloadURL != "" {
		builder.DownloadURL(addDownloadURL)
	}
	if addVersion != "" {
		builder.Version(addVersion)
	}
	if addDescription != "" {
		builder.Description(addDescription)
	}
	if addAuthor != "" {
		builder.Author(addAuthor)
	}
	if len(addTags) > 0 {
		builder.Tags(addTags...)
	}

	doc, err := builder.Build()
	if err != nil {
		exitWithError("%v", err)
		return nil
	}

	if err := m.AddShim(name, doc, ""); err != nil {
		exitWithError("%v", err)
		return nil
	}

	printMessage("created shim %s", name)

	if addAddSystemPath {
		printPathHint(dir)
	}
	return nil
}
