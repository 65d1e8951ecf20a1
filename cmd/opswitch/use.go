package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opswitch/opswitch/internal/manager"
	"github.com/opswitch/opswitch/internal/ui"
)

var useForce bool

var useCmd = &cobra.Command{
	Use:   "use <tool> <version|latest>",
	Short: "Switch to or install the given tool and version",
	Long: `Download the given tool version if it is not already present, then
repoint the launcher symlink at it. With an already-downloaded version this
only resets permissions and relinks.`,
	Args: cobra.ExactArgs(2),
	RunE: runUse,
}

func init() {
	useCmd.Flags().BoolVarP(&useForce, "force", "f", false,
		"redownload even if the version already exists locally")
	rootCmd.AddCommand(useCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mgr, err := newManager(ctx)
	if err != nil {
		return err
	}

	var progress *ui.Progress
	result, err := mgr.Use(ctx, manager.UseOptions{
		Tool:    args[0],
		Version: args[1],
		Force:   useForce,
		OnProgress: func(written, total int64) {
			if progress == nil {
				progress = ui.NewProgress(os.Stdout, total)
			}
			progress.Update(written)
		},
	})
	if progress != nil {
		progress.Done()
	}
	if err != nil {
		return err
	}

	if result.Fetched {
		ui.Success("downloaded %s %s", result.Tool, result.Version)
	} else {
		ui.Info("%s %s already downloaded (use --force to redownload)", result.Tool, result.Version)
	}
	ui.Success("%s now points at %s", result.Tool, result.Path)

	return nil
}
