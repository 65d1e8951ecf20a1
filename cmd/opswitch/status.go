package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opswitch/opswitch/internal/manager"
	"github.com/opswitch/opswitch/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status [tool]",
	Short: "List the active version of installed tools",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mgr, err := newManager(ctx)
	if err != nil {
		return err
	}

	var statuses []manager.ToolStatus
	if len(args) == 1 {
		status, err := mgr.Status(args[0])
		if err != nil {
			return err
		}
		statuses = append(statuses, status)
	} else {
		statuses, err = mgr.StatusAll()
		if err != nil {
			return err
		}
	}

	for _, status := range statuses {
		name := ui.ToolStyle.Render(status.Tool)
		if status.Configured {
			fmt.Printf("%s: %s\n", name, status.Version)
		} else {
			fmt.Printf("%s: %s\n", name, ui.SubtleStyle.Render("not setup"))
		}
	}

	return nil
}
