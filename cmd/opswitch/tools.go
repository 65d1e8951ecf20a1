package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opswitch/opswitch/internal/ui"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool catalog",
	Long:  "List every tool opswitch can manage: the built-in catalog plus entries from tools.lua.",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	mgr, err := newManager(cmd.Context())
	if err != nil {
		return err
	}

	reg := mgr.Registry()
	for _, name := range reg.Names() {
		spec, err := reg.Resolve(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", ui.ToolStyle.Render(spec.Name), spec.ContentType)
		fmt.Printf("  %s\n", ui.SubtleStyle.Render(spec.URLTemplate))
	}

	return nil
}
