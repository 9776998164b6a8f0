// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ppt2pdf/internal/container"
	"github.com/pdiddy/ppt2pdf/internal/engine"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show which conversion engines are available",
	Long: `Detect looks for LibreOffice on PATH and in the usual install locations,
and reports whether PowerPoint automation is compiled in (Windows only).
Nothing is launched.

With --container it also checks for a working docker or podman runtime.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		probe, _ := cmd.Flags().GetBool("container")

		rep := engine.Detect()
		if probe {
			rep.ContainerProbed = true
			if rt, err := container.DetectRuntime(); err == nil {
				rep.ContainerRuntime = rt.Name()
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), rep.String())
		return nil
	},
}

func init() {
	detectCmd.Flags().Bool("container", false, "also probe for docker or podman")
	rootCmd.AddCommand(detectCmd)
}
