// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ppt2pdf/internal/batch"
	"github.com/pdiddy/ppt2pdf/internal/gui"
	"github.com/pdiddy/ppt2pdf/internal/history"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the desktop converter window",
	Long: `Gui opens a window for picking files and folders, choosing the engine and
output folder, and watching conversion progress. The engine, output folder
and recursion settings start from the config file and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		var rec batch.Recorder
		if cfg.History.DB != "" {
			store, err := history.Open(cfg.History.DB)
			if err != nil {
				return err
			}
			defer store.Close()
			rec = store
		}
		return gui.Run(cfg, rec)
	},
}

func init() {
	rootCmd.AddCommand(guiCmd)
}
