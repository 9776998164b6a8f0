// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ppt2pdf CLI.
// Subcommands: convert, detect, gui, history, version.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ppt2pdf/internal/engine"
	"github.com/pdiddy/ppt2pdf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the ppt2pdf CLI.
var rootCmd = &cobra.Command{
	Use:   "ppt2pdf",
	Short: "Convert PowerPoint presentations to PDF offline",
	Long: `ppt2pdf converts .ppt and .pptx files to PDF with whatever engine is
installed locally: the LibreOffice soffice CLI, or PowerPoint itself on
Windows. Nothing is uploaded anywhere.

Use convert for batch conversion from the terminal, gui for the desktop
window, and detect to see which engines this machine has.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogging(verbose)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./ppt2pdf.yaml or ~/.config/ppt2pdf/ppt2pdf.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.StringP("engine", "e", "auto", "conversion engine: auto, libreoffice, powerpoint, container")
	pf.StringP("out", "o", "", "output folder (default ~/Desktop/PPT2PDF_Output)")
	pf.BoolP("recursive", "r", true, "scan folders recursively")
	pf.String("soffice", "", "path to the soffice binary (skips detection)")
	pf.String("image", engine.DefaultImage, "container image that provides soffice")
	pf.String("history-db", "", "SQLite file that journals every batch (empty disables)")

	bindFlag("engine", "engine")
	bindFlag("output_dir", "out")
	bindFlag("recursive", "recursive")
	bindFlag("soffice_path", "soffice")
	bindFlag("container.image", "image")
	bindFlag("history.db", "history-db")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ppt2pdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ppt2pdf"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("PPT2PDF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", string(types.EngineAuto))
	v.SetDefault("output_dir", defaultOutputDir())
	v.SetDefault("recursive", true)
	v.SetDefault("container.image", engine.DefaultImage)
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "PPT2PDF_Output"
	}
	return filepath.Join(home, "Desktop", "PPT2PDF_Output")
}

// loadConfig decodes v into a validated ConvertConfig.
func loadConfig(v *viper.Viper) (types.ConvertConfig, error) {
	var cfg types.ConvertConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	mode, err := types.ParseEngineMode(string(cfg.Engine))
	if err != nil {
		return cfg, err
	}
	cfg.Engine = mode
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir()
	}
	cfg.OutputDir = expandHome(cfg.OutputDir)
	cfg.History.DB = expandHome(cfg.History.DB)
	if cfg.Container.Image == "" {
		cfg.Container.Image = engine.DefaultImage
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
