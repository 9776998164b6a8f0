// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ppt2pdf/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past conversion batches",
	Long: `History reads the batch journal kept in the SQLite file named by
history.db (or --history-db). Batches are recorded by convert and gui only
while the journal is enabled.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent batches, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	batches, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	return formatBatchList(cmd.OutOrStdout(), batches)
}

func formatBatchList(w io.Writer, batches []history.Batch) error {
	if len(batches) == 0 {
		fmt.Fprintln(w, "No batches recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-19s  %-10s  %-24s  %5s  %5s  %6s\n",
		"ID", "Started", "Status", "Engine", "Total", "Done", "Errors")
	fmt.Fprintln(w, strings.Repeat("-", 89))

	for _, b := range batches {
		eng := b.Engine
		if len(eng) > 24 {
			eng = eng[:21] + "..."
		}
		fmt.Fprintf(w, "%-8s  %-19s  %-10s  %-24s  %5d  %5d  %6d\n",
			shortID(b.ID), b.StartedAt.Local().Format(time.DateTime), b.Status, eng,
			b.Total, b.Done, b.Errors)
	}

	fmt.Fprintf(w, "\n%d batch(es)\n", len(batches))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one batch and its per-file outcomes",
	Long: `Show prints a batch and every file it converted or failed. The ID may be
abbreviated to any unique prefix, as printed by history list.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	rep, err := loadReport(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return formatReport(out, rep)
}

func formatReport(w io.Writer, rep history.Report) error {
	b := rep.Batch
	fmt.Fprintf(w, "Batch:   %s\n", b.ID)
	fmt.Fprintf(w, "Engine:  %s\n", b.Engine)
	fmt.Fprintf(w, "Status:  %s\n", b.Status)
	fmt.Fprintf(w, "Output:  %s\n", b.OutputDir)
	fmt.Fprintf(w, "Files:   %d converted, %d failed, %d of %d processed\n",
		b.Converted(), b.Errors, b.Done, b.Total)
	if !b.StartedAt.IsZero() {
		fmt.Fprintf(w, "Started: %s\n", b.StartedAt.Local().Format(time.DateTime))
	}
	if !b.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Took:    %s\n", b.FinishedAt.Sub(b.StartedAt).Round(time.Millisecond))
	}

	if len(rep.Files) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	for _, f := range rep.Files {
		if f.Failed() {
			fmt.Fprintf(w, "  FAIL  %s\n        %s\n", filepath.Base(f.Input), f.Error)
			continue
		}
		fmt.Fprintf(w, "  ok    %s -> %s (%s)\n",
			filepath.Base(f.Input), f.Output, f.Duration.Round(time.Millisecond))
	}
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export one batch as a YAML report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	rep, err := loadReport(args[0])
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		return rep.WriteYAML(cmd.OutOrStdout())
	}
	if err := rep.WriteFile(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func openHistory() (*history.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if cfg.History.DB == "" {
		return nil, fmt.Errorf("history is disabled: set history.db in the config or pass --history-db")
	}
	return history.Open(cfg.History.DB)
}

func loadReport(id string) (history.Report, error) {
	store, err := openHistory()
	if err != nil {
		return history.Report{}, err
	}
	defer store.Close()

	b, files, err := store.Get(context.Background(), id)
	if err != nil {
		return history.Report{}, err
	}
	return history.Report{Batch: b, Files: files}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum batches to list (0 = all)")
	historyShowCmd.Flags().Bool("json", false, "output the batch as JSON")
	historyExportCmd.Flags().StringP("file", "f", "", "write the report to this file (default stdout)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
