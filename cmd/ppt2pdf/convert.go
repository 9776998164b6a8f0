// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ppt2pdf/internal/batch"
	"github.com/pdiddy/ppt2pdf/internal/gui"
	"github.com/pdiddy/ppt2pdf/internal/history"
	"github.com/pdiddy/ppt2pdf/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files or folders...]",
	Short: "Convert presentations to PDF",
	Long: `Convert finds every .ppt and .pptx file among the arguments (folders are
scanned, recursively unless --recursive=false), then converts them one at a
time into the output folder. Existing PDFs with the same name are
overwritten.

Ctrl-C stops the batch after the file currently converting. The command exits
non-zero if the engine could not start or any file failed.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("report", "", "write a YAML report of the batch to this file")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	reportPath, _ := cmd.Flags().GetString("report")

	out := cmd.OutOrStdout()
	files, err := gui.Preflight(args, cfg.OutputDir, cfg.Recursive)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d presentation(s).\n", len(files))

	var recorders []batch.Recorder
	if cfg.History.DB != "" {
		store, err := history.Open(cfg.History.DB)
		if err != nil {
			return err
		}
		defer store.Close()
		recorders = append(recorders, store)
	}
	var collector *history.Collector
	if reportPath != "" {
		collector = history.NewCollector()
		recorders = append(recorders, collector)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := batch.NewWorker(batch.Config{
		Tasks:     files,
		OutputDir: cfg.OutputDir,
		Pick:      batch.DefaultPicker(cfg),
		Recorder:  batch.MultiRecorder(recorders...),
	})
	if err := w.Start(ctx); err != nil {
		return err
	}
	st := printEvents(out, w.Queue(), w.Done())

	if collector != nil {
		if err := collector.Report().WriteFile(reportPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", reportPath)
	}
	return batchErr(st)
}

// printEvents writes log events to w as they arrive and returns the terminal
// state. done must close after the worker pushes its finished event.
func printEvents(w io.Writer, q *batch.Queue, done <-chan struct{}) types.BatchState {
	for {
		select {
		case <-q.Ready():
			if st, ok := printBatch(w, q.Drain()); ok {
				return st
			}
		case <-done:
			st, _ := printBatch(w, q.Drain())
			return st
		}
	}
}

func printBatch(w io.Writer, events []batch.Event) (types.BatchState, bool) {
	for _, e := range events {
		switch e.Kind {
		case batch.EventLog:
			fmt.Fprintln(w, e.Message)
		case batch.EventProgress:
			fmt.Fprintf(w, "[%d/%d]\n", e.Done, e.Total)
		case batch.EventFinished:
			return e.State, true
		}
	}
	return types.BatchState{}, false
}

var errCancelled = errors.New("conversion cancelled")

// batchErr maps a terminal state to the command's exit error.
func batchErr(st types.BatchState) error {
	switch {
	case st.Status == types.BatchFatal:
		return fmt.Errorf("batch %s stopped on a fatal error", st.ID)
	case st.Status == types.BatchCancelled:
		return fmt.Errorf("%w after %d of %d file(s)", errCancelled, st.Done, st.Total)
	case st.Errors > 0:
		return fmt.Errorf("%d file(s) failed conversion", st.Errors)
	}
	return nil
}
