// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gui is the desktop window for ppt2pdf. It manages the input
// list and output folder, starts and cancels batches, and renders the
// worker's events. All widget updates run on the fyne UI goroutine; the
// worker only reaches the window through the event queue and fyne.Do.
package gui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/pdiddy/ppt2pdf/internal/batch"
	"github.com/pdiddy/ppt2pdf/internal/discover"
	"github.com/pdiddy/ppt2pdf/internal/engine"
	"github.com/pdiddy/ppt2pdf/pkg/types"
)

const (
	appID         = "io.pdiddy.ppt2pdf"
	drainInterval = 120 * time.Millisecond
)

// Window holds the widgets and the state behind them.
type Window struct {
	app fyne.App
	win fyne.Window

	cfg      types.ConvertConfig
	recorder batch.Recorder
	runner   batch.Runner
	queue    *batch.Queue

	inputs   InputList
	selected int

	list      *widget.List
	engineSel *widget.Select
	recursive *widget.Check
	outEntry  *widget.Entry
	progress  *widget.ProgressBar
	status    *widget.Label
	startBtn  *widget.Button
	cancelBtn *widget.Button
	logLabel  *widget.Label
	logScroll *container.Scroll
	logText   strings.Builder
}

// Run opens the window and blocks until it is closed. cfg supplies the
// initial engine, output folder and recursion setting. rec may be nil.
func Run(cfg types.ConvertConfig, rec batch.Recorder) error {
	w := newWindow(app.NewWithID(appID), cfg, rec)

	stop := make(chan struct{})
	go w.drainLoop(stop)
	w.win.SetOnClosed(func() {
		w.runner.Cancel()
		close(stop)
	})

	w.win.ShowAndRun()
	return nil
}

func newWindow(a fyne.App, cfg types.ConvertConfig, rec batch.Recorder) *Window {
	w := &Window{
		app:      a,
		win:      a.NewWindow("PPT → PDF Converter (Offline)"),
		cfg:      cfg,
		recorder: rec,
		queue:    batch.NewQueue(),
		selected: -1,
	}
	w.win.SetContent(w.build())
	w.win.Resize(fyne.NewSize(760, 560))
	return w
}

func (w *Window) build() fyne.CanvasObject {
	modes := make([]string, len(types.EngineModes))
	for i, m := range types.EngineModes {
		modes[i] = strings.ToUpper(m.String())
	}
	w.engineSel = widget.NewSelect(modes, nil)
	w.engineSel.SetSelected(strings.ToUpper(w.cfg.Engine.String()))

	w.recursive = widget.NewCheck("Scan folders recursively", nil)
	w.recursive.SetChecked(w.cfg.Recursive)

	top := container.NewHBox(
		widget.NewLabel("Engine:"), w.engineSel, w.recursive,
		widget.NewButton("Add Files", w.addFiles),
		widget.NewButton("Add Folder", w.addFolder),
		widget.NewButton("Clear List", w.clearList),
		layout.NewSpacer(),
		widget.NewButton("Detect Engines", w.detectEngines),
	)

	w.list = widget.NewList(
		w.inputs.Len,
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(w.inputs.At(id))
		},
	)
	w.list.OnSelected = func(id widget.ListItemID) { w.selected = id }
	w.list.OnUnselected = func(widget.ListItemID) { w.selected = -1 }

	listButtons := container.NewHBox(
		widget.NewButton("Remove Selected", w.removeSelected),
		widget.NewButton("Remove Non-existent", w.removeMissing),
	)
	inputsCard := widget.NewCard("Selected files & folders", "",
		container.NewBorder(nil, listButtons, nil, nil, w.list))

	w.outEntry = widget.NewEntry()
	w.outEntry.SetText(w.cfg.OutputDir)
	outRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(
			widget.NewButton("Browse…", w.browseOutput),
			widget.NewButton("Open", w.openOutput),
		),
		w.outEntry)
	outCard := widget.NewCard("Output Folder", "", container.NewVBox(
		outRow,
		widget.NewLabel("Converted PDFs will be written here.\nExisting files with the same name will be overwritten."),
	))

	w.progress = widget.NewProgressBar()
	w.status = widget.NewLabel("Ready.")
	w.startBtn = widget.NewButton("Start Conversion", w.start)
	w.cancelBtn = widget.NewButton("Cancel", w.cancel)
	w.cancelBtn.Disable()
	controls := container.NewBorder(nil, nil, w.progress,
		container.NewHBox(w.cancelBtn, w.startBtn), w.status)

	w.logLabel = widget.NewLabel("")
	w.logLabel.Wrapping = fyne.TextWrapWord
	w.logScroll = container.NewVScroll(w.logLabel)
	w.logScroll.SetMinSize(fyne.NewSize(0, 180))
	logCard := widget.NewCard("Log", "", w.logScroll)

	middle := container.NewHSplit(inputsCard, outCard)
	return container.NewBorder(top, container.NewVBox(controls, logCard), nil, nil, middle)
}

// --- input list ---

func (w *Window) addFiles() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		r.Close()
		w.inputs.Add(path)
		w.list.Refresh()
	}, w.win)
	d.SetFilter(storage.NewExtensionFileFilter(discover.Extensions))
	d.Show()
}

func (w *Window) addFolder() {
	dialog.ShowFolderOpen(func(u fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if u == nil {
			return
		}
		w.inputs.Add(u.Path())
		w.list.Refresh()
	}, w.win)
}

func (w *Window) clearList() {
	w.inputs.Clear()
	w.list.UnselectAll()
	w.list.Refresh()
}

func (w *Window) removeSelected() {
	if w.selected < 0 {
		return
	}
	w.inputs.RemoveAt(w.selected)
	w.list.UnselectAll()
	w.list.Refresh()
}

func (w *Window) removeMissing() {
	w.inputs.RemoveMissing()
	w.list.UnselectAll()
	w.list.Refresh()
}

// --- output folder ---

func (w *Window) browseOutput() {
	dialog.ShowFolderOpen(func(u fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if u != nil {
			w.outEntry.SetText(u.Path())
		}
	}, w.win)
}

func (w *Window) openOutput() {
	dir := strings.TrimSpace(w.outEntry.Text)
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		dialog.ShowError(err, w.win)
		return
	}
	if err := w.app.OpenURL(folderURL(dir)); err != nil {
		dialog.ShowError(err, w.win)
	}
}

// folderURL builds a file:// URL for dir on any OS.
func folderURL(dir string) *url.URL {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	p := filepath.ToSlash(dir)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return &url.URL{Scheme: "file", Path: p}
}

// --- batch control ---

func (w *Window) detectEngines() {
	dialog.ShowInformation("Engine Detection", engine.Detect().String(), w.win)
}

func (w *Window) start() {
	if w.runner.Busy() {
		dialog.ShowInformation("Busy", "Conversion is already running.", w.win)
		return
	}

	out := strings.TrimSpace(w.outEntry.Text)
	files, err := Preflight(w.inputs.Items(), out, w.recursive.Checked)
	if err != nil {
		if pe, ok := AsPreflight(err); ok {
			dialog.ShowInformation(pe.Title, pe.Message, w.win)
		} else {
			dialog.ShowError(err, w.win)
		}
		return
	}

	cfg := w.cfg
	cfg.OutputDir = out
	cfg.Recursive = w.recursive.Checked
	if mode, err := types.ParseEngineMode(w.engineSel.Selected); err == nil {
		cfg.Engine = mode
	}

	w.progress.Max = float64(len(files))
	w.progress.SetValue(0)
	w.status.SetText(statusText(0, len(files)))
	w.appendLog(fmt.Sprintf("Found %d presentation(s).", len(files)))

	_, err = w.runner.Start(context.Background(), batch.Config{
		Tasks:     files,
		OutputDir: out,
		Pick:      batch.DefaultPicker(cfg),
		Queue:     w.queue,
		Progress:  w.onProgress,
		Recorder:  w.recorder,
	})
	if errors.Is(err, batch.ErrBusy) {
		dialog.ShowInformation("Busy", "Conversion is already running.", w.win)
		return
	}
	if err != nil {
		dialog.ShowError(err, w.win)
		return
	}
	w.startBtn.Disable()
	w.cancelBtn.Enable()
}

func (w *Window) cancel() {
	if w.runner.Cancel() {
		w.appendLog("Cancelling…")
	}
}

// onProgress runs on the worker goroutine.
func (w *Window) onProgress(done, total int) {
	fyne.Do(func() {
		w.progress.Max = float64(total)
		w.progress.SetValue(float64(done))
		w.status.SetText(statusText(done, total))
	})
}

func (w *Window) drainLoop(stop <-chan struct{}) {
	t := time.NewTicker(drainInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			fyne.Do(w.drain)
		}
	}
}

// drain renders queued events. UI goroutine only.
func (w *Window) drain() {
	for _, e := range w.queue.Drain() {
		switch e.Kind {
		case batch.EventLog:
			w.appendLog(e.Message)
		case batch.EventFinished:
			w.finished(e.State)
		}
	}
}

func (w *Window) finished(st types.BatchState) {
	switch st.Status {
	case types.BatchCancelled:
		w.status.SetText(fmt.Sprintf("Cancelled after %d / %d.", st.Done, st.Total))
	case types.BatchFatal:
		w.status.SetText("Failed.")
	default:
		w.status.SetText(statusText(st.Done, st.Total))
	}
	w.startBtn.Enable()
	w.cancelBtn.Disable()
}

func (w *Window) appendLog(line string) {
	w.logText.WriteString(line)
	w.logText.WriteString("\n")
	w.logLabel.SetText(w.logText.String())
	w.logScroll.ScrollToBottom()
}
