// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ppt2pdf/pkg/types"
)

// Report is the exported form of one batch.
type Report struct {
	Batch Batch               `json:"batch" yaml:"batch"`
	Files []types.FileOutcome `json:"files" yaml:"files"`
}

// WriteYAML encodes r to w.
func (r Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&r); err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return enc.Close()
}

// WriteFile writes r as YAML to path.
func (r Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}
	if err := r.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Collector is an in-memory recorder that builds a Report for the batch
// it observes.
type Collector struct {
	mu  sync.Mutex
	rep Report
	now func() time.Time
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{now: time.Now}
}

func (c *Collector) BatchStarted(st types.BatchState, outputDir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rep.Batch = Batch{BatchState: st, OutputDir: outputDir, StartedAt: c.now().UTC()}
	return nil
}

func (c *Collector) FileDone(_ string, o types.FileOutcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rep.Files = append(c.rep.Files, o)
	return nil
}

func (c *Collector) BatchFinished(st types.BatchState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rep.Batch.BatchState = st
	c.rep.Batch.FinishedAt = c.now().UTC()
	return nil
}

// Report returns a copy of what has been collected so far.
func (c *Collector) Report() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.rep
	r.Files = append([]types.FileOutcome(nil), c.rep.Files...)
	return r
}
