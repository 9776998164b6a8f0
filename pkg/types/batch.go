// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BatchStatus is the lifecycle state of a conversion batch.
type BatchStatus string

const (
	BatchIdle      BatchStatus = "idle"
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchCancelled BatchStatus = "cancelled"
	BatchFatal     BatchStatus = "fatal"
)

// Terminal reports whether no further transitions are possible.
func (s BatchStatus) Terminal() bool {
	return s == BatchCompleted || s == BatchCancelled || s == BatchFatal
}

// BatchState is a snapshot of batch counters. Only the worker goroutine
// mutates the live copy; readers get values.
type BatchState struct {
	ID     string      `json:"id" yaml:"id"`
	Engine string      `json:"engine,omitempty" yaml:"engine,omitempty"`
	Status BatchStatus `json:"status" yaml:"status"`
	Total  int         `json:"total" yaml:"total"`
	Done   int         `json:"done" yaml:"done"`
	Errors int         `json:"errors" yaml:"errors"`
}

// Converted returns the number of files that produced a PDF.
func (s BatchState) Converted() int {
	return s.Done - s.Errors
}

// FileOutcome records the result of converting one input file.
type FileOutcome struct {
	Input    string        `json:"input" yaml:"input"`
	Output   string        `json:"output,omitempty" yaml:"output,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Failed reports whether the conversion produced no PDF.
func (o FileOutcome) Failed() bool {
	return o.Error != ""
}
