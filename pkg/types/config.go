// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ContainerConfig holds settings for the container engine.
type ContainerConfig struct {
	// Image is the container image that provides soffice (default "libreoffice:latest").
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// HistoryConfig holds settings for the batch journal.
type HistoryConfig struct {
	// DB is the SQLite database path. Empty disables the journal.
	DB string `json:"db" yaml:"db" mapstructure:"db"`
}

// ConvertConfig holds the settings for one conversion batch.
type ConvertConfig struct {
	// Engine selects the backend: auto, libreoffice, powerpoint, or container.
	Engine EngineMode `json:"engine" yaml:"engine" mapstructure:"engine"`

	// OutputDir receives the PDFs. Created with parents before use;
	// existing files with the same name are overwritten.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Recursive expands folder inputs to all descendants instead of
	// immediate children only.
	Recursive bool `json:"recursive" yaml:"recursive" mapstructure:"recursive"`

	// SofficePath overrides LibreOffice detection when set.
	SofficePath string `json:"soffice_path,omitempty" yaml:"soffice_path,omitempty" mapstructure:"soffice_path"`

	Container ContainerConfig `json:"container" yaml:"container" mapstructure:"container"`
	History   HistoryConfig   `json:"history" yaml:"history" mapstructure:"history"`
}

// Validate checks the engine mode and output directory.
func (c ConvertConfig) Validate() error {
	modes := make([]interface{}, len(EngineModes))
	for i, m := range EngineModes {
		modes[i] = m
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Engine, validation.Required, validation.In(modes...)),
		validation.Field(&c.OutputDir, validation.Required.Error("choose an output folder")),
	)
}
