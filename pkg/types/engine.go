// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// EngineMode selects the conversion backend for a batch.
type EngineMode string

const (
	// EngineAuto defers to runtime detection: PowerPoint first, then LibreOffice.
	EngineAuto EngineMode = "auto"
	// EngineLibreOffice forces the soffice CLI engine.
	EngineLibreOffice EngineMode = "libreoffice"
	// EnginePowerPoint forces PowerPoint COM automation (Windows only).
	EnginePowerPoint EngineMode = "powerpoint"
	// EngineContainer runs soffice inside a docker or podman container.
	// It is never picked by EngineAuto.
	EngineContainer EngineMode = "container"
)

// EngineModes lists every accepted mode in display order.
var EngineModes = []EngineMode{EngineAuto, EngineLibreOffice, EnginePowerPoint, EngineContainer}

// ParseEngineMode converts user input to an EngineMode. Matching is
// case-insensitive, so "AUTO" and "LibreOffice" are accepted. An empty
// string maps to EngineAuto.
func ParseEngineMode(s string) (EngineMode, error) {
	v := EngineMode(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return EngineAuto, nil
	}
	for _, m := range EngineModes {
		if v == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown engine %q: use auto, libreoffice, powerpoint, or container", s)
}

func (m EngineMode) String() string { return string(m) }
