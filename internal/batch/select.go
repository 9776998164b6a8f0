// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pdiddy/ppt2pdf/internal/container"
	"github.com/pdiddy/ppt2pdf/internal/engine"
	"github.com/pdiddy/ppt2pdf/pkg/types"
)

var (
	// ErrNoEngine means AUTO mode found neither PowerPoint nor LibreOffice.
	ErrNoEngine = errors.New("no conversion engine found: install LibreOffice or (on Windows) PowerPoint")

	// ErrEngineUnavailable means an explicitly requested engine is missing.
	ErrEngineUnavailable = errors.New("requested engine unavailable")
)

// Availability is the result of engine detection.
type Availability struct {
	SofficePath string
	PowerPoint  bool
}

// DetectAvailability runs engine detection. A non-empty sofficeOverride
// is used as the LibreOffice binary without searching.
func DetectAvailability(sofficeOverride string) Availability {
	path := sofficeOverride
	if path == "" {
		path, _ = engine.DetectLibreOffice()
	}
	return Availability{SofficePath: path, PowerPoint: engine.PowerPointAvailable()}
}

// Factory builds engines once one has been chosen.
type Factory struct {
	Soffice    func(path string) (engine.Engine, error)
	PowerPoint func() (engine.Engine, error)
	// Container probes for docker or podman and the image. It is only
	// called for an explicit container request.
	Container func() (engine.Engine, error)
}

// DefaultFactory builds the real engines. image is the soffice container
// image for the container engine.
func DefaultFactory(image string) Factory {
	return Factory{
		Soffice: func(path string) (engine.Engine, error) {
			return engine.NewSoffice(path), nil
		},
		PowerPoint: func() (engine.Engine, error) {
			return engine.NewPowerPoint()
		},
		Container: func() (engine.Engine, error) {
			rt, err := container.DetectRuntime()
			if err != nil {
				return nil, err
			}
			return engine.NewContainer(rt, image)
		},
	}
}

// Select picks the engine for mode. An explicit mode must be available or
// ErrEngineUnavailable is returned. AUTO prefers PowerPoint, then
// LibreOffice, and returns ErrNoEngine when neither is present. PowerPoint
// availability is decided at build time and COM is only reached inside
// Convert, so a PowerPoint that cannot run fails per file rather than
// falling back. The container engine is never chosen by AUTO.
func Select(mode types.EngineMode, avail Availability, f Factory) (engine.Engine, error) {
	switch mode {
	case types.EngineLibreOffice:
		if avail.SofficePath == "" {
			return nil, fmt.Errorf("%w: LibreOffice not found; install LibreOffice or switch engine", ErrEngineUnavailable)
		}
		return f.Soffice(avail.SofficePath)

	case types.EnginePowerPoint:
		if !avail.PowerPoint {
			return nil, fmt.Errorf("%w: PowerPoint COM not available (Windows with PowerPoint required)", ErrEngineUnavailable)
		}
		e, err := f.PowerPoint()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		return e, nil

	case types.EngineContainer:
		e, err := f.Container()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		return e, nil

	case types.EngineAuto, "":
		if avail.PowerPoint {
			e, err := f.PowerPoint()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
			}
			return e, nil
		}
		if avail.SofficePath != "" {
			return f.Soffice(avail.SofficePath)
		}
		return nil, ErrNoEngine

	default:
		return nil, fmt.Errorf("unknown engine mode %q", mode)
	}
}

// DefaultPicker detects engines when the batch starts and selects one for
// cfg.Engine using the real factories.
func DefaultPicker(cfg types.ConvertConfig) Picker {
	return func() (engine.Engine, error) {
		avail := DetectAvailability(cfg.SofficePath)
		slog.Debug("engine detection", "soffice", avail.SofficePath, "powerpoint", avail.PowerPoint, "mode", cfg.Engine)
		return Select(cfg.Engine, avail, DefaultFactory(cfg.Container.Image))
	}
}
