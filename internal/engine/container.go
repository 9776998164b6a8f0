// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pdiddy/ppt2pdf/internal/container"
)

// DefaultImage is the container image used when none is configured.
const DefaultImage = "libreoffice:latest"

const (
	mountIn  = "/in"
	mountOut = "/out"
)

// Container converts presentations by running soffice inside a container.
// It depends on a container.Runtime (docker or podman) injected at
// construction time.
type Container struct {
	runtime container.Runtime
	image   string
}

// NewContainer creates an engine that uses the given runtime and image.
// It verifies that the image exists locally before returning.
func NewContainer(rt container.Runtime, image string) (*Container, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("soffice image not available in %s: %w", rt.Name(), err)
	}
	return &Container{runtime: rt, image: image}, nil
}

func (c *Container) Name() string {
	return fmt.Sprintf("LibreOffice (%s %s)", c.runtime.Name(), c.image)
}

// Convert mounts the input's directory read-only and the output directory
// writable, runs soffice in the container, and resolves the PDF on the host.
func (c *Container) Convert(inputFile, outputDir string) (string, error) {
	in, out, err := absPaths(inputFile, outputDir)
	if err != nil {
		return "", convErr(c.Name(), inputFile, err)
	}

	mounts := []container.Mount{
		{Host: filepath.Dir(in), Container: mountIn, ReadOnly: true},
		{Host: out, Container: mountOut},
	}
	args := []string{"soffice"}
	args = append(args, sofficeFlags...)
	args = append(args, "--convert-to", "pdf", mountIn+"/"+filepath.Base(in), "--outdir", mountOut)

	slog.Debug("running soffice container", "runtime", c.runtime.Name(), "image", c.image, "input", in)
	if err := c.runtime.Run(c.image, mounts, args...); err != nil {
		return "", convErr(c.Name(), in, err)
	}

	pdf, err := resolveOutput(out, stem(in))
	if err != nil {
		return "", convErr(c.Name(), in, err)
	}
	return pdf, nil
}
