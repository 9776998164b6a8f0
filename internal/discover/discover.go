// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover expands user-selected files and folders into the list
// of presentations a batch will convert.
package discover

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions are the convertible file extensions, lower-case.
var Extensions = []string{".ppt", ".pptx"}

// IsPresentation reports whether path has a convertible extension.
// Matching is case-insensitive.
func IsPresentation(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Presentations returns the absolute paths of all presentations named by
// inputs. File inputs are kept when their extension matches. Directory
// inputs contribute their immediate children, or every descendant when
// recursive is set. Inputs that no longer exist are skipped. The result is
// deduplicated and sorted, which fixes the batch processing order.
func Presentations(inputs []string, recursive bool) ([]string, error) {
	seen := make(map[string]struct{})
	add := func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		seen[abs] = struct{}{}
		return nil
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", in, err)
		}

		if !info.IsDir() {
			if IsPresentation(in) {
				if err := add(in); err != nil {
					return nil, err
				}
			}
			continue
		}

		var found []string
		if recursive {
			found, err = walk(in)
		} else {
			found, err = children(in)
		}
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			if err := add(p); err != nil {
				return nil, err
			}
		}
	}

	files := make([]string, 0, len(seen))
	for p := range seen {
		files = append(files, p)
	}
	sort.Strings(files)
	return files, nil
}

func children(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsPresentation(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// walk collects presentations below root. Unreadable entries below root
// are logged and skipped so the rest of the tree is still converted.
func walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsPresentation(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}

// Existing returns the inputs that still exist on disk, in order.
func Existing(inputs []string) []string {
	kept := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if _, err := os.Stat(in); err == nil {
			kept = append(kept, in)
		}
	}
	return kept
}
