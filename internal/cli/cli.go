// Package cli implements the arbor command-line interface.
//
// This package provides commands for creating, inspecting, and editing tree
// documents, and for rendering them to LaTeX, DOT, SVG, and PNG. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - new: Create an empty document container
//   - inspect: Print a document's tree outline and notes
//   - edit: Open the interactive tree editor
//   - render: Export LaTeX, DOT, SVG, or PNG output
//   - notes: Show or set a document's notes
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arbordev/arbor/pkg/cache"
	"github.com/arbordev/arbor/pkg/document"
	"github.com/arbordev/arbor/pkg/errors"
)

// appName is the application name used for directories and display.
const appName = "arbor"

// loadDocument opens a container file, decorating the too-new failure with
// the version the file requires.
func loadDocument(path string) (*document.Document, error) {
	doc, err := document.Load(path, document.NewClipboard())
	if err != nil {
		if min := errors.MinVersion(err); min != "" {
			return nil, fmt.Errorf("%s (requires arbor %s or newer)", errors.UserMessage(err), min)
		}
		return nil, err
	}
	return doc, nil
}

// newCache opens the render cache, or a null cache when caching is disabled.
// Failure to locate a cache directory degrades to the null cache rather than
// failing the render.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/arbor/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
