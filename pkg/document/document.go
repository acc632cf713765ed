// Package document implements the owning context for one tree: root,
// selection, manifest and dirty-state lifecycle.
//
// A Document exposes the structural edit operations (add, edit, delete,
// copy/paste, reorder) that the presentation layer drives, plus save/load
// through the container codec and export through the qtree and dot
// renderers. Every mutation marks the document dirty; a successful save
// clears the flag and remembers the path.
//
// All operations are synchronous and run to completion; the Document is
// exclusively owned by a single caller at a time and performs no locking.
package document

import (
	"path/filepath"
	"strings"

	"github.com/arbordev/arbor/pkg/container"
	"github.com/arbordev/arbor/pkg/errors"
	"github.com/arbordev/arbor/pkg/export/dot"
	"github.com/arbordev/arbor/pkg/export/qtree"
	"github.com/arbordev/arbor/pkg/tree"
)

// Location names the placement of a new or pasted node relative to the
// current selection.
type Location int

const (
	// Child attaches the new node under the selection.
	Child Location = iota
	// Parent splices the new node between the selection and its parent,
	// or above the root.
	Parent
	// Sibling attaches the new node as a new child of the selection's
	// parent. The root cannot have siblings.
	Sibling
)

// Document owns one tree and its metadata. Use New or Load to create one;
// the zero value lacks a clipboard and a manifest.
type Document struct {
	root      *tree.Node
	selection *tree.Node
	manifest  container.Manifest
	dirty     bool
	lastPath  string
	clipboard *Clipboard
}

// New creates an empty document sharing the given clipboard.
func New(clipboard *Clipboard) *Document {
	return &Document{
		manifest:  container.NewManifest(),
		clipboard: clipboard,
	}
}

// Load reads a document from a container file. The loaded document is clean
// and remembers path for subsequent saves.
func Load(path string, clipboard *Clipboard) (*Document, error) {
	rec, manifest, err := container.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d := &Document{
		manifest:  manifest,
		lastPath:  path,
		clipboard: clipboard,
	}
	if rec != nil {
		d.root = tree.FromRecord(rec)
	}
	return d, nil
}

// Save writes the document to path, or to the remembered last path when path
// is empty. On success the document is clean and remembers the path.
// Fails with NO_PATH when neither is available.
func (d *Document) Save(path string) error {
	if path == "" {
		if d.lastPath == "" {
			return errors.New(errors.ErrCodeNoPath, "no path to save to")
		}
		path = d.lastPath
	}
	var rec *tree.Record
	if d.root != nil {
		rec = d.root.ToRecord()
	}
	if err := container.WriteFile(path, rec, d.manifest); err != nil {
		return err
	}
	d.dirty = false
	d.lastPath = path
	return nil
}

// IsEmpty reports whether the document contains no nodes.
func (d *Document) IsEmpty() bool {
	return d.root == nil
}

// Dirty reports whether the document has unsaved changes.
func (d *Document) Dirty() bool {
	return d.dirty
}

// LastPath returns the path of the last successful save or load.
func (d *Document) LastPath() string {
	return d.lastPath
}

// Root returns the root node, or nil for an empty document.
func (d *Document) Root() *tree.Node {
	return d.root
}

// Selection returns the currently selected node, or nil.
func (d *Document) Selection() *tree.Node {
	return d.selection
}

// Select sets the current selection. Passing nil clears it. Selection is a
// view, not a mutation: it never marks the document dirty.
func (d *Document) Select(n *tree.Node) {
	d.selection = n
}

// Manifest returns the document's metadata map.
func (d *Document) Manifest() container.Manifest {
	return d.manifest
}

// Notes returns the free-form notes stored in the manifest, such as the
// phrase a syntax tree was constructed from.
func (d *Document) Notes() string {
	return d.manifest.Notes()
}

// SetNotes stores the free-form notes and marks the document dirty.
func (d *Document) SetNotes(notes string) {
	d.manifest.SetNotes(notes)
	d.dirty = true
}

// Add creates a new node at the given location. Empty label or value is
// stored as absent. On an empty document the new node becomes the root
// regardless of location. The new node becomes the selection; the document
// is marked dirty.
func (d *Document) Add(loc Location, label, value string) error {
	return d.place(loc, tree.New(label, value))
}

// place performs the shared location logic of Add and Paste.
func (d *Document) place(loc Location, n *tree.Node) error {
	switch {
	case d.IsEmpty():
		d.root = n
	case d.selection == nil:
		return errors.New(errors.ErrCodeNoSelection, "no selection")
	default:
		switch loc {
		case Child:
			if err := d.selection.AddChild(n); err != nil {
				return err
			}
		case Parent:
			if d.selection == d.root {
				if err := n.AddChild(d.root); err != nil {
					return err
				}
				d.root = n
			} else if err := d.selection.InsertParent(n); err != nil {
				return err
			}
		case Sibling:
			if d.selection == d.root {
				return errors.New(errors.ErrCodeStructural, "the root cannot have siblings")
			}
			if err := d.selection.Parent().AddChild(n); err != nil {
				return err
			}
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown location %d", loc)
		}
	}
	d.selection = n
	d.dirty = true
	return nil
}

// Edit updates the selected node. A nil pointer leaves the field untouched;
// an empty string clears the field to absent. The document is marked dirty
// only when a field actually changes.
func (d *Document) Edit(label, value *string) error {
	if d.selection == nil {
		return errors.New(errors.ErrCodeNoSelection, "no selection")
	}
	changed := false
	if label != nil && d.selection.SetLabel(*label) {
		changed = true
	}
	if value != nil && d.selection.SetValue(*value) {
		changed = true
	}
	if changed {
		d.dirty = true
	}
	return nil
}

// Delete removes the selected node and all its descendants. Deleting the
// root empties the document and clears the selection; otherwise the
// selection moves to the deleted node's former parent.
func (d *Document) Delete() error {
	if d.selection == nil {
		return errors.New(errors.ErrCodeNoSelection, "no selection")
	}
	n := d.selection
	if n == d.root {
		d.root = nil
		d.selection = nil
	} else {
		d.selection = n.Parent()
		if err := n.Detach(); err != nil {
			return err
		}
	}
	d.dirty = true
	return nil
}

// Copy serializes the selected subtree into the shared clipboard,
// overwriting its previous content.
func (d *Document) Copy() error {
	if d.selection == nil {
		return errors.New(errors.ErrCodeNoSelection, "no selection")
	}
	d.clipboard.Set(d.selection.ToRecord())
	return nil
}

// Paste instantiates a fresh copy of the clipboard content at the given
// location. The pasted root becomes the selection. Fails with
// EMPTY_CLIPBOARD when nothing has been copied.
func (d *Document) Paste(loc Location) error {
	rec, ok := d.clipboard.Get()
	if !ok {
		return errors.New(errors.ErrCodeEmptyClipboard, "clipboard is empty")
	}
	return d.place(loc, tree.FromRecord(rec))
}

// MoveUp swaps the selection with its previous sibling. At the first
// position this is a no-op, not an error. Fails with ROOT_IMMUTABLE on the
// root.
func (d *Document) MoveUp() error {
	return d.shift(-1)
}

// MoveDown swaps the selection with its next sibling. At the last position
// this is a no-op, not an error. Fails with ROOT_IMMUTABLE on the root.
func (d *Document) MoveDown() error {
	return d.shift(1)
}

func (d *Document) shift(delta int) error {
	if d.selection == nil {
		return errors.New(errors.ErrCodeNoSelection, "no selection")
	}
	if d.selection == d.root {
		return errors.New(errors.ErrCodeRootImmutable, "cannot shift the root")
	}
	moved, err := d.selection.Shift(delta)
	if err != nil {
		return err
	}
	if moved {
		d.dirty = true
	}
	return nil
}

// ExportQtree renders the document as LaTeX qtree source, including the
// usage header. Fails with EMPTY_DOCUMENT when there is nothing to export.
func (d *Document) ExportQtree() (string, error) {
	if d.IsEmpty() {
		return "", errors.New(errors.ErrCodeEmptyDocument, "nothing to export")
	}
	return qtree.Export(d.root), nil
}

// ExportDOT renders the document as Graphviz DOT source. The graph is named
// after the container file when the document has been saved or loaded.
// Fails with EMPTY_DOCUMENT when there is nothing to export.
func (d *Document) ExportDOT(dpi int) (string, error) {
	if d.IsEmpty() {
		return "", errors.New(errors.ErrCodeEmptyDocument, "nothing to export")
	}
	return dot.ToDOT(d.root, dot.Options{Name: d.graphName(), DPI: dpi}), nil
}

// graphName derives the diagram name from the remembered file path.
func (d *Document) graphName() string {
	if d.lastPath == "" {
		return ""
	}
	base := filepath.Base(d.lastPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
