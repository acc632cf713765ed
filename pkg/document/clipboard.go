package document

import (
	"github.com/arbordev/arbor/pkg/tree"
)

// Clipboard is a single slot holding the serialized form of the most
// recently copied subtree. It is a capability injected into each Document
// rather than package state: a host with several open documents shares one
// Clipboard to enable cross-document paste, and each paste instantiates a
// fresh copy of the stored record.
//
// The slot is last-writer-wins and carries no locking; the engine is
// single-threaded by design.
type Clipboard struct {
	rec *tree.Record
}

// NewClipboard returns an empty clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Set overwrites the slot with rec.
func (c *Clipboard) Set(rec *tree.Record) {
	c.rec = rec
}

// Get returns the stored record and whether one is set. Reading does not
// clear the slot.
func (c *Clipboard) Get() (*tree.Record, bool) {
	return c.rec, c.rec != nil
}

// Empty reports whether the slot is unset.
func (c *Clipboard) Empty() bool {
	return c.rec == nil
}
