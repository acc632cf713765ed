// Package tree implements the ordered, labeled tree that backs an Arbor
// document.
//
// A [Node] carries an optional label, an optional value, an ordered list of
// children and a back-reference to its parent. The structural operations
// ([Node.AddChild], [Node.Detach], [Node.InsertParent], [Node.Shift]) enforce
// the tree invariants at the API boundary: a node has at most one parent, it
// appears in its parent's child list exactly once, and cycles cannot be
// constructed. Violations are reported as STRUCTURAL errors, never panics.
//
// [Record] is the lossless serialization form used by the container format
// and the clipboard. Absent labels and values survive a round trip as absent,
// not as empty strings.
//
// Node is not safe for concurrent mutation without external synchronization.
package tree

import (
	"slices"

	"github.com/arbordev/arbor/pkg/errors"
)

// Unlabelled is the display placeholder for nodes without a label.
const Unlabelled = "UNLABELLED"

// Node is one element of the tree. The zero value is a valid detached node
// with no label, no value and no children.
type Node struct {
	label    *string
	value    *string
	children []*Node
	parent   *Node
}

// New creates a detached node. Empty strings mean "absent": a node created
// with New("", "") has neither a label nor a value.
func New(label, value string) *Node {
	n := &Node{}
	if label != "" {
		n.label = &label
	}
	if value != "" {
		n.value = &value
	}
	return n
}

// Label returns the node's label and whether one is set.
func (n *Node) Label() (string, bool) {
	if n.label == nil {
		return "", false
	}
	return *n.label, true
}

// Value returns the node's value and whether one is set.
func (n *Node) Value() (string, bool) {
	if n.value == nil {
		return "", false
	}
	return *n.value, true
}

// SetLabel sets the node's label. An empty string clears it to absent.
// Returns true if the stored label actually changed.
func (n *Node) SetLabel(label string) bool {
	return setField(&n.label, label)
}

// SetValue sets the node's value. An empty string clears it to absent.
// Returns true if the stored value actually changed.
func (n *Node) SetValue(value string) bool {
	return setField(&n.value, value)
}

func setField(field **string, s string) bool {
	switch {
	case s == "" && *field == nil:
		return false
	case s == "":
		*field = nil
	case *field != nil && **field == s:
		return false
	default:
		*field = &s
	}
	return true
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in order. The returned slice is a
// copy; mutating it does not affect the tree.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Index returns the node's position among its siblings, or -1 for a root.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return slices.Index(n.parent.children, n)
}

// String returns the display form of the node: the label (or the Unlabelled
// placeholder), followed by ": " and the value when one is set.
func (n *Node) String() string {
	res := Unlabelled
	if n.label != nil {
		res = *n.label
	}
	if n.value != nil {
		res += ": " + *n.value
	}
	return res
}

// AddChild appends c to n's children and sets its parent back-reference.
// Returns a STRUCTURAL error if c already has a parent; the tree is left
// unchanged on failure.
func (n *Node) AddChild(c *Node) error {
	if c.parent != nil {
		return errors.New(errors.ErrCodeStructural, "node %q already has a parent", c)
	}
	n.children = append(n.children, c)
	c.parent = n
	return nil
}

// Detach removes n from its parent's children and clears the back-reference.
// Descendants stay attached to n. Returns a STRUCTURAL error if n has no
// parent: detaching a root is a caller-handled case, not supported here.
func (n *Node) Detach() error {
	if n.parent == nil {
		return errors.New(errors.ErrCodeStructural, "cannot detach root node %q", n)
	}
	i := slices.Index(n.parent.children, n)
	n.parent.children = slices.Delete(n.parent.children, i, i+1)
	n.parent = nil
	return nil
}

// InsertParent splices p into n's former position among its siblings and
// makes n the sole child of p. The sibling index is preserved: if n was child
// 2 of its parent, p becomes child 2 afterwards.
//
// Returns a STRUCTURAL error if n has no parent (replacing the root is a
// caller-handled case) or if p already has a parent.
func (n *Node) InsertParent(p *Node) error {
	if n.parent == nil {
		return errors.New(errors.ErrCodeStructural, "cannot insert a parent above root node %q", n)
	}
	if p.parent != nil {
		return errors.New(errors.ErrCodeStructural, "node %q already has a parent", p)
	}
	old := n.parent
	i := slices.Index(old.children, n)
	old.children[i] = p
	p.parent = old
	n.parent = nil
	return p.AddChild(n)
}

// Shift moves n by delta positions among its siblings, clamping at the first
// and last position. Moving past a boundary is a no-op, not an error; the
// boolean reports whether the node actually moved.
// Returns a STRUCTURAL error if n has no parent.
func (n *Node) Shift(delta int) (bool, error) {
	if n.parent == nil {
		return false, errors.New(errors.ErrCodeStructural, "cannot shift root node %q", n)
	}
	siblings := n.parent.children
	old := slices.Index(siblings, n)
	pos := old + delta
	if pos < 0 {
		pos = 0
	}
	if pos > len(siblings)-1 {
		pos = len(siblings) - 1
	}
	if pos == old {
		return false, nil
	}
	siblings = slices.Delete(siblings, old, old+1)
	n.parent.children = slices.Insert(siblings, pos, n)
	return true, nil
}

// Walk visits n and all descendants in depth-first pre-order.
// Walking stops early if fn returns false.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(*Node, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(depth+1, fn) {
			return false
		}
	}
	return true
}
