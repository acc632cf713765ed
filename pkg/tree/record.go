package tree

// Record is the lossless serialization form of a subtree. It mirrors the
// structural entry of the container format: label and value are emitted as
// JSON null when absent, and children is always present (possibly empty) so
// that files stay stable across encoders.
type Record struct {
	Label    *string   `json:"label"`
	Value    *string   `json:"value"`
	Children []*Record `json:"children"`
}

// ToRecord converts the subtree rooted at n into its serialization form.
// The returned Record shares no state with the tree.
func (n *Node) ToRecord() *Record {
	r := &Record{
		Label:    cloneField(n.label),
		Value:    cloneField(n.value),
		Children: make([]*Record, len(n.children)),
	}
	for i, c := range n.children {
		r.Children[i] = c.ToRecord()
	}
	return r
}

// FromRecord builds a fresh subtree from r. Every call returns new Node
// instances, so a Record can be instantiated repeatedly (the clipboard relies
// on this). Missing label and value decode as absent, not empty.
func FromRecord(r *Record) *Node {
	n := &Node{
		label: cloneField(r.Label),
		value: cloneField(r.Value),
	}
	for _, c := range r.Children {
		child := FromRecord(c)
		child.parent = n
		n.children = append(n.children, child)
	}
	return n
}

// cloneField copies an optional string so records never alias tree state.
func cloneField(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
