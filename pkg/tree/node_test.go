package tree

import (
	"encoding/json"
	"testing"

	"github.com/arbordev/arbor/pkg/errors"
)

func strptr(s string) *string { return &s }

// simpleRecord is a two-child tree used across tests: TP with children DP
// and T<bar/>.
func simpleRecord() *Record {
	return &Record{
		Label: strptr("TP"),
		Children: []*Record{
			{Label: strptr("DP"), Children: []*Record{}},
			{Label: strptr("T<bar/>"), Children: []*Record{}},
		},
	}
}

func TestNewEmpty(t *testing.T) {
	n := New("", "")
	if _, ok := n.Label(); ok {
		t.Error("Label set on empty node")
	}
	if _, ok := n.Value(); ok {
		t.Error("Value set on empty node")
	}
	if n.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", n.NumChildren())
	}
	if n.Parent() != nil {
		t.Error("Parent != nil on fresh node")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name  string
		node  *Node
		want  string
	}{
		{"Empty", New("", ""), "UNLABELLED"},
		{"LabelOnly", New("TP", ""), "TP"},
		{"LabelAndValue", New("D", "I"), "D: I"},
		{"ValueOnly", New("", "val"), "UNLABELLED: val"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddChild(t *testing.T) {
	tp := New("TP", "")
	dp := New("DP", "")

	if err := tp.AddChild(dp); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if dp.Parent() != tp {
		t.Error("child parent not set")
	}
	if got := tp.Children(); len(got) != 1 || got[0] != dp {
		t.Errorf("children = %v", got)
	}
}

func TestAddChildConnected(t *testing.T) {
	tp := New("TP", "")
	dp := New("DP", "")
	if err := tp.AddChild(dp); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	tp2 := New("TP", "")
	err := tp2.AddChild(dp)
	if !errors.Is(err, errors.ErrCodeStructural) {
		t.Fatalf("AddChild(connected) = %v, want STRUCTURAL", err)
	}

	// No mutation on failure.
	if tp2.NumChildren() != 0 {
		t.Error("failed AddChild mutated the target")
	}
	if dp.Parent() != tp {
		t.Error("failed AddChild changed the child's parent")
	}
}

func TestDetach(t *testing.T) {
	dp := New("DP", "")
	d := New("D", "the")
	np := New("NP", "")
	n := New("N", "cactus")
	for _, c := range []*Node{d, np} {
		if err := dp.AddChild(c); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}
	if err := np.AddChild(n); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	if err := np.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	if np.Parent() != nil {
		t.Error("parent not cleared after Detach")
	}
	if got := dp.Children(); len(got) != 1 || got[0] != d {
		t.Errorf("remaining children = %v, want [D]", got)
	}
	// The subtree below the detached node stays intact.
	if n.Parent() != np {
		t.Error("descendant detached from its subtree")
	}
}

func TestDetachRoot(t *testing.T) {
	n := New("", "")
	if err := n.Detach(); !errors.Is(err, errors.ErrCodeStructural) {
		t.Fatalf("Detach(root) = %v, want STRUCTURAL", err)
	}
}

func TestDetachPreservesSiblingOrder(t *testing.T) {
	p := New("P", "")
	var kids []*Node
	for _, l := range []string{"a", "b", "c", "d"} {
		c := New(l, "")
		kids = append(kids, c)
		if err := p.AddChild(c); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}

	if err := kids[1].Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}
	want := []*Node{kids[0], kids[2], kids[3]}
	got := p.Children()
	if len(got) != len(want) {
		t.Fatalf("children = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("children[%d] out of order", i)
		}
	}
}

func TestInsertParent(t *testing.T) {
	dp := New("DP", "")
	d := New("D", "the")
	n := New("N", "cactus")
	for _, c := range []*Node{d, n} {
		if err := dp.AddChild(c); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}

	np := New("NP", "")
	if err := n.InsertParent(np); err != nil {
		t.Fatalf("InsertParent: %v", err)
	}

	// NP takes over N's former sibling index.
	if got := np.Index(); got != 1 {
		t.Errorf("new parent index = %d, want 1", got)
	}
	if n.Parent() != np {
		t.Error("node not reparented")
	}
	if got := np.Children(); len(got) != 1 || got[0] != n {
		t.Error("node is not the sole child of its new parent")
	}
	for _, c := range dp.Children() {
		if c == n {
			t.Error("node still among its former siblings")
		}
	}
}

func TestInsertParentErrors(t *testing.T) {
	t.Run("OnRoot", func(t *testing.T) {
		n := New("N", "cacti")
		np := New("NP", "")
		if err := n.InsertParent(np); !errors.Is(err, errors.ErrCodeStructural) {
			t.Fatalf("InsertParent on root = %v, want STRUCTURAL", err)
		}
	})

	t.Run("AttachedParent", func(t *testing.T) {
		root := New("TP", "")
		n := New("N", "")
		if err := root.AddChild(n); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
		other := New("X", "")
		attached := New("NP", "")
		if err := other.AddChild(attached); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
		if err := n.InsertParent(attached); !errors.Is(err, errors.ErrCodeStructural) {
			t.Fatalf("InsertParent(attached) = %v, want STRUCTURAL", err)
		}
	})
}

func TestShift(t *testing.T) {
	build := func(t *testing.T) (*Node, []*Node) {
		t.Helper()
		p := New("P", "")
		var kids []*Node
		for _, l := range []string{"a", "b", "c"} {
			c := New(l, "")
			kids = append(kids, c)
			if err := p.AddChild(c); err != nil {
				t.Fatalf("AddChild: %v", err)
			}
		}
		return p, kids
	}

	tests := []struct {
		name      string
		child     int
		delta     int
		want      []int // expected order as indexes into the original kids
		wantMoved bool
	}{
		{"Up", 1, -1, []int{1, 0, 2}, true},
		{"Down", 1, 1, []int{0, 2, 1}, true},
		{"UpAtFirstClamps", 0, -1, []int{0, 1, 2}, false},
		{"DownAtLastClamps", 2, 1, []int{0, 1, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, kids := build(t)
			moved, err := kids[tt.child].Shift(tt.delta)
			if err != nil {
				t.Fatalf("Shift: %v", err)
			}
			if moved != tt.wantMoved {
				t.Errorf("moved = %v, want %v", moved, tt.wantMoved)
			}
			got := p.Children()
			for i, wi := range tt.want {
				if got[i] != kids[wi] {
					t.Errorf("children[%d] wrong after shift", i)
				}
			}
		})
	}

	t.Run("Root", func(t *testing.T) {
		n := New("root", "")
		if _, err := n.Shift(1); !errors.Is(err, errors.ErrCodeStructural) {
			t.Fatalf("Shift(root) = %v, want STRUCTURAL", err)
		}
	})
}

func TestFromRecord(t *testing.T) {
	tests := []struct {
		name      string
		rec       *Record
		wantLabel *string
		wantValue *string
	}{
		{"Empty", &Record{}, nil, nil},
		{"LabelOnly", &Record{Label: strptr("TP")}, strptr("TP"), nil},
		{"LabelAndValue", &Record{Label: strptr("D"), Value: strptr("I")}, strptr("D"), strptr("I")},
		{"ValueOnly", &Record{Value: strptr("val")}, nil, strptr("val")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := FromRecord(tt.rec)
			label, hasLabel := n.Label()
			if (tt.wantLabel != nil) != hasLabel {
				t.Errorf("hasLabel = %v", hasLabel)
			} else if hasLabel && label != *tt.wantLabel {
				t.Errorf("label = %q, want %q", label, *tt.wantLabel)
			}
			value, hasValue := n.Value()
			if (tt.wantValue != nil) != hasValue {
				t.Errorf("hasValue = %v", hasValue)
			} else if hasValue && value != *tt.wantValue {
				t.Errorf("value = %q, want %q", value, *tt.wantValue)
			}
			if n.NumChildren() != 0 || n.Parent() != nil {
				t.Error("unexpected structure on leaf record")
			}
		})
	}
}

func TestFromRecordSimple(t *testing.T) {
	tp := FromRecord(simpleRecord())

	if got := tp.String(); got != "TP" {
		t.Errorf("root = %q", got)
	}
	kids := tp.Children()
	if len(kids) != 2 {
		t.Fatalf("children = %d, want 2", len(kids))
	}
	if got := kids[0].String(); got != "DP" {
		t.Errorf("first child = %q", got)
	}
	if got := kids[1].String(); got != "T<bar/>" {
		t.Errorf("second child = %q", got)
	}
	for _, c := range kids {
		if c.Parent() != tp {
			t.Error("child parent back-reference missing")
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	trees := map[string]*Record{
		"Simple": simpleRecord(),
		"Deep": {
			Label: strptr("TP"),
			Children: []*Record{
				{
					Label: strptr("DP"),
					Children: []*Record{
						{Label: strptr("D"), Value: strptr("the"), Children: []*Record{}},
						{Label: strptr("N"), Value: strptr("cactus"), Children: []*Record{}},
					},
				},
			},
		},
		"AbsentFields": {
			Children: []*Record{
				{Value: strptr("only value"), Children: []*Record{}},
			},
		},
	}

	for name, rec := range trees {
		t.Run(name, func(t *testing.T) {
			got := FromRecord(rec).ToRecord()

			want, err := json.Marshal(rec)
			if err != nil {
				t.Fatalf("marshal want: %v", err)
			}
			gotJSON, err := json.Marshal(got)
			if err != nil {
				t.Fatalf("marshal got: %v", err)
			}
			if string(gotJSON) != string(want) {
				t.Errorf("round trip mismatch:\ngot  %s\nwant %s", gotJSON, want)
			}
		})
	}
}

func TestRecordJSONAbsence(t *testing.T) {
	// Missing keys decode as absent, not empty strings.
	var rec Record
	if err := json.Unmarshal([]byte(`{"label": "TP"}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Label == nil || *rec.Label != "TP" {
		t.Errorf("label = %v", rec.Label)
	}
	if rec.Value != nil {
		t.Errorf("value = %v, want absent", rec.Value)
	}

	// Absent fields encode as explicit nulls.
	out, err := json.Marshal(New("TP", "").ToRecord())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"label":"TP","value":null,"children":[]}`
	if string(out) != want {
		t.Errorf("encoded = %s, want %s", out, want)
	}
}

func TestSetLabelValue(t *testing.T) {
	n := New("A", "")

	if changed := n.SetLabel("A"); changed {
		t.Error("setting the same label reported a change")
	}
	if changed := n.SetLabel("B"); !changed {
		t.Error("label change not reported")
	}
	if changed := n.SetLabel(""); !changed {
		t.Error("clearing the label not reported")
	}
	if _, ok := n.Label(); ok {
		t.Error("label still set after clear")
	}
	if changed := n.SetLabel(""); changed {
		t.Error("clearing an absent label reported a change")
	}

	if changed := n.SetValue("x"); !changed {
		t.Error("value change not reported")
	}
	if v, ok := n.Value(); !ok || v != "x" {
		t.Errorf("value = %q, %v", v, ok)
	}
}

func TestWalk(t *testing.T) {
	tp := FromRecord(simpleRecord())

	var visited []string
	tp.Walk(func(n *Node, depth int) bool {
		visited = append(visited, n.String())
		return true
	})
	want := []string{"TP", "DP", "T<bar/>"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v", visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, visited[i], want[i])
		}
	}

	// Early termination.
	count := 0
	tp.Walk(func(n *Node, depth int) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("walk after stop visited %d nodes, want 1", count)
	}
}
