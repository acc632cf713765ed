package qtree

import (
	"strings"
	"testing"

	"github.com/arbordev/arbor/pkg/tree"
)

func strptr(s string) *string { return &s }

func simpleTree(t *testing.T) *tree.Node {
	t.Helper()
	return tree.FromRecord(&tree.Record{
		Label: strptr("TP"),
		Children: []*tree.Record{
			{Label: strptr("DP")},
			{Label: strptr("T<bar/>")},
		},
	})
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		root *tree.Node
		want string
	}{
		{
			name: "Simple",
			root: simpleTree(t),
			want: "\\Tree [.TP\n" +
				"  DP\n" +
				"  T$^{\\prime}$\n" +
				"]\n",
		},
		{
			// A childless root still gets the full bracket pair.
			name: "Degenerate",
			root: tree.New("root", ""),
			want: "\\Tree [.root\n]\n",
		},
		{
			name: "Bold",
			root: tree.New("<b>root</b>", ""),
			want: "\\Tree [.\\textbf{root}\n]\n",
		},
		{
			// Invalid markup falls back to the raw label.
			name: "BoldUnclosed",
			root: tree.New("<b>root", ""),
			want: "\\Tree [.<b>root\n]\n",
		},
		{
			name: "BoldUnopened",
			root: tree.New("root</b>", ""),
			want: "\\Tree [.root</b>\n]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.root); got != tt.want {
				t.Errorf("Render:\ngot  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestRenderValues(t *testing.T) {
	root := tree.FromRecord(&tree.Record{
		Label: strptr("DP"),
		Children: []*tree.Record{
			{Label: strptr("D"), Value: strptr("the")},
			{Label: strptr("N"), Value: strptr("cactus")},
		},
	})

	want := "\\Tree [.DP\n" +
		"  D\\\\the\n" +
		"  N\\\\cactus\n" +
		"]\n"
	if got := Render(root); got != want {
		t.Errorf("Render:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderNestedIndent(t *testing.T) {
	root := tree.FromRecord(&tree.Record{
		Label: strptr("TP"),
		Children: []*tree.Record{
			{
				Label: strptr("VP"),
				Children: []*tree.Record{
					{Label: strptr("V"), Value: strptr("run")},
				},
			},
		},
	})

	want := "\\Tree [.TP\n" +
		"  [.VP\n" +
		"    V\\\\run\n" +
		"  ]\n" +
		"]\n"
	if got := Render(root); got != want {
		t.Errorf("Render:\ngot  %q\nwant %q", got, want)
	}
}

func TestExportHeader(t *testing.T) {
	got := Export(simpleTree(t))

	if !strings.HasPrefix(got, "% Add \\usepackage{qtree}") {
		t.Errorf("missing header: %q", got)
	}
	parts := strings.SplitN(got, "\n\n", 2)
	if len(parts) != 2 {
		t.Fatalf("header not separated by blank line: %q", got)
	}
	if parts[1] != Render(simpleTree(t)) {
		t.Errorf("body differs from Render output")
	}
}
