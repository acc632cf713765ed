// Package dot converts a tree to Graphviz DOT source for node-link
// visualization.
//
// Each node is assigned a stable identifier derived from the identifier-safe
// text of its label ("node" when that text is empty), deduplicated with an
// incrementing numeric suffix across the whole export. Display labels are
// HTML-like Graphviz labels when the embedded markup is valid, and
// HTML-escaped plain labels otherwise. Edges run parent to child for every
// non-root node and carry no labels.
//
// The resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
package dot

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/arbordev/arbor/pkg/markup"
	"github.com/arbordev/arbor/pkg/tree"
)

// DefaultDPI is the raster resolution written into the graph attributes when
// Options.DPI is unset.
const DefaultDPI = 400

// Options configures DOT generation.
type Options struct {
	// Name is the graph name, typically derived from the container file
	// basename. Empty produces an anonymous graph.
	Name string
	// DPI sets the dots-per-inch graph attribute for raster output.
	// Zero means DefaultDPI.
	DPI int
}

// glyph substitutions applied to display labels before escaping decisions.
var glyphReplacer = strings.NewReplacer(
	"<null/>", "Ø",
	"<bar/>", "<sup>′</sup>",
)

// ToDOT converts the subtree rooted at root to Graphviz DOT format.
func ToDOT(root *tree.Node, opts Options) string {
	dpi := opts.DPI
	if dpi == 0 {
		dpi = DefaultDPI
	}

	var buf bytes.Buffer
	if opts.Name != "" {
		fmt.Fprintf(&buf, "digraph %q {\n", opts.Name)
	} else {
		buf.WriteString("digraph {\n")
	}
	fmt.Fprintf(&buf, "  graph [dpi=%d, nodesep=0.25, ranksep=0.02];\n", dpi)
	buf.WriteString("  node [shape=plain];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	ids := assignIDs(root)

	root.Walk(func(n *tree.Node, depth int) bool {
		label, rich := displayLabel(n)
		if rich {
			fmt.Fprintf(&buf, "  %q [label=<%s>];\n", ids[n], label)
		} else {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", ids[n], label)
		}
		return true
	})

	buf.WriteString("\n")
	root.Walk(func(n *tree.Node, depth int) bool {
		if p := n.Parent(); p != nil {
			fmt.Fprintf(&buf, "  %q -> %q;\n", ids[p], ids[n])
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

// assignIDs derives a unique identifier for every node in pre-order from the
// identifier-safe translation of its label.
func assignIDs(root *tree.Node) map[*tree.Node]string {
	ids := make(map[*tree.Node]string)
	used := make(map[string]bool)
	root.Walk(func(n *tree.Node, depth int) bool {
		label, _ := n.Label()
		ids[n] = freshID(markup.Translate(label).Plain, used)
		return true
	})
	return ids
}

// freshID deduplicates name against the running set, appending a numeric
// suffix starting at 2. Empty names fall back to "node".
func freshID(name string, used map[string]bool) string {
	if name == "" {
		name = "node"
	}
	id := name
	for num := 2; used[id]; num++ {
		id = fmt.Sprintf("%s%d", name, num)
	}
	used[id] = true
	return id
}

// displayLabel renders the node's visible label. The second return value
// reports whether the label is an HTML-like Graphviz label (label=<...>)
// rather than a quoted string.
func displayLabel(n *tree.Node) (string, bool) {
	label, _ := n.Label()
	if value, ok := n.Value(); ok {
		// Two-line rich label: label line over value line.
		return escapeIfNeeded(label) + "<br/>" + escapeIfNeeded(value), true
	}
	out := escapeIfNeeded(label)
	// The substituted text must itself survive a validity re-check to be
	// usable as an HTML-like label.
	if markup.Translate(out).Valid {
		return out, true
	}
	return out, false
}

// escapeIfNeeded substitutes the null and prime glyph sentinels when the raw
// text carries valid markup, and HTML-escapes the raw text otherwise.
func escapeIfNeeded(s string) string {
	if markup.Translate(s).Valid {
		return glyphReplacer.Replace(s)
	}
	return html.EscapeString(s)
}
