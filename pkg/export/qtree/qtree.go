// Package qtree renders a tree as LaTeX source for the qtree package.
//
// The output is a nested-bracket rendering: one node per line, indented two
// spaces per depth. Nodes with children (and the root, regardless of arity)
// open a bracket group "[." and close it with "]" on its own line; leaves
// below the root render inline without brackets. Labels and values run
// through the markup translator, falling back to the raw text when the
// embedded markup is invalid.
//
// The rendering is not round-trippable back into a tree.
package qtree

import (
	"strings"

	"github.com/arbordev/arbor/pkg/markup"
	"github.com/arbordev/arbor/pkg/tree"
)

// Header is the comment line prepended by Export. The \usepackage{qtree}
// directive is LaTeX code and must stay verbatim.
const Header = `% Add \usepackage{qtree} to the preamble of your document.`

// Render returns the `\Tree ...` source for the subtree rooted at root.
func Render(root *tree.Node) string {
	var b strings.Builder
	b.WriteString(`\Tree `)
	render(&b, root, 0)
	return b.String()
}

// Export returns a complete LaTeX snippet: the usage header, a blank line,
// then the rendering from [Render].
func Export(root *tree.Node) string {
	return Header + "\n\n" + Render(root)
}

func render(b *strings.Builder, n *tree.Node, depth int) {
	label, _ := n.Label()
	lbl := texOrRaw(label)

	// Depth 0 is never a leaf: even a childless root keeps its brackets.
	leaf := n.NumChildren() == 0 && depth > 0

	b.WriteString(strings.Repeat("  ", depth))
	if !leaf {
		b.WriteString("[.")
	}
	b.WriteString(lbl)
	if value, ok := n.Value(); ok {
		b.WriteString(`\\` + texOrRaw(value))
	}
	b.WriteString("\n")

	for _, c := range n.Children() {
		render(b, c, depth+1)
	}

	if !leaf {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("]\n")
	}
}

// texOrRaw translates embedded markup, falling back to the raw text when the
// markup is invalid.
func texOrRaw(s string) string {
	res := markup.Translate(s)
	if res.Valid {
		return res.TeX
	}
	return s
}
