package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbordev/arbor/pkg/document"
	"github.com/arbordev/arbor/pkg/tree"
)

// newInspectCmd creates the inspect command for printing a document outline.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print a document's tree outline and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			printKeyValue("File", args[0])
			if id := doc.Manifest().ID(); id != "" {
				printKeyValue("ID", id)
			}
			printKeyValue("Nodes", fmt.Sprintf("%d", countNodes(doc)))
			fmt.Println()

			if doc.IsEmpty() {
				printInfo("Document is empty")
			} else {
				printOutline(doc.Root())
			}

			if notes := doc.Notes(); notes != "" {
				fmt.Println()
				fmt.Println(StyleTitle.Render("Notes"))
				printDetail("%s", notes)
			}
			return nil
		},
	}
}

// countNodes walks the tree counting every node. Zero for an empty document.
func countNodes(doc *document.Document) int {
	n := 0
	if root := doc.Root(); root != nil {
		root.Walk(func(*tree.Node, int) bool {
			n++
			return true
		})
	}
	return n
}

// printOutline prints the tree as an indented outline, labels highlighted
// and values dimmed.
func printOutline(root *tree.Node) {
	root.Walk(func(n *tree.Node, depth int) bool {
		indent := strings.Repeat("  ", depth)
		label, ok := n.Label()
		if !ok {
			label = tree.Unlabelled
		}
		line := indent + StyleHighlight.Render(label)
		if value, ok := n.Value(); ok {
			line += StyleDim.Render(": " + value)
		}
		fmt.Println(line)
		return true
	})
}
